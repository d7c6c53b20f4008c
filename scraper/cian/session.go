package cian

import (
	"cian-scraper/models"
	"cian-scraper/utils"
)

// Session is the mutable state of one crawl run: the set of admitted
// listing ids, the running mean price and the emitted records, in
// encounter order. It is owned by the Scraper and mutated only from its
// single sequential flow.
type Session struct {
	seen *utils.IDSet

	MeanPrice float64
	Committed int
	priced    int
	Records   []*models.Record
}

// NewSession creates an empty crawl session.
func NewSession() *Session {
	return &Session{seen: utils.NewIDSet()}
}

// Admit commits a candidate record into the session. Duplicates (same
// canonical id) are skipped silently and return false — pagination overlap
// makes them expected, not an error.
//
// The running mean is only advanced by records that carry a price, and the
// price per square meter is only derived when the total area is known and
// positive; an unknown or zero denominator leaves the field at its zero
// value instead of dividing.
func (s *Session) Admit(rec *models.Record) bool {
	if !s.seen.Add(utils.ListingID(rec.Common.Link)) {
		return false
	}

	if price, ok := rec.Price.Amount64(); ok {
		s.MeanPrice = (s.MeanPrice*float64(s.priced) + price) / float64(s.priced+1)
		s.priced++
		if rec.Spec.TotalMeters > 0 {
			rec.Price.PricePerM2 = int(price / rec.Spec.TotalMeters)
		}
	}

	s.Committed++
	s.Records = append(s.Records, rec)
	return true
}
