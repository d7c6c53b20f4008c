package cian

import (
	"fmt"
	"strings"

	"cian-scraper/models"
)

// Query-string fragments of the catalog search template. The site expects
// this exact shape, so the URL is assembled textually rather than through
// net/url encoding.
const (
	baseLink          = "https://cian.ru/cat.php?engine_version=2&p=%d&region=%s"
	offerTypeParam    = "&offer_type=%s"
	dealTypeParam     = "&deal_type=%s"
	roomParam         = "&room%d=1"
	studioParam       = "&room9=1"
	withoutNeighbors  = "&with_neighbors=0"
	rentDurationParam = "&type=%d"
	onlyHomeownerFlag = "&is_by_homeowner=1"
)

// pageURL returns the search URL for the given page number. A caller
// supplied search URL takes precedence over the catalog template; both
// modes carry the controller's current page index.
func (s *Scraper) pageURL(page int) string {
	if s.cfg.SearchURL != "" {
		return fmt.Sprintf("%s&p=%d", s.cfg.SearchURL, page)
	}
	return catalogURL(s.cfg.DealType, s.cfg.AccommodationType, s.cfg.Rooms,
		s.cfg.LocationID, s.cfg.ByHomeowner, page)
}

// catalogURL builds the templated search query from the crawl parameters.
func catalogURL(dealType models.DealType, accommodation string, rooms models.RoomSelection,
	locationID string, byHomeowner bool, page int) string {

	var b strings.Builder
	fmt.Fprintf(&b, baseLink, page, locationID)
	fmt.Fprintf(&b, offerTypeParam, accommodation)
	fmt.Fprintf(&b, dealTypeParam, dealType.QueryValue())

	switch rooms.Mode {
	case models.RoomsAll:
		// no room filter
	case models.RoomsStudio:
		b.WriteString(studioParam)
	case models.RoomsSet:
		for _, n := range rooms.Counts {
			if n > 0 && n < 6 {
				fmt.Fprintf(&b, roomParam, n)
			}
		}
		if rooms.IncludeStudio {
			b.WriteString(studioParam)
		}
	}

	b.WriteString(withoutNeighbors)
	if duration, ok := dealType.RentDuration(); ok {
		fmt.Fprintf(&b, rentDurationParam, duration)
	}
	if byHomeowner {
		b.WriteString(onlyHomeownerFlag)
	}
	return b.String()
}
