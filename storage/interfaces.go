package storage

import "cian-scraper/models"

// RecordSink is the interface any export backend must satisfy. Records
// arrive one at a time, in emission order, while the crawl is running.
type RecordSink interface {
	Append(rec *models.Record) error
	Close() error
}
