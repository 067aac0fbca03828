package storage

import "apartment-scraper/models"

// ListingWriter is the interface any output sink must satisfy. Write is
// called once per crawl run with the full, ordered result.
type ListingWriter interface {
	Write(records []*models.ListingRecord) error
	Close() error
}

// ListingReader is implemented by sinks that can hand stored records back.
type ListingReader interface {
	FetchAll() ([]*models.ListingRecord, error)
}
