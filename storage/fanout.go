package storage

import (
	"errors"

	"apartment-scraper/models"
)

// Fanout writes the same records to several sinks in order. Every sink is
// tried even if an earlier one fails; the errors are joined.
type Fanout struct {
	writers []ListingWriter
}

func NewFanout(writers ...ListingWriter) *Fanout {
	return &Fanout{writers: writers}
}

// Add appends a sink.
func (f *Fanout) Add(w ListingWriter) {
	f.writers = append(f.writers, w)
}

func (f *Fanout) Write(records []*models.ListingRecord) error {
	var errs []error
	for _, w := range f.writers {
		if err := w.Write(records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) Close() error {
	var errs []error
	for _, w := range f.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
