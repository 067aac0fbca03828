package city24

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a pattern matched nothing.
var ErrNotFound = errors.New("not found")

// Level is the granularity at which a scrape failure is contained.
type Level string

const (
	// LevelField failures degrade one field to Unknown.
	LevelField Level = "field"
	// LevelListing failures drop one record.
	LevelListing Level = "listing"
	// LevelPage failures yield an empty page.
	LevelPage Level = "page"
)

// ScrapeError describes a contained failure.
type ScrapeError struct {
	Level Level
	Page  int
	What  string
	Err   error
}

func (e *ScrapeError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("[%s] page %d: %s: %v", e.Level, e.Page, e.What, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Level, e.What, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// panicError turns a recovered value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
