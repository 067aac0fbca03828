package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"apartment-scraper/models"
)

// CSVWriter writes listing records to a CSV file with a header row.
// Unknown values are written as "N/A". The file is only created on the
// first Write, so a run without records leaves no file behind.
// It is safe for concurrent use.
type CSVWriter struct {
	path string

	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter prepares a writer for the given path. Intermediate
// directories are created on the first Write.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the output file path.
func (c *CSVWriter) Path() string {
	return c.path
}

// Write appends records to the file, creating it and its header first if
// needed.
func (c *CSVWriter) Write(records []*models.ListingRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(records) == 0 {
		return nil
	}
	if err := c.open(); err != nil {
		return err
	}

	for _, r := range records {
		if err := c.writer.Write(r.Row()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

func (c *CSVWriter) open() error {
	if c.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(models.CSVHeader); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv: write header: %w", err)
	}

	c.file = f
	c.writer = w
	return nil
}

// Close flushes and closes the underlying file, if one was created.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return nil
	}
	c.writer.Flush()
	err := c.file.Close()
	c.file = nil
	return err
}
