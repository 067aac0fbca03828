package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

const listingColumns = 9

// PostgresWriter persists listing records to PostgreSQL. Unknown values
// are stored as NULL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS apartment_listings (
			id             SERIAL PRIMARY KEY,
			address        TEXT          NOT NULL,
			price_total    NUMERIC(14,2),
			price_per_area NUMERIC(12,2),
			area_name      TEXT          NOT NULL DEFAULT '',
			size           TEXT,
			rooms          TEXT,
			floor          TEXT,
			year           TEXT,
			link           TEXT          NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_apartment_listings_price ON apartment_listings(price_total);
		CREATE INDEX IF NOT EXISTS idx_apartment_listings_area  ON apartment_listings(area_name);
	`)
	return err
}

// Clear deletes all existing listings from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM apartment_listings")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the stored listings with records. Duplicate links are
// kept, matching the CSV output.
func (pw *PostgresWriter) Write(records []*models.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		query, args := buildInsert(records[i:end])
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}
	return nil
}

func buildInsert(batch []*models.ListingRecord) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*listingColumns)

	for idx, r := range batch {
		base := idx * listingColumns
		placeholders := make([]string, listingColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.Address,
			nullNumber(r.PriceTotal),
			nullNumber(r.PricePerArea),
			r.AreaName,
			nullText(r.Size),
			nullText(r.Rooms),
			nullText(r.Floor),
			nullText(r.Year),
			r.Link,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO apartment_listings
			(address, price_total, price_per_area, area_name, size, rooms, floor, year, link)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored listings in insertion order.
func (pw *PostgresWriter) FetchAll() ([]*models.ListingRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := pw.db.QueryContext(ctx, `
		SELECT address, price_total, price_per_area, area_name, size, rooms, floor, year, link
		FROM apartment_listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var records []*models.ListingRecord
	for rows.Next() {
		var (
			r                   models.ListingRecord
			total, perArea      sql.NullFloat64
			size, rooms, fl, yr sql.NullString
		)
		if err := rows.Scan(
			&r.Address, &total, &perArea, &r.AreaName,
			&size, &rooms, &fl, &yr, &r.Link,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		r.PriceTotal = numberFrom(total)
		r.PricePerArea = numberFrom(perArea)
		r.Size = textFrom(size)
		r.Rooms = textFrom(rooms)
		r.Floor = textFrom(fl)
		r.Year = textFrom(yr)
		records = append(records, &r)
	}
	return records, rows.Err()
}

func nullNumber(n models.Number) sql.NullFloat64 {
	return sql.NullFloat64{Float64: n.Value, Valid: n.Valid}
}

func nullText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != models.Unknown}
}

func numberFrom(n sql.NullFloat64) models.Number {
	if !n.Valid {
		return models.UnknownNumber()
	}
	if n.Float64 == math.Trunc(n.Float64) {
		return models.IntNumber(int64(n.Float64))
	}
	return models.FloatNumber(n.Float64)
}

func textFrom(s sql.NullString) string {
	if !s.Valid {
		return models.Unknown
	}
	return s.String
}
