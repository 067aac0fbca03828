package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apartment-scraper/models"
)

func sampleRecords() []*models.ListingRecord {
	return []*models.ListingRecord{
		{
			Address:      "Tartu mnt 1, Kesklinn",
			PriceTotal:   models.IntNumber(185000),
			PricePerArea: models.FloatNumber(3425.93),
			AreaName:     "Kesklinn",
			Size:         "54",
			Rooms:        "3",
			Floor:        "5/9",
			Year:         models.Unknown,
			Link:         "https://www.city24.ee/en/real-estate/1",
		},
		{
			Address:      "Sõpruse pst 5",
			PriceTotal:   models.UnknownNumber(),
			PricePerArea: models.UnknownNumber(),
			AreaName:     "",
			Size:         models.Unknown,
			Rooms:        models.Unknown,
			Floor:        models.Unknown,
			Year:         models.Unknown,
			Link:         "",
		},
	}
}

func TestCSVWriterWritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	w := NewCSVWriter(path)

	require.NoError(t, w.Write(sampleRecords()))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.CSVHeader, rows[0])
	assert.Equal(t, []string{
		"Tartu mnt 1, Kesklinn", "185000", "3425.93", "Kesklinn", "54", "3", "5/9", "N/A",
		"https://www.city24.ee/en/real-estate/1",
	}, rows[1])
	assert.Equal(t, []string{"Sõpruse pst 5", "N/A", "N/A", "", "N/A", "N/A", "N/A", "N/A", ""}, rows[2])
}

func TestCSVWriterNoRecordsNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := NewCSVWriter(path)

	require.NoError(t, w.Write(nil))
	require.NoError(t, w.Close())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCSVWriterAppendsAcrossWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := NewCSVWriter(path)

	records := sampleRecords()
	require.NoError(t, w.Write(records[:1]))
	require.NoError(t, w.Write(records[1:]))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, path, w.Path())
}
