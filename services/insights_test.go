package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

func sampleRecords() []*models.ListingRecord {
	return []*models.ListingRecord{
		{Address: "Tartu mnt 1", PriceTotal: models.IntNumber(200000), PricePerArea: models.IntNumber(4000), AreaName: "Kesklinn"},
		{Address: "Pärnu mnt 2", PriceTotal: models.IntNumber(50000), PricePerArea: models.IntNumber(2000), AreaName: "Kesklinn"},
		{Address: "Narva mnt 3", PriceTotal: models.IntNumber(120000), PricePerArea: models.UnknownNumber(), AreaName: "Lasnamäe"},
		{Address: "Mere pst 4", PriceTotal: models.FloatNumber(300000.5), PricePerArea: models.IntNumber(3000), AreaName: "Kesklinn"},
		{Address: "Sõpruse pst 5", PriceTotal: models.UnknownNumber(), PricePerArea: models.UnknownNumber(), AreaName: "Mustamäe"},
	}
}

func TestInsightCounts(t *testing.T) {
	r := NewInsightService(utils.NewNopLogger()).Generate(sampleRecords())
	assert.Equal(t, 5, r.TotalListings)
	assert.Equal(t, 4, r.PricedListings)
}

func TestInsightPrices(t *testing.T) {
	r := NewInsightService(utils.NewNopLogger()).Generate(sampleRecords())
	assert.Equal(t, 167500.13, r.AveragePrice)
	assert.Equal(t, 50000.0, r.MinPrice)
	assert.Equal(t, 300000.5, r.MaxPrice)
	assert.Equal(t, 3000.0, r.AveragePricePerM2)
}

func TestInsightMostExpensive(t *testing.T) {
	r := NewInsightService(utils.NewNopLogger()).Generate(sampleRecords())
	require.NotNil(t, r.MostExpensive)
	assert.Equal(t, "Mere pst 4", r.MostExpensive.Address)
}

func TestInsightAreaGrouping(t *testing.T) {
	r := NewInsightService(utils.NewNopLogger()).Generate(sampleRecords())
	assert.Equal(t, 3, r.ListingsByArea["Kesklinn"])
	assert.Equal(t, 1, r.ListingsByArea["Lasnamäe"])
	assert.Equal(t, 1, r.ListingsByArea["Mustamäe"])

	areas := sortedAreas(r.ListingsByArea)
	require.Len(t, areas, 3)
	assert.Equal(t, "Kesklinn", areas[0].area)
	assert.Equal(t, "Lasnamäe", areas[1].area)
}

func TestInsightEmptyInput(t *testing.T) {
	r := NewInsightService(utils.NewNopLogger()).Generate(nil)
	assert.Equal(t, 0, r.TotalListings)
	assert.Nil(t, r.MostExpensive)
	assert.NotNil(t, r.ListingsByArea)
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(utils.NewNopLogger())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleRecords()))

	out := buf.String()
	assert.Contains(t, out, "Total listings scraped")
	assert.Contains(t, out, "Mere pst 4")
	assert.Contains(t, out, "Kesklinn")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Sõpru...", truncate("Sõpruse puiestee", 8))
}
