package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises a crawl. Records with an Unknown price are counted
// but left out of the price statistics.
func (s *InsightService) Generate(records []*models.ListingRecord) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByArea: make(map[string]int),
	}

	if len(records) == 0 {
		return report
	}

	report.TotalListings = len(records)

	var priced []*models.ListingRecord
	var perM2Total float64
	var perM2Count int

	for _, r := range records {
		if r.PriceTotal.Valid && r.PriceTotal.Value > 0 {
			priced = append(priced, r)
		}
		if r.PricePerArea.Valid && r.PricePerArea.Value > 0 {
			perM2Total += r.PricePerArea.Value
			perM2Count++
		}
		if area := strings.TrimSpace(r.AreaName); area != "" {
			report.ListingsByArea[area]++
		}
	}

	report.PricedListings = len(priced)

	if len(priced) > 0 {
		report.MinPrice = priced[0].PriceTotal.Value
		report.MaxPrice = priced[0].PriceTotal.Value
		report.MostExpensive = priced[0]
		var total float64
		for _, r := range priced {
			price := r.PriceTotal.Value
			total += price
			if price < report.MinPrice {
				report.MinPrice = price
			}
			if price > report.MaxPrice {
				report.MaxPrice = price
				report.MostExpensive = r
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	if perM2Count > 0 {
		report.AveragePricePerM2 = round2(perM2Total / float64(perM2Count))
	}

	s.logger.Debug("[insights] %d listings, %d priced, %d areas",
		report.TotalListings, report.PricedListings, len(report.ListingsByArea))
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  APARTMENT CRAWL INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings scraped : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Listings with a price  : \033[1m%d\033[0m\n", r.PricedListings)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedListings > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m%.2f €\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m%.2f €\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m%.2f €\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	if r.AveragePricePerM2 > 0 {
		fmt.Fprintf(w, "  Average €/m²  : \033[1;32m%.2f €\033[0m\n", r.AveragePricePerM2)
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Address, 50))
		fmt.Fprintf(w, "  Area  : %s\n", r.MostExpensive.AreaName)
		fmt.Fprintf(w, "  Price : \033[1;31m%s €\033[0m\n", r.MostExpensive.PriceTotal)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Listings by Area\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByArea) == 0 {
		fmt.Fprintf(w, "  No area data\n")
	} else {
		for _, ac := range sortedAreas(r.ListingsByArea) {
			bar := strings.Repeat("█", ac.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(ac.area, 28), bar, ac.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

type areaCount struct {
	area  string
	count int
}

// sortedAreas orders areas by count descending, then by name.
func sortedAreas(byArea map[string]int) []areaCount {
	areas := make([]areaCount, 0, len(byArea))
	for area, cnt := range byArea {
		areas = append(areas, areaCount{area, cnt})
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].count != areas[j].count {
			return areas[i].count > areas[j].count
		}
		return areas[i].area < areas[j].area
	})
	return areas
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
