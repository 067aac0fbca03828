package services

import (
	"regexp"
	"strconv"
	"strings"

	"apartment-scraper/models"
)

// nonNumericRegexp matches everything that is not part of a number:
// currency symbols, thin and non-breaking spaces, unit suffixes.
var nonNumericRegexp = regexp.MustCompile(`[^\d,.]`)

// NormalizePrice converts free-form price text into a number.
// Examples:
//
//	"1 234,56 €" → 1234.56
//	"185 000 €"  → 185000
//	"2 312 €/m²" → 2312
//	"N/A", "", "abc" → Unknown
//
// A comma is read as the decimal separator only when the text has no
// period. Anything that does not parse yields Unknown; it never fails.
func NormalizePrice(raw string) models.Number {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == models.Unknown {
		return models.UnknownNumber()
	}

	cleaned := nonNumericRegexp.ReplaceAllString(raw, "")
	if !strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	if cleaned == "" {
		return models.UnknownNumber()
	}

	if !strings.ContainsAny(cleaned, ".,") {
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return models.UnknownNumber()
		}
		return models.IntNumber(n)
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return models.UnknownNumber()
	}
	return models.FloatNumber(f)
}
