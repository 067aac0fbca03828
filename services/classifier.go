package services

import (
	"strings"

	"apartment-scraper/models"
)

// areaUnits are stripped from the end of the size text.
var areaUnits = []string{"m²", "m2"}

// hintBucket maps icon class fragments to the feature slot they mark.
// Rules are checked in order; the first rule that matches an item wins
// for that item.
type hintBucket struct {
	fragments []string
	assign    func(f *models.Features, text string)
}

var hintBuckets = []hintBucket{
	{[]string{"icon-door", "icon-rooms"}, func(f *models.Features, v string) { f.Rooms = v }},
	{[]string{"icon-stairs", "icon-floor"}, func(f *models.Features, v string) { f.Floor = v }},
	{[]string{"icon-bricks", "icon-year"}, func(f *models.Features, v string) { f.Year = v }},
}

// ClassifyFeatures buckets a listing's feature items into size, rooms,
// floor and year.
//
// The first item is always the size. Later items are routed by their icon
// hint; items without a hint or with an unrecognised one are dropped.
// When several items land in the same slot the last one wins.
func ClassifyFeatures(items []models.RawFeatureItem) models.Features {
	features := models.UnknownFeatures()
	if len(items) == 0 {
		return features
	}

	features.Size = stripAreaUnit(items[0].Text)

	for _, item := range items[1:] {
		if !item.HasHint {
			continue
		}
		for _, b := range hintBuckets {
			if containsAny(item.Hint, b.fragments) {
				b.assign(&features, strings.TrimSpace(item.Text))
				break
			}
		}
	}

	return features
}

func stripAreaUnit(s string) string {
	s = strings.TrimSpace(s)
	for _, unit := range areaUnits {
		if strings.HasSuffix(s, unit) {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit))
			break
		}
	}
	if s == "" {
		return models.Unknown
	}
	return s
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
