package ingest

import (
	"slices"
	"strconv"
	"strings"

	"fontpair/pkg/models"
)

// defaultFoundry is credited when a font lists no designer.
const defaultFoundry = "Google Fonts"

// weightsFromVariants keeps upright variants, maps them to numeric weights
// and falls back to [400]. italic reports whether a key is an italic style;
// unparsable upright keys count as 400.
func weightsFromVariants(keys []string, italic func(string) bool) []int {
	ws := make([]int, 0, len(keys))
	for _, k := range keys {
		if italic(k) {
			continue
		}
		n, err := strconv.Atoi(k)
		if err != nil || n <= 0 {
			n = 400
		}
		ws = append(ws, n)
	}
	slices.Sort(ws)
	ws = slices.Compact(ws)
	if len(ws) == 0 {
		return []int{400}
	}
	return ws
}

// metadata keys look like "400" and "400i"
func metadataItalic(k string) bool { return strings.Contains(k, "i") }

// webfonts variants look like "regular", "italic", "700" and "700italic"
func webfontsItalic(k string) bool { return strings.Contains(k, "italic") }

func foundryFor(designers []string) string {
	for _, d := range designers {
		if d = strings.TrimSpace(d); d != "" {
			return d
		}
	}
	return defaultFoundry
}

// newFont builds a normalized record. ok is false when the category is not
// one the catalog knows.
func newFont(family, category string, weights []int, designers []string) (models.Font, bool) {
	cat, err := models.ParseCategory(category)
	if err != nil {
		return models.Font{}, false
	}
	f := models.Font{
		FontRecord: models.FontRecord{
			Family:     family,
			Category:   cat,
			Weights:    weights,
			Foundry:    foundryFor(designers),
			Legibility: models.LegibilityFor(cat),
		},
		FontDetails: models.FontDetails{Designers: designers},
	}
	f.Normalize()
	return f, true
}
