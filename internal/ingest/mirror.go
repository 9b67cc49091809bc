package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"fontpair/pkg/models"
)

var categoryLabels = map[models.Category]string{
	models.CategorySansSerif:   "Sans Serif",
	models.CategorySerif:       "Serif",
	models.CategoryDisplay:     "Display",
	models.CategoryHandwriting: "Handwriting",
	models.CategoryMonospace:   "Monospace",
}

// EncodeMetadata renders fonts in the fonts.google.com metadata format,
// XSSI prefix included, so a local mirror can stand in for the live feed.
func EncodeMetadata(fonts []models.Font) ([]byte, error) {
	resp := metadataResponse{FamilyMetadataList: make([]familyMetadata, 0, len(fonts))}
	for _, f := range fonts {
		keys := f.Variants
		if len(keys) == 0 {
			keys = make([]string, len(f.Weights))
			for i, w := range f.Weights {
				keys[i] = strconv.Itoa(w)
			}
		}
		styles := make(map[string]json.RawMessage, len(keys))
		for _, k := range keys {
			styles[k] = json.RawMessage(`{}`)
		}

		designers := f.Designers
		if len(designers) == 0 && f.Foundry != "" && f.Foundry != defaultFoundry {
			designers = []string{f.Foundry}
		}

		resp.FamilyMetadataList = append(resp.FamilyMetadataList, familyMetadata{
			Family:          f.Family,
			Category:        categoryLabels[f.Category],
			Designers:       designers,
			Fonts:           styles,
			Subsets:         f.Subsets,
			Popularity:      f.Popularity,
			Trending:        f.Trending,
			DateAdded:       f.DateAdded,
			LastModified:    f.LastModified,
			Classifications: f.Classifications,
		})
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return append(append(bytes.Clone(xssiPrefix), '\n'), b...), nil
}

// CheckMetadata reports whether b decodes as a metadata feed.
func CheckMetadata(b []byte) (int, error) {
	b = bytes.TrimPrefix(bytes.TrimSpace(b), xssiPrefix)
	var resp metadataResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return 0, fmt.Errorf("metadata: decode: %w", err)
	}
	return len(resp.FamilyMetadataList), nil
}
