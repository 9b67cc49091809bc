package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fontpair/pkg/models"
)

// ReadFontsCSV reads what WriteFontsCSV writes. Columns are matched by
// header name, so extra or reordered columns are fine. Rows without a
// family are skipped; a bad number fails the whole read.
func ReadFontsCSV(in io.Reader) ([]models.Font, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var out []models.Font
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		family := valueAt(header, row, "family")
		if family == "" {
			continue
		}

		weights, err := parseInts(valueAt(header, row, "weights"))
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): weights: %w", line, family, err)
		}
		popularity, err := parseOptionalInt(valueAt(header, row, "popularity"))
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): popularity: %w", line, family, err)
		}
		trending, err := parseOptionalInt(valueAt(header, row, "trending"))
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): trending: %w", line, family, err)
		}

		cat := models.Category(valueAt(header, row, "category"))
		if parsed, err := models.ParseCategory(string(cat)); err == nil {
			cat = parsed
		}
		leg := models.Legibility(strings.ToLower(valueAt(header, row, "legibility")))
		if leg == "" {
			leg = models.LegibilityFor(cat)
		}

		f := models.Font{
			FontRecord: models.FontRecord{
				Family:     family,
				Category:   cat,
				Weights:    weights,
				Foundry:    valueAt(header, row, "foundry"),
				Legibility: leg,
			},
			FontDetails: models.FontDetails{
				Designers:    splitList(valueAt(header, row, "designers")),
				Popularity:   popularity,
				Trending:     trending,
				DateAdded:    valueAt(header, row, "date_added"),
				LastModified: valueAt(header, row, "last_modified"),
				Subsets:      splitList(valueAt(header, row, "subsets")),
			},
		}
		f.Normalize()
		out = append(out, f)
	}
	return out, nil
}

// ReadFoundriesCSV reads what WriteFoundriesCSV writes. Rows without a
// name are skipped.
func ReadFoundriesCSV(in io.Reader) ([]models.FoundryRecord, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var out []models.FoundryRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		name := valueAt(header, row, "name")
		if name == "" {
			continue
		}
		isFoundry, _ := strconv.ParseBool(valueAt(header, row, "is_foundry"))
		out = append(out, models.FoundryRecord{
			Slug:      valueAt(header, row, "slug"),
			Name:      name,
			Handle:    valueAt(header, row, "handle"),
			Website:   valueAt(header, row, "website"),
			Instagram: valueAt(header, row, "instagram"),
			IsFoundry: isFoundry,
			Bio:       valueAt(header, row, "bio"),
		})
	}
	return out, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseInts(raw string) ([]int, error) {
	var out []int
	for _, s := range splitList(raw) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
