// Package export writes catalog snapshots as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fontpair/pkg/models"
)

var (
	FontHeader    = []string{"family", "category", "weights", "foundry", "foundry_slug", "legibility", "designers", "popularity", "trending", "date_added", "last_modified", "subsets"}
	FoundryHeader = []string{"slug", "name", "handle", "website", "instagram", "is_foundry", "bio"}
)

func WriteFontsCSV(out io.Writer, fonts []models.Font) error {
	w := csv.NewWriter(out)
	if err := w.Write(FontHeader); err != nil {
		return err
	}
	for _, f := range fonts {
		weights := make([]string, len(f.Weights))
		for i, wt := range f.Weights {
			weights[i] = strconv.Itoa(wt)
		}
		if err := w.Write([]string{
			f.Family,
			string(f.Category),
			strings.Join(weights, ","),
			f.Foundry,
			f.FoundrySlug,
			string(f.Legibility),
			strings.Join(f.Designers, ","),
			optionalInt(f.Popularity),
			optionalInt(f.Trending),
			f.DateAdded,
			f.LastModified,
			strings.Join(f.Subsets, ","),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteFoundriesCSV(out io.Writer, list []models.FoundryRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(FoundryHeader); err != nil {
		return err
	}
	for _, fd := range list {
		if err := w.Write([]string{
			fd.Slug,
			fd.Name,
			fd.Handle,
			fd.Website,
			fd.Instagram,
			strconv.FormatBool(fd.IsFoundry),
			fd.Bio,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ToFile creates path (and its directory) and hands the file to write.
func ToFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// unranked fonts get an empty cell rather than 0
func optionalInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
