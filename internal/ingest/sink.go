package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

// FontStore is the write side of the font catalog.
type FontStore interface {
	Upsert(ctx context.Context, fonts []models.Font) error
	DeleteAll(ctx context.Context) (int64, error)
}

// FoundryStore only adds foundries; curated rows are never overwritten.
type FoundryStore interface {
	InsertMissing(ctx context.Context, list []models.FoundryRecord) (int, error)
}

// WriteJSON writes fonts as an indented JSON array, creating parent dirs.
func WriteJSON(path string, fonts []models.Font) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	b, err := json.MarshalIndent(fonts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fonts: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// SaveFonts upserts fonts in batches. With refresh the table is emptied
// first. A failed batch is counted and skipped; the rest still land.
func SaveFonts(ctx context.Context, store FontStore, fonts []models.Font, batchSize int, refresh bool) (saved, failed int, err error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	if refresh {
		if _, err := store.DeleteAll(ctx); err != nil {
			return 0, 0, fmt.Errorf("clear fonts: %w", err)
		}
	}

	var firstErr error
	for start := 0; start < len(fonts); start += batchSize {
		if err := ctx.Err(); err != nil {
			return saved, failed, err
		}
		batch := fonts[start:min(start+batchSize, len(fonts))]
		if err := store.Upsert(ctx, batch); err != nil {
			failed += len(batch)
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d: %w", start/batchSize+1, err)
			}
			continue
		}
		saved += len(batch)
	}
	if saved == 0 && firstErr != nil {
		return saved, failed, firstErr
	}
	return saved, failed, nil
}

// ExtractFoundries lists one record per distinct slug: the credited
// foundry of every font, then each of its designers.
func ExtractFoundries(fonts []models.Font) []models.FoundryRecord {
	seen := make(map[string]bool)
	var out []models.FoundryRecord

	add := func(name string) {
		slug := utils.Slugify(name)
		if slug == "" || seen[slug] {
			return
		}
		seen[slug] = true
		out = append(out, models.FoundryRecord{Name: name, Slug: slug})
	}
	for _, f := range fonts {
		add(f.Foundry)
		for _, d := range f.Designers {
			add(d)
		}
	}
	return out
}
