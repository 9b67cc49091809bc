// Package catalog defines how the pairing engine obtains fonts, and an
// immutable in-memory catalog used for the seed data and offline work.
package catalog

import (
	"context"
	"slices"
	"strings"

	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

// Provider supplies catalog snapshots. Records are expected to be
// normalized (sorted weights, derived foundry slug).
type Provider interface {
	AllFonts(ctx context.Context) ([]models.FontRecord, error)
	FontsByFoundry(ctx context.Context, slug string) ([]models.FontRecord, error)
}

// Memory is a read-only snapshot. It is safe for concurrent use.
type Memory struct {
	fonts     []models.Font
	foundries []models.FoundryRecord
	byFamily  map[string]int
	bySlug    map[string]int
}

var _ Provider = (*Memory)(nil)

// NewMemory copies and normalizes the given records. Later duplicates of a
// family or foundry slug are dropped.
func NewMemory(fonts []models.Font, foundries []models.FoundryRecord) *Memory {
	m := &Memory{
		fonts:     make([]models.Font, 0, len(fonts)),
		foundries: make([]models.FoundryRecord, 0, len(foundries)),
		byFamily:  make(map[string]int, len(fonts)),
		bySlug:    make(map[string]int, len(foundries)),
	}
	for _, f := range fonts {
		f.Normalize()
		if _, dup := m.byFamily[f.Family]; dup {
			continue
		}
		m.byFamily[f.Family] = len(m.fonts)
		m.fonts = append(m.fonts, f)
	}
	for _, fd := range foundries {
		if fd.Slug == "" {
			fd.Slug = utils.Slugify(fd.Name)
		}
		if _, dup := m.bySlug[fd.Slug]; dup {
			continue
		}
		m.bySlug[fd.Slug] = len(m.foundries)
		m.foundries = append(m.foundries, fd)
	}
	return m
}

func (m *Memory) AllFonts(_ context.Context) ([]models.FontRecord, error) {
	return models.Records(m.fonts), nil
}

func (m *Memory) FontsByFoundry(_ context.Context, slug string) ([]models.FontRecord, error) {
	var out []models.FontRecord
	for _, f := range m.fonts {
		if f.FoundrySlug == slug {
			out = append(out, f.FontRecord)
		}
	}
	return out, nil
}

// Fonts returns the full entries, enrichment included.
func (m *Memory) Fonts() []models.Font {
	return slices.Clone(m.fonts)
}

func (m *Memory) Foundries() []models.FoundryRecord {
	return slices.Clone(m.foundries)
}

func (m *Memory) FontByFamily(family string) (models.Font, bool) {
	i, ok := m.byFamily[family]
	if !ok {
		return models.Font{}, false
	}
	return m.fonts[i], true
}

func (m *Memory) FoundryBySlug(slug string) (models.FoundryRecord, bool) {
	i, ok := m.bySlug[slug]
	if !ok {
		return models.FoundryRecord{}, false
	}
	return m.foundries[i], true
}

// SearchFonts matches the query as a case-insensitive substring of the
// family, foundry or category. A blank query matches nothing.
func (m *Memory) SearchFonts(query string) []models.Font {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []models.Font
	for _, f := range m.fonts {
		if strings.Contains(strings.ToLower(f.Family), q) ||
			strings.Contains(strings.ToLower(f.Foundry), q) ||
			strings.Contains(string(f.Category), q) {
			out = append(out, f)
		}
	}
	return out
}

// SearchFoundries matches the query against name and slug.
func (m *Memory) SearchFoundries(query string) []models.FoundryRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []models.FoundryRecord
	for _, fd := range m.foundries {
		if strings.Contains(strings.ToLower(fd.Name), q) || strings.Contains(fd.Slug, q) {
			out = append(out, fd)
		}
	}
	return out
}
