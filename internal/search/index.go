// Package search keeps an in-memory bleve index over fonts and foundries for
// the global search box: case-insensitive substring matching on names.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"fontpair/pkg/models"
)

const (
	typeFont    = "font"
	typeFoundry = "foundry"
)

// DefaultLimit is how many fonts and how many foundries a search returns.
const DefaultLimit = 5

type document struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Foundry  string `json:"foundry"`
	Category string `json:"category"`
	Slug     string `json:"slug"`
}

func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	doc := bleve.NewDocumentMapping()

	// every field is a single lower-cased term so wildcards match substrings
	for _, field := range []string{"type", "name", "foundry", "category", "slug"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = false
		doc.AddFieldMappingsAt(field, fm)
	}

	im.DefaultMapping = doc
	im.DefaultAnalyzer = keyword.Name
	return im
}

// Index is safe for concurrent use; Rebuild swaps in a fresh index.
type Index struct {
	mu        sync.RWMutex
	idx       bleve.Index
	fonts     map[string]models.Font
	foundries map[string]models.FoundryRecord
}

func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{
		idx:       idx,
		fonts:     map[string]models.Font{},
		foundries: map[string]models.FoundryRecord{},
	}, nil
}

// Rebuild replaces the indexed documents with fonts and foundries.
func (s *Index) Rebuild(fonts []models.Font, foundries []models.FoundryRecord) error {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	fontMap := make(map[string]models.Font, len(fonts))
	foundryMap := make(map[string]models.FoundryRecord, len(foundries))

	batch := idx.NewBatch()
	for _, f := range fonts {
		fontMap[f.Family] = f
		if err := batch.Index(typeFont+":"+f.Family, document{
			Type:     typeFont,
			Name:     strings.ToLower(f.Family),
			Foundry:  strings.ToLower(f.Foundry),
			Category: string(f.Category),
		}); err != nil {
			return fmt.Errorf("index font %s: %w", f.Family, err)
		}
	}
	for _, fd := range foundries {
		foundryMap[fd.Slug] = fd
		if err := batch.Index(typeFoundry+":"+fd.Slug, document{
			Type: typeFoundry,
			Name: strings.ToLower(fd.Name),
			Slug: fd.Slug,
		}); err != nil {
			return fmt.Errorf("index foundry %s: %w", fd.Slug, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return fmt.Errorf("apply batch: %w", err)
	}

	s.mu.Lock()
	old := s.idx
	s.idx, s.fonts, s.foundries = idx, fontMap, foundryMap
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Counts returns how many fonts and foundries are indexed.
func (s *Index) Counts() (fonts, foundries int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fonts), len(s.foundries)
}

func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Close()
}

type Result struct {
	Fonts     []models.Font          `json:"fonts"`
	Foundries []models.FoundryRecord `json:"foundries"`
}

// Search matches fonts by family, foundry or category and foundries by name
// or slug. An empty query matches nothing. Each list is ordered by name and
// holds at most limit entries.
func (s *Index) Search(ctx context.Context, q string, limit int) (Result, error) {
	res := Result{Fonts: []models.Font{}, Foundries: []models.FoundryRecord{}}
	term := stripWildcards(strings.ToLower(strings.TrimSpace(q)))
	if term == "" {
		return res, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fontIDs, err := s.run(ctx, typeFont, term, limit, "name", "foundry", "category")
	if err != nil {
		return Result{}, err
	}
	for _, id := range fontIDs {
		if f, ok := s.fonts[id]; ok {
			res.Fonts = append(res.Fonts, f)
		}
	}

	foundryIDs, err := s.run(ctx, typeFoundry, term, limit, "name", "slug")
	if err != nil {
		return Result{}, err
	}
	for _, id := range foundryIDs {
		if fd, ok := s.foundries[id]; ok {
			res.Foundries = append(res.Foundries, fd)
		}
	}
	return res, nil
}

func (s *Index) run(ctx context.Context, docType, term string, limit int, fields ...string) ([]string, error) {
	pattern := "*" + term + "*"
	matches := make([]query.Query, 0, len(fields))
	for _, field := range fields {
		wq := bleve.NewWildcardQuery(pattern)
		wq.SetField(field)
		matches = append(matches, wq)
	}
	tq := bleve.NewTermQuery(docType)
	tq.SetField("type")

	req := bleve.NewSearchRequestOptions(
		bleve.NewConjunctionQuery(tq, bleve.NewDisjunctionQuery(matches...)),
		limit, 0, false,
	)
	req.SortBy([]string{"name", "_id"})

	out, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", docType, err)
	}

	prefix := docType + ":"
	ids := make([]string, 0, len(out.Hits))
	for _, hit := range out.Hits {
		ids = append(ids, strings.TrimPrefix(hit.ID, prefix))
	}
	return ids, nil
}

// bleve wildcards have no escape syntax, so user input loses * and ?.
func stripWildcards(s string) string {
	return strings.NewReplacer("*", "", "?", "").Replace(s)
}
