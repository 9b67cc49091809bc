// Package ingest pulls the Google Fonts catalog from its public feeds,
// normalizes it into catalog records and stores it.
package ingest

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"fontpair/internal/logging"
	"fontpair/pkg/models"
)

// Source is one upstream feed, already mapped into catalog records.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.Font, error)
}

// Aggregator calls every source and merges their records by family.
type Aggregator struct {
	Sources []Source
	Logger  *log.Logger
}

func NewAggregator(logger *log.Logger, sources ...Source) *Aggregator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Aggregator{Sources: sources, Logger: logger}
}

// FetchAndMerge fetches every source concurrently and merges in source
// order, so the first source still wins identity fields. It keeps going
// when a source fails and errors only when every source failed. Output is
// ordered by family.
func (a *Aggregator) FetchAndMerge(ctx context.Context) ([]models.Font, map[string]int, error) {
	results := make([][]models.Font, len(a.Sources))
	errs := make([]error, len(a.Sources))

	var g errgroup.Group
	for i, src := range a.Sources {
		g.Go(func() error {
			a.Logger.Info("fetching", "source", src.Name())
			results[i], errs[i] = src.FetchAll(ctx)
			return nil
		})
	}
	_ = g.Wait()

	byKey := make(map[string]models.Font)
	counts := make(map[string]int, len(a.Sources))
	var lastErr error
	ok := 0

	for i, src := range a.Sources {
		if errs[i] != nil {
			a.Logger.Error("source failed", "source", src.Name(), "err", errs[i])
			lastErr = errs[i]
			continue
		}
		ok++
		counts[src.Name()] = len(results[i])

		for _, f := range results[i] {
			key := canonicalKey(f.Family)
			if existing, found := byKey[key]; found {
				byKey[key] = mergeFont(existing, f)
			} else {
				byKey[key] = f
			}
		}
	}
	if ok == 0 && lastErr != nil {
		return nil, counts, lastErr
	}

	out := make([]models.Font, 0, len(byKey))
	for _, f := range byKey {
		f.Normalize()
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Family < out[j].Family })
	return out, counts, nil
}

func canonicalKey(family string) string {
	return strings.ToLower(strings.Join(strings.Fields(family), " "))
}

// mergeFont folds incoming into base. The first source owns identity
// fields; list fields are unioned; empty enrichment is filled in.
func mergeFont(base, incoming models.Font) models.Font {
	if base.Foundry == "" || (base.Foundry == defaultFoundry && incoming.Foundry != "") {
		base.Foundry = incoming.Foundry
	}

	base.Weights = mergeInts(base.Weights, incoming.Weights)
	base.Designers = mergeStrings(base.Designers, incoming.Designers)
	base.Subsets = mergeStrings(base.Subsets, incoming.Subsets)
	base.Variants = mergeStrings(base.Variants, incoming.Variants)
	base.Classifications = mergeStrings(base.Classifications, incoming.Classifications)

	if base.Popularity == 0 {
		base.Popularity = incoming.Popularity
	}
	if base.Trending == 0 {
		base.Trending = incoming.Trending
	}
	if base.DateAdded == "" {
		base.DateAdded = incoming.DateAdded
	}
	// ISO dates compare lexically
	if incoming.LastModified > base.LastModified {
		base.LastModified = incoming.LastModified
	}
	return base
}

func mergeStrings(a, b []string) []string {
	out := slices.Clone(a)
	for _, v := range b {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func mergeInts(a, b []int) []int {
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}
