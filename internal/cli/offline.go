package cli

import (
	"context"
	"fmt"
	"strings"

	"fontpair/internal/catalog"
	"fontpair/internal/foundries"
	"fontpair/internal/pairing"
	"fontpair/internal/seed"
	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

type offlineBackend struct {
	cat *catalog.Memory
	sel *pairing.Selector
}

// NewOfflineBackend answers from an in-memory catalog, normally the
// embedded seed.
func NewOfflineBackend(cat *catalog.Memory, sel *pairing.Selector) Backend {
	if cat == nil {
		cat = seed.MustLoad().Catalog()
	}
	if sel == nil {
		sel = pairing.NewDefaultSelector()
	}
	return &offlineBackend{cat: cat, sel: sel}
}

func (o *offlineBackend) SearchFonts(_ context.Context, q string, limit int) ([]models.Font, error) {
	var out []models.Font
	if q == "" {
		out = o.cat.Fonts()
	} else {
		out = o.cat.SearchFonts(q)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (o *offlineBackend) Font(_ context.Context, family string) (models.Font, error) {
	f, ok := o.cat.FontByFamily(family)
	if !ok {
		return models.Font{}, fmt.Errorf("font %q: %w", family, ErrNotFound)
	}
	return f, nil
}

func (o *offlineBackend) Foundry(ctx context.Context, slug string) (FoundryPage, error) {
	recs, err := o.cat.FontsByFoundry(ctx, slug)
	if err != nil {
		return FoundryPage{}, err
	}
	list := make([]models.Font, 0, len(recs))
	for _, r := range recs {
		if f, ok := o.cat.FontByFamily(r.Family); ok {
			list = append(list, f)
		}
	}

	rec, ok := o.cat.FoundryBySlug(slug)
	if !ok && len(list) == 0 {
		return FoundryPage{}, fmt.Errorf("foundry %q: %w", slug, ErrNotFound)
	}
	if !ok {
		name := utils.TitleFromSlug(slug)
		if len(list) > 0 && list[0].Foundry != "" {
			name = list[0].Foundry
		}
		rec = models.FoundryRecord{Slug: slug, Name: name}
	}
	foundries.SortByPopularity(list)
	return FoundryPage{Foundry: rec, Fonts: list}, nil
}

// SearchFoundries lists every foundry for a blank query.
func (o *offlineBackend) SearchFoundries(_ context.Context, q string, limit int) ([]models.FoundryRecord, error) {
	var out []models.FoundryRecord
	if strings.TrimSpace(q) == "" {
		out = o.cat.Foundries()
	} else {
		out = o.cat.SearchFoundries(q)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (o *offlineBackend) records() []models.FontRecord {
	return models.Records(o.cat.Fonts())
}

func (o *offlineBackend) RandomPair(_ context.Context) (PairResult, error) {
	p, err := o.sel.SelectRandomPair(o.records())
	if err != nil {
		return PairResult{}, err
	}
	return PairResult{Header: p.Header, Body: p.Body, Score: pairing.Score(p.Header, p.Body)}, nil
}

func (o *offlineBackend) Complement(ctx context.Context, family string, locked models.Role) (PairResult, error) {
	f, err := o.Font(ctx, family)
	if err != nil {
		return PairResult{}, err
	}
	partner, err := o.sel.SelectComplementary(f.FontRecord, o.records(), locked)
	if err != nil {
		return PairResult{}, err
	}

	res := PairResult{LockedRole: locked, Header: f.FontRecord, Body: partner}
	if locked == models.RoleBody {
		res.Header, res.Body = partner, f.FontRecord
	}
	res.Score = pairing.Score(res.Header, res.Body)
	return res, nil
}

func (o *offlineBackend) Score(ctx context.Context, base, candidate string) (ScoreResult, error) {
	b, err := o.Font(ctx, base)
	if err != nil {
		return ScoreResult{}, err
	}
	c, err := o.Font(ctx, candidate)
	if err != nil {
		return ScoreResult{}, err
	}
	br := pairing.Explain(b.FontRecord, c.FontRecord)
	return ScoreResult{Base: b.FontRecord, Candidate: c.FontRecord, Score: br.Total(), Breakdown: br}, nil
}

func (o *offlineBackend) Snapshot(_ context.Context) ([]models.Font, []models.FoundryRecord, error) {
	return o.cat.Fonts(), o.cat.Foundries(), nil
}
