package server

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"fontpair/internal/fonts"
	"fontpair/internal/foundries"
	"fontpair/internal/ingest"
	"fontpair/internal/search"
	"fontpair/internal/seed"
	synchub "fontpair/internal/sync"
)

// Catalog ties the stores to the derived views that must follow them: the
// search index and the event feed.
type Catalog struct {
	Fonts     *fonts.Repo
	Foundries *foundries.Repo
	Index     *search.Index
	Hub       *synchub.Hub
	Logger    *log.Logger

	reindex singleflight.Group
}

// SeedIfEmpty loads the curated catalog into an empty database. It returns
// how many fonts were written; zero means the database already had data.
func (c *Catalog) SeedIfEmpty(ctx context.Context, d seed.Data) (int, error) {
	n, err := c.Fonts.CountAll(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	if err := c.Fonts.Upsert(ctx, d.Fonts); err != nil {
		return 0, fmt.Errorf("seed fonts: %w", err)
	}
	if err := c.Foundries.Upsert(ctx, d.Foundries); err != nil {
		return 0, fmt.Errorf("seed foundries: %w", err)
	}
	// fonts credited to designers without a curated page still get a record
	if _, err := c.Foundries.InsertMissing(ctx, ingest.ExtractFoundries(d.Fonts)); err != nil {
		return 0, fmt.Errorf("seed foundries: %w", err)
	}
	c.Logger.Info("seeded catalog", "fonts", len(d.Fonts), "foundries", len(d.Foundries))
	return len(d.Fonts), nil
}

// Reindex rebuilds the search index from the stores and announces it.
// Concurrent calls share one rebuild.
func (c *Catalog) Reindex(ctx context.Context) error {
	_, err, _ := c.reindex.Do("reindex", func() (any, error) {
		return nil, c.rebuild(ctx)
	})
	return err
}

func (c *Catalog) rebuild(ctx context.Context) error {
	all, err := c.Fonts.All(ctx)
	if err != nil {
		return err
	}
	list, err := c.Foundries.All(ctx)
	if err != nil {
		return err
	}

	if err := c.Index.Rebuild(all, list); err != nil {
		return err
	}

	ev := synchub.NewEvent(synchub.EventCatalogReindex, "")
	ev.Fonts, ev.Foundries = len(all), len(list)
	c.Hub.Publish(ev)
	c.Logger.Info("search index rebuilt", "fonts", len(all), "foundries", len(list))
	return nil
}
