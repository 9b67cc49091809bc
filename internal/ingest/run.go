package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"fontpair/internal/logging"
	"fontpair/internal/ratelimit"
	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

// Report summarizes one ingestion run.
type Report struct {
	RunID          string         `json:"run_id"`
	Sources        map[string]int `json:"sources"`
	Fetched        int            `json:"fetched"`
	Invalid        int            `json:"invalid"`
	Saved          int            `json:"saved"`
	Failed         int            `json:"failed"`
	FoundriesAdded int            `json:"foundries_added"`
	Duration       time.Duration  `json:"duration"`
}

type Runner struct {
	Aggregator *Aggregator
	Fonts      FontStore
	Foundries  FoundryStore
	BatchSize  int
	Refresh    bool
	Logger     *log.Logger
}

// NewRunner wires the configured sources. The webfonts source is only
// used when an API key is set.
func NewRunner(cfg utils.IngestConfig, fonts FontStore, foundries FoundryStore, logger *log.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithPrefix("ingest")

	limiter := ratelimit.New(cfg.RequestRate, 1)
	client := &http.Client{Timeout: cfg.Timeout}
	sources := []Source{NewMetadataSource(cfg.MetadataURL, client, limiter, logger)}
	if cfg.APIKey != "" && cfg.WebfontsURL != "" {
		sources = append(sources, NewWebfontsSource(cfg.WebfontsURL, cfg.APIKey, cfg.Sort, client, limiter, logger))
	}

	return &Runner{
		Aggregator: NewAggregator(logger, sources...),
		Fonts:      fonts,
		Foundries:  foundries,
		BatchSize:  cfg.BatchSize,
		Refresh:    cfg.Refresh,
		Logger:     logger,
	}
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// Collect fetches, merges and validates. Invalid records are logged and
// left out.
func (r *Runner) Collect(ctx context.Context, rep *Report) ([]models.Font, error) {
	fonts, counts, err := r.Aggregator.FetchAndMerge(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	rep.Sources = counts
	rep.Fetched = len(fonts)

	valid, errs := Partition(fonts)
	for _, e := range errs {
		r.Logger.Warn("invalid record", "err", e)
	}
	rep.Invalid = len(errs)
	return valid, nil
}

// Run stores a fresh catalog and adds any new foundries. runID may be
// empty, in which case one is generated.
func (r *Runner) Run(ctx context.Context, runID string) (Report, error) {
	if runID == "" {
		runID = NewRunID()
	}
	start := time.Now()
	rep := Report{RunID: runID}
	logger := r.Logger.With("run", runID)

	fonts, err := r.Collect(ctx, &rep)
	if err != nil {
		return rep, err
	}
	logger.Info("fetched", "fonts", rep.Fetched, "invalid", rep.Invalid)

	rep.Saved, rep.Failed, err = SaveFonts(ctx, r.Fonts, fonts, r.BatchSize, r.Refresh)
	if err != nil {
		return rep, fmt.Errorf("save fonts: %w", err)
	}
	if rep.Failed > 0 {
		logger.Warn("some batches failed", "failed", rep.Failed)
	}

	if r.Foundries != nil {
		added, err := r.Foundries.InsertMissing(ctx, ExtractFoundries(fonts))
		if err != nil {
			return rep, fmt.Errorf("save foundries: %w", err)
		}
		rep.FoundriesAdded = added
	}

	rep.Duration = time.Since(start)
	logger.Info("done", "saved", rep.Saved, "foundries_added", rep.FoundriesAdded, "took", rep.Duration)
	return rep, nil
}

// RunJSON writes the fetched catalog to path instead of the database.
func (r *Runner) RunJSON(ctx context.Context, path string) (Report, error) {
	rep := Report{RunID: NewRunID()}
	start := time.Now()

	fonts, err := r.Collect(ctx, &rep)
	if err != nil {
		return rep, err
	}
	if err := WriteJSON(path, fonts); err != nil {
		return rep, err
	}
	rep.Saved = len(fonts)
	rep.Duration = time.Since(start)
	r.Logger.Info("wrote json", "path", path, "fonts", rep.Saved)
	return rep, nil
}
