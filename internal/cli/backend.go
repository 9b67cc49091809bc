// Package cli implements the fontpair command line: catalog lookups and
// pairings against a running API or, offline, against the embedded seed.
package cli

import (
	"context"
	"errors"
	"fmt"

	"fontpair/internal/pairing"
	"fontpair/pkg/models"
)

var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
}

type PairResult struct {
	LockedRole models.Role       `json:"locked_role,omitempty"`
	Header     models.FontRecord `json:"header"`
	Body       models.FontRecord `json:"body"`
	Score      int               `json:"score"`
}

type ScoreResult struct {
	Base      models.FontRecord `json:"base"`
	Candidate models.FontRecord `json:"candidate"`
	Score     int               `json:"score"`
	Breakdown pairing.Breakdown `json:"breakdown"`
}

type FoundryPage struct {
	Foundry models.FoundryRecord `json:"foundry"`
	Fonts   []models.Font        `json:"fonts"`
}

// Backend is what the commands run against.
type Backend interface {
	SearchFonts(ctx context.Context, q string, limit int) ([]models.Font, error)
	Font(ctx context.Context, family string) (models.Font, error)
	Foundry(ctx context.Context, slug string) (FoundryPage, error)
	SearchFoundries(ctx context.Context, q string, limit int) ([]models.FoundryRecord, error)
	RandomPair(ctx context.Context) (PairResult, error)
	Complement(ctx context.Context, family string, locked models.Role) (PairResult, error)
	Score(ctx context.Context, base, candidate string) (ScoreResult, error)
	Snapshot(ctx context.Context) ([]models.Font, []models.FoundryRecord, error)
}
