package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"fontpair/pkg/utils"
)

type Category string

const (
	CategorySansSerif   Category = "sans-serif"
	CategorySerif       Category = "serif"
	CategoryDisplay     Category = "display"
	CategoryHandwriting Category = "handwriting"
	CategoryMonospace   Category = "monospace"
)

// Categories lists the closed set of font categories in display order.
var Categories = []Category{
	CategorySansSerif,
	CategorySerif,
	CategoryDisplay,
	CategoryHandwriting,
	CategoryMonospace,
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// ParseCategory accepts the canonical names plus the labels used by the
// Google Fonts metadata feed ("Sans Serif", "Handwriting", ...).
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sans-serif", "sans serif", "sans_serif", "sans":
		return CategorySansSerif, nil
	case "serif":
		return CategorySerif, nil
	case "display":
		return CategoryDisplay, nil
	case "handwriting":
		return CategoryHandwriting, nil
	case "monospace", "mono":
		return CategoryMonospace, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

type Legibility string

const (
	LegibilityHigh   Legibility = "high"
	LegibilityMedium Legibility = "medium"
	LegibilityLow    Legibility = "low"
)

func (l Legibility) Valid() bool {
	return l == LegibilityHigh || l == LegibilityMedium || l == LegibilityLow
}

// LegibilityFor is the default readability tier for a category when no
// curated value exists: decorative categories read worse at body sizes.
func LegibilityFor(c Category) Legibility {
	if c == CategoryDisplay || c == CategoryHandwriting {
		return LegibilityMedium
	}
	return LegibilityHigh
}

// FontRecord is the minimal font shape the pairing engine depends on.
type FontRecord struct {
	Family      string     `json:"family" yaml:"family" validate:"required"`
	Category    Category   `json:"category" yaml:"category" validate:"required,oneof=sans-serif serif display handwriting monospace"`
	Weights     []int      `json:"weights" yaml:"weights" validate:"required,min=1,dive,min=1,max=1000"`
	Foundry     string     `json:"foundry" yaml:"foundry"`
	FoundrySlug string     `json:"foundry_slug" yaml:"-"`
	Legibility  Legibility `json:"legibility" yaml:"legibility" validate:"required,oneof=high medium low"`
}

var (
	ErrMissingFamily = errors.New("font family is empty")
	ErrNoWeights     = errors.New("font has no weights")
)

// Normalize recomputes FoundrySlug from Foundry and sorts and de-duplicates
// Weights. FoundrySlug is never taken from input.
func (f *FontRecord) Normalize() {
	f.Family = strings.TrimSpace(f.Family)
	f.Foundry = strings.TrimSpace(f.Foundry)
	f.FoundrySlug = utils.Slugify(f.Foundry)

	if len(f.Weights) > 0 {
		ws := slices.Clone(f.Weights)
		slices.Sort(ws)
		f.Weights = slices.Compact(ws)
	}
}

// Valid reports the first precondition the record violates, or nil.
func (f FontRecord) Valid() error {
	if strings.TrimSpace(f.Family) == "" {
		return ErrMissingFamily
	}
	if !f.Category.Valid() {
		return fmt.Errorf("font %q: unknown category %q", f.Family, f.Category)
	}
	if !f.Legibility.Valid() {
		return fmt.Errorf("font %q: unknown legibility %q", f.Family, f.Legibility)
	}
	if len(f.Weights) == 0 {
		return fmt.Errorf("font %q: %w", f.Family, ErrNoWeights)
	}
	return nil
}

// FontDetails is optional metadata carried alongside a FontRecord by the
// catalog. The pairing engine never reads it.
type FontDetails struct {
	Designers       []string `json:"designers,omitempty" yaml:"designers,omitempty"`
	Popularity      int      `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	Trending        int      `json:"trending,omitempty" yaml:"trending,omitempty"`
	DateAdded       string   `json:"date_added,omitempty" yaml:"date_added,omitempty"`
	LastModified    string   `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	Classifications []string `json:"classifications,omitempty" yaml:"classifications,omitempty"`
	Subsets         []string `json:"subsets,omitempty" yaml:"subsets,omitempty"`
	Variants        []string `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Font is a catalog entry: the core record plus its enrichment.
type Font struct {
	FontRecord  `yaml:",inline"`
	FontDetails `yaml:",inline"`
}

// Records strips enrichment, keeping catalog order.
func Records(fonts []Font) []FontRecord {
	out := make([]FontRecord, 0, len(fonts))
	for _, f := range fonts {
		out = append(out, f.FontRecord)
	}
	return out
}
