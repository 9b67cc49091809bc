// Package session holds the pairing-board transitions: shuffling, locking,
// swapping and placing fonts. Every operation is a pure function of the
// previous State; on failure the previous State comes back with the error.
package session

import (
	"errors"
	"fmt"

	"fontpair/internal/pairing"
	"fontpair/pkg/models"
)

type Mode string

const (
	ModeNormal  Mode = "normal"
	ModePopular Mode = "popular"
	ModeFoundry Mode = "foundry"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeNormal:
		return ModeNormal, nil
	case ModePopular:
		return ModePopular, nil
	case ModeFoundry:
		return ModeFoundry, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// State is what the board shows. An empty Family means the slot is unset.
type State struct {
	Header       models.FontRecord `json:"header"`
	Body         models.FontRecord `json:"body"`
	HeaderLocked bool              `json:"header_locked"`
	BodyLocked   bool              `json:"body_locked"`
	Mode         Mode              `json:"mode"`
	PopularIndex int               `json:"popular_index"`
}

func (s State) Font(r models.Role) models.FontRecord {
	if r == models.RoleHeader {
		return s.Header
	}
	return s.Body
}

func (s State) Locked(r models.Role) bool {
	if r == models.RoleHeader {
		return s.HeaderLocked
	}
	return s.BodyLocked
}

func (s *State) set(r models.Role, f models.FontRecord, locked bool) {
	if r == models.RoleHeader {
		s.Header, s.HeaderLocked = f, locked
	} else {
		s.Body, s.BodyLocked = f, locked
	}
}

func (s State) Pairing() models.Pairing {
	return models.Pairing{Header: s.Header, Body: s.Body}
}

var (
	ErrNoPopularPairings = errors.New("no popular pairings configured")
	ErrEmptySlot         = errors.New("slot has no font")
	ErrNoFoundryPair     = errors.New("no foundry has two fonts")
)

// Board applies transitions against one catalog snapshot.
type Board struct {
	Selector *pairing.Selector
	Catalog  []models.FontRecord
	Popular  []models.Pairing
}

func NewBoard(sel *pairing.Selector, catalog []models.FontRecord, popular []models.Pairing) *Board {
	if sel == nil {
		sel = pairing.NewDefaultSelector()
	}
	return &Board{Selector: sel, Catalog: catalog, Popular: popular}
}

// Shuffle draws new fonts for the unlocked slots. In popular mode it
// advances through the curated list instead of scoring. Foundry mode
// shuffles like normal mode.
func (b *Board) Shuffle(s State) (State, error) {
	if s.Mode == ModePopular {
		if len(b.Popular) == 0 {
			return s, ErrNoPopularPairings
		}
		next := s
		next.PopularIndex = (s.PopularIndex + 1) % len(b.Popular)
		b.applyPopular(&next)
		return next, nil
	}

	next := s
	switch {
	case s.HeaderLocked && s.BodyLocked:
		return s, nil
	case s.HeaderLocked && s.Header.Family == "", s.BodyLocked && s.Body.Family == "":
		return s, ErrEmptySlot
	case s.HeaderLocked:
		body, err := b.Selector.SelectComplementary(s.Header, b.Catalog, models.RoleHeader)
		if err != nil {
			return s, err
		}
		next.Body = body
	case s.BodyLocked:
		header, err := b.Selector.SelectComplementary(s.Body, b.Catalog, models.RoleBody)
		if err != nil {
			return s, err
		}
		next.Header = header
	default:
		p, err := b.Selector.SelectRandomPair(b.Catalog)
		if err != nil {
			return s, err
		}
		next.Header, next.Body = p.Header, p.Body
	}
	return next, nil
}

// ShuffleSlot redraws only the font in r; a locked slot is left alone. A
// new header complements a locked body and is otherwise drawn at random. A
// new body always complements the header.
func (b *Board) ShuffleSlot(s State, r models.Role) (State, error) {
	if s.Locked(r) {
		return s, nil
	}

	var (
		f   models.FontRecord
		err error
	)
	switch {
	case r == models.RoleBody:
		if s.Header.Family == "" {
			return s, ErrEmptySlot
		}
		f, err = b.Selector.SelectComplementary(s.Header, b.Catalog, models.RoleHeader)
	case s.BodyLocked:
		if s.Body.Family == "" {
			return s, ErrEmptySlot
		}
		f, err = b.Selector.SelectComplementary(s.Body, b.Catalog, models.RoleBody)
	default:
		f, err = b.Selector.SelectRandom(b.Catalog)
	}
	if err != nil {
		return s, err
	}

	next := s
	next.set(r, f, false)
	return next, nil
}

func (b *Board) applyPopular(s *State) {
	idx := s.PopularIndex % len(b.Popular)
	if idx < 0 {
		idx += len(b.Popular)
	}
	s.PopularIndex = idx
	p := b.Popular[idx]
	if !s.HeaderLocked {
		s.Header = p.Header
	}
	if !s.BodyLocked {
		s.Body = p.Body
	}
}

func ToggleLock(s State, r models.Role) State {
	if r == models.RoleHeader {
		s.HeaderLocked = !s.HeaderLocked
	} else {
		s.BodyLocked = !s.BodyLocked
	}
	return s
}

// Swap moves the font in from into to. The moved font is locked in its new
// role and the vacated role gets a fresh, unlocked complement.
func (b *Board) Swap(s State, from, to models.Role) (State, error) {
	if from == to {
		return s, nil
	}
	moved := s.Font(from)
	if moved.Family == "" {
		return s, ErrEmptySlot
	}

	partner, err := b.Selector.SelectComplementary(moved, b.Catalog, to)
	if err != nil {
		return s, err
	}
	next := s
	next.set(to, moved, true)
	next.set(from, partner, false)
	return next, nil
}

// SearchSelect places f in role and locks it. The other role is refilled
// unless it is locked.
func (b *Board) SearchSelect(s State, f models.FontRecord, r models.Role) (State, error) {
	next := s
	next.set(r, f, true)
	if s.Locked(r.Opposite()) {
		return next, nil
	}

	partner, err := b.Selector.SelectComplementary(f, b.Catalog, r)
	if err != nil {
		return s, err
	}
	next.set(r.Opposite(), partner, false)
	return next, nil
}

// SetMode switches modes. Entering popular mode shows the current popular
// pair in the unlocked slots; entering foundry mode shows two fonts from
// the first foundry with at least two.
func (b *Board) SetMode(s State, m Mode) (State, error) {
	if s.Mode == m || (s.Mode == "" && m == ModeNormal) {
		s.Mode = m
		return s, nil
	}
	next := s
	next.Mode = m
	switch m {
	case ModePopular:
		if len(b.Popular) == 0 {
			return s, ErrNoPopularPairings
		}
		b.applyPopular(&next)
	case ModeFoundry:
		p, ok := FoundryPair(b.Catalog)
		if !ok {
			return s, ErrNoFoundryPair
		}
		if !next.HeaderLocked {
			next.Header = p.Header
		}
		if !next.BodyLocked {
			next.Body = p.Body
		}
	}
	return next, nil
}

// FoundryPair returns the first two usable fonts of the first foundry, in
// catalog order, that has at least two.
func FoundryPair(catalog []models.FontRecord) (models.Pairing, bool) {
	var order []string
	groups := make(map[string][]models.FontRecord)
	for _, f := range catalog {
		if f.FoundrySlug == "" || f.Valid() != nil {
			continue
		}
		if _, ok := groups[f.FoundrySlug]; !ok {
			order = append(order, f.FoundrySlug)
		}
		groups[f.FoundrySlug] = append(groups[f.FoundrySlug], f)
	}

	for _, slug := range order {
		if g := groups[slug]; len(g) >= 2 {
			return models.Pairing{Header: g[0], Body: g[1]}, true
		}
	}
	return models.Pairing{}, false
}

// ResolvePopular turns family-name pairs into records, dropping pairs whose
// fonts are missing from the catalog.
func ResolvePopular(list []models.PopularPairing, catalog []models.FontRecord) []models.Pairing {
	byFamily := make(map[string]models.FontRecord, len(catalog))
	for _, f := range catalog {
		byFamily[f.Family] = f
	}

	out := make([]models.Pairing, 0, len(list))
	for _, pp := range list {
		h, okH := byFamily[pp.Header]
		bd, okB := byFamily[pp.Body]
		if okH && okB {
			out = append(out, models.Pairing{Header: h, Body: bd})
		}
	}
	return out
}
