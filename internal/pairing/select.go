package pairing

import (
	"cmp"
	"slices"

	"fontpair/pkg/models"
)

// TopBand is how many of the best-scoring candidates a selection draws from.
const TopBand = 5

// Ranked is a candidate with its directed score.
type Ranked struct {
	Font  models.FontRecord `json:"font"`
	Score int               `json:"score"`
}

// Selector picks complementary fonts. It keeps no state besides its random
// source, and is safe for concurrent use when that source is.
type Selector struct {
	rng Rand
}

func NewSelector(r Rand) *Selector {
	if r == nil {
		r = newTimeSeededRand()
	}
	return &Selector{rng: r}
}

// NewDefaultSelector uses a time-seeded, goroutine-safe source.
func NewDefaultSelector() *Selector {
	return NewSelector(nil)
}

// Rank scores every usable candidate for the role opposite lockedRole and
// orders them best first. Ties keep their catalog order. Records that fail
// FontRecord.Valid are skipped.
func Rank(locked models.FontRecord, catalog []models.FontRecord, lockedRole models.Role) ([]Ranked, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	ranked := make([]Ranked, 0, len(catalog))
	for _, f := range catalog {
		if f.Family == locked.Family || f.Valid() != nil {
			continue
		}

		var s int
		if lockedRole == models.RoleHeader {
			s = Score(locked, f)
		} else {
			// candidate takes the header slot, so it is the base
			s = Score(f, locked)
		}
		ranked = append(ranked, Ranked{Font: f, Score: s})
	}
	if len(ranked) == 0 {
		return nil, &NoCandidateError{Locked: locked.Family}
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked, nil
}

// SelectComplementary picks a partner for a font locked in lockedRole,
// uniformly among the TopBand best candidates.
func (s *Selector) SelectComplementary(locked models.FontRecord, catalog []models.FontRecord, lockedRole models.Role) (models.FontRecord, error) {
	ranked, err := Rank(locked, catalog, lockedRole)
	if err != nil {
		return models.FontRecord{}, err
	}

	band := ranked[:min(TopBand, len(ranked))]
	return band[s.rng.IntN(len(band))].Font, nil
}

// SelectRandom draws one font uniformly from the usable fonts of the catalog.
func (s *Selector) SelectRandom(catalog []models.FontRecord) (models.FontRecord, error) {
	usable := usableFonts(catalog)
	if len(usable) == 0 {
		return models.FontRecord{}, ErrEmptyCatalog
	}
	return usable[s.rng.IntN(len(usable))], nil
}

// SelectRandomPair draws a header uniformly from the usable fonts of the
// catalog and pairs it with a complementary body.
func (s *Selector) SelectRandomPair(catalog []models.FontRecord) (models.Pairing, error) {
	usable := usableFonts(catalog)
	if len(usable) == 0 {
		return models.Pairing{}, ErrEmptyCatalog
	}

	header := usable[s.rng.IntN(len(usable))]
	body, err := s.SelectComplementary(header, usable, models.RoleHeader)
	if err != nil {
		return models.Pairing{}, err
	}
	return models.Pairing{Header: header, Body: body}, nil
}

func usableFonts(catalog []models.FontRecord) []models.FontRecord {
	usable := make([]models.FontRecord, 0, len(catalog))
	for _, f := range catalog {
		if f.Valid() == nil {
			usable = append(usable, f)
		}
	}
	return usable
}
