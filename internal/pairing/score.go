// Package pairing scores and selects complementary header/body fonts.
package pairing

import "fontpair/pkg/models"

const (
	baseScore          = 50
	contrastBonus      = 30 // serif against sans-serif
	cohesionBonus      = 10 // same category, different family
	selfPairPenalty    = -100
	highLegibilityGain = 15
	lowLegibilityLoss  = -20
)

// Breakdown is the per-rule contribution to a score.
type Breakdown struct {
	Base       int `json:"base"`
	Contrast   int `json:"contrast"`
	Cohesion   int `json:"cohesion"`
	SelfPair   int `json:"self_pair"`
	Legibility int `json:"legibility"`
}

func (b Breakdown) Total() int {
	return b.Base + b.Contrast + b.Cohesion + b.SelfPair + b.Legibility
}

// Score rates candidate as the partner of base. It is not symmetric: the
// legibility terms only look at candidate.
func Score(base, candidate models.FontRecord) int {
	return Explain(base, candidate).Total()
}

func Explain(base, candidate models.FontRecord) Breakdown {
	b := Breakdown{Base: baseScore}

	if isSerifSansPair(base.Category, candidate.Category) {
		b.Contrast = contrastBonus
	}

	sameFamily := base.Family == candidate.Family
	if base.Category == candidate.Category && !sameFamily {
		b.Cohesion = cohesionBonus
	}
	if sameFamily {
		b.SelfPair = selfPairPenalty
	}

	switch candidate.Legibility {
	case models.LegibilityHigh:
		b.Legibility = highLegibilityGain
	case models.LegibilityLow:
		b.Legibility = lowLegibilityLoss
	}
	return b
}

func isSerifSansPair(a, b models.Category) bool {
	return (a == models.CategorySerif && b == models.CategorySansSerif) ||
		(a == models.CategorySansSerif && b == models.CategorySerif)
}
