package models

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	cssBase      = "https://fonts.googleapis.com/css2"
	specimenBase = "https://fonts.google.com/specimen/"
)

// allWeights is requested when a font lists none.
const allWeights = "100;200;300;400;500;600;700;800;900"

// FontLinks points at the hosted stylesheet and specimen page of a family.
type FontLinks struct {
	Stylesheet string `json:"stylesheet"`
	Specimen   string `json:"specimen"`
}

func LinksFor(f FontRecord) FontLinks {
	return FontLinks{
		Stylesheet: CSSURL(f.Family, f.Weights),
		Specimen:   SpecimenURL(f.Family),
	}
}

// CSSURL builds a CSS2 API stylesheet URL for family at the given weights.
func CSSURL(family string, weights []int) string {
	ws := allWeights
	if len(weights) > 0 {
		parts := make([]string, len(weights))
		for i, w := range weights {
			parts[i] = strconv.Itoa(w)
		}
		ws = strings.Join(parts, ";")
	}
	return cssBase + "?family=" + escapeComponent(family) + ":wght@" + ws + "&display=swap"
}

func SpecimenURL(family string) string {
	return specimenBase + escapeComponent(family)
}

// escapeComponent percent-encodes s with spaces as %20, the form the
// Google Fonts hosts expect in both paths and the family parameter.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
