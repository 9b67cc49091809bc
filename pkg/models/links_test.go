package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSSURL(t *testing.T) {
	tests := []struct {
		family  string
		weights []int
		want    string
	}{
		{"Lora", []int{400, 700}, "https://fonts.googleapis.com/css2?family=Lora:wght@400;700&display=swap"},
		{"Playfair Display", []int{400}, "https://fonts.googleapis.com/css2?family=Playfair%20Display:wght@400&display=swap"},
		{"Roboto", nil, "https://fonts.googleapis.com/css2?family=Roboto:wght@100;200;300;400;500;600;700;800;900&display=swap"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CSSURL(tt.family, tt.weights), tt.family)
	}
}

func TestSpecimenURL(t *testing.T) {
	assert.Equal(t, "https://fonts.google.com/specimen/Roboto%20Slab", SpecimenURL("Roboto Slab"))
	assert.Equal(t, "https://fonts.google.com/specimen/M%20PLUS%201p", SpecimenURL("M PLUS 1p"))
	assert.Equal(t, "https://fonts.google.com/specimen/Fira%20Code%26Co", SpecimenURL("Fira Code&Co"))
}

func TestLinksFor(t *testing.T) {
	l := LinksFor(FontRecord{Family: "Inter", Weights: []int{300, 600}})
	assert.Equal(t, "https://fonts.googleapis.com/css2?family=Inter:wght@300;600&display=swap", l.Stylesheet)
	assert.Equal(t, "https://fonts.google.com/specimen/Inter", l.Specimen)
}
