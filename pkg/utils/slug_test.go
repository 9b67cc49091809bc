package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Julieta Ulanovsky", "julieta-ulanovsky"},
		{"Paul D. Hunt", "paul-d-hunt"},
		{"Huerta Tipográfica", "huerta-tipografica"},
		{"Claus Eggers Sørensen", "claus-eggers-sorensen"},
		{"Łukasz Dziedzic", "lukasz-dziedzic"},
		{"Frank Grießhammer", "frank-griesshammer"},
		{"Hubert & Fischer", "hubert-fischer"},
		{"Omnibus-Type", "omnibus-type"},
		{"JM Solé", "jm-sole"},
		{"  The League of   Moveable Type ", "the-league-of-moveable-type"},
		{"Google", "google"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "name")
		once := Slugify(s)
		if twice := Slugify(once); twice != once {
			t.Fatalf("Slugify not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestSlugifyAlphabet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		slug := Slugify(rapid.String().Draw(t, "name"))
		for _, r := range slug {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			if !ok {
				t.Fatalf("slug %q contains %q", slug, r)
			}
		}
	})
}

func TestTitleFromSlug(t *testing.T) {
	assert.Equal(t, "Vernon Adams", TitleFromSlug("vernon-adams"))
	assert.Equal(t, "Ibm", TitleFromSlug("ibm"))
	assert.Equal(t, "", TitleFromSlug(""))
}
