package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	nonSlugRe      = regexp.MustCompile(`[^a-z0-9-]`)
	multipleDashRe = regexp.MustCompile(`-+`)
)

// letters that have no NFKD decomposition into an ASCII base
var foldReplacer = strings.NewReplacer(
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"ß", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"đ", "d", "Đ", "d",
	"þ", "th", "Þ", "th",
	"ı", "i",
)

// Slugify derives the URL-safe identifier of a foundry or designer name.
//
//	"Huerta Tipográfica"    -> "huerta-tipografica"
//	"Claus Eggers Sørensen" -> "claus-eggers-sorensen"
//	"Hubert & Fischer"      -> "hubert-fischer"
//	"Paul D. Hunt"          -> "paul-d-hunt"
//
// Applying it to its own output is a no-op.
func Slugify(s string) string {
	s = foldReplacer.Replace(s)
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = nonSlugRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// TitleFromSlug turns "vernon-adams" into "Vernon Adams". Used as a display
// fallback when no foundry record exists for a slug.
func TitleFromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(out, " ")
}
