package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases text and strips diacritics so "Proteína (g)" and
// "PROTEINA (G)" compare equal. Inner whitespace runs collapse to one space.
func Fold(text string) string {
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, text)
	if err != nil {
		stripped = text
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
