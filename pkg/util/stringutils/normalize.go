package stringutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a place name for matching: compatibility decomposition,
// combining marks removed, lower-cased and trimmed. "São Paulo" becomes "sao paulo".
func Normalize(value string) string {
	chain := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(chain, value)
	if err != nil {
		folded = value
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// IsBlank reports whether value holds only whitespace.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
