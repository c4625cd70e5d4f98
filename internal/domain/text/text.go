// Package text canonicalizes free text for indexing and querying.
// Both sides must run the same pipeline: a stored field only matches a
// query term if ingestion and query normalization agree byte for byte.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and drops the combining marks,
// so "Ébano" becomes "Ebano".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// asciiFallback covers Latin letters that have no combining-mark
// decomposition and would otherwise survive transliteration.
var asciiFallback = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "AE", "œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O", "đ", "d", "Đ", "D", "ð", "d", "Ð", "D",
	"ł", "l", "Ł", "L", "þ", "th", "Þ", "Th",
)

// Normalize strips punctuation, transliterates to ASCII, collapses
// whitespace runs to single spaces, lowercases, and trims. Pure function.
func Normalize(s string) string {
	s = strings.Map(dropPunct, s)
	if t, _, err := transform.String(stripMarks, s); err == nil {
		s = t
	}
	s = asciiFallback.Replace(s)
	s = strings.Map(dropNonASCII, s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// IsValid reports whether normalized text may be stored or matched:
// non-empty and not composed entirely of digits.
func IsValid(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// dropPunct removes the ASCII punctuation set.
func dropPunct(r rune) rune {
	if r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
		return -1
	}
	return r
}

// dropNonASCII removes anything transliteration could not map.
func dropNonASCII(r rune) rune {
	if r >= 0x80 {
		return -1
	}
	return r
}
