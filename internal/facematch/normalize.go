// Package facematch holds the text rules applied to face-match records on the
// client side: name search and location clean-up.
package facematch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Adébáyọ̀" -> "Adebayo").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizePersonName normalizes a name for comparison (lowercase, no diacritics, spaces for dashes).
func NormalizePersonName(name string) string {
	name = RemoveDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}

// NameMatches reports whether query occurs in name, ignoring case and diacritics.
// An empty query matches every name.
func NameMatches(name, query string) bool {
	return strings.Contains(NormalizePersonName(name), NormalizePersonName(query))
}

// NormalizeLocation cleans a user-entered location before it is sent:
// NFC form, surrounding space trimmed, inner whitespace collapsed.
// Diacritics are kept; "Ọ̀yọ́" stays a different place from "Oyo" on the server.
func NormalizeLocation(location string) string {
	location = norm.NFC.String(location)
	return strings.Join(strings.Fields(location), " ")
}
