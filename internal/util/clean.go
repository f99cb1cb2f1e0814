// Package util holds small input-cleaning helpers shared by the CLI and the
// HTTP API.
package util

import (
	"strings"
	"unicode/utf8"
)

// Typographic characters that mobile keyboards and copy-paste commonly smuggle
// into search queries, mapped to their plain equivalents.
var charReplacementMap = map[string]string{
	"\u2018": "'", "\u2019": "'", "\u201C": `"`, "\u201D": `"`,
	"\u2013": "-", "\u2014": "--", "\u2026": "...", "\u00a0": " ",
	"\u0091": "'", "\u0092": "'", "\u0093": `"`, "\u0094": `"`,
}

// CleanQuery normalizes a raw user-typed query before it reaches the
// interpreter: invalid UTF-8 is replaced, typographic characters are folded
// to ASCII and surrounding whitespace is dropped. Case is left untouched.
func CleanQuery(raw string) string {
	if !utf8.ValidString(raw) {
		raw = strings.ToValidUTF8(raw, string(utf8.RuneError))
	}
	for bad, good := range charReplacementMap {
		raw = strings.ReplaceAll(raw, bad, good)
	}
	return strings.TrimSpace(raw)
}
