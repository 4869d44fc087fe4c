// SPDX-License-Identifier: MIT

package labeler

import (
	"strings"
	"unicode"

	"github.com/katalvlaran/taxatab/taxonomy"
)

// Sanitize makes a rank token safe for file names and FASTA headers:
// surrounding whitespace is trimmed, inner whitespace and ':' become '_'.
func Sanitize(token string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' {
			return '_'
		}

		return r
	}, strings.TrimSpace(token))
}

// labelToken derives the group key for a raw rank token. The rank prefix
// is removed unless keepPrefix is set or nothing would remain.
func labelToken(raw string, keepPrefix bool) string {
	tok := raw
	if !keepPrefix {
		if stripped := taxonomy.StripRankPrefix(raw); stripped != "" {
			tok = stripped
		}
	}

	return Sanitize(tok)
}
