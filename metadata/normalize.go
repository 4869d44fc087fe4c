// SPDX-License-Identifier: MIT

package metadata

import (
	"fmt"
	"regexp"
	"strings"
)

// Normalizer rewrites a sample identifier into a canonical form.
type Normalizer func(id string) string

// Identity leaves identifiers unchanged.
func Identity(id string) string { return id }

// PrefixStripper removes a leading match of pattern, e.g. `15564\.` for
// Qiita study prefixes. The pattern is anchored at the start.
func PrefixStripper(pattern string) (Normalizer, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("metadata.PrefixStripper(%q): %w", pattern, err)
	}

	return func(id string) string { return re.ReplaceAllString(id, "") }, nil
}

// RemoveChars deletes every occurrence of the given characters.
func RemoveChars(chars string) Normalizer {
	return func(id string) string {
		return strings.Map(func(r rune) rune {
			if strings.ContainsRune(chars, r) {
				return -1
			}

			return r
		}, id)
	}
}

// Chain applies normalizers left to right. Nil entries are skipped.
func Chain(fns ...Normalizer) Normalizer {
	return func(id string) string {
		for _, fn := range fns {
			if fn != nil {
				id = fn(id)
			}
		}

		return id
	}
}
