// SPDX-License-Identifier: MIT
// Package: taxatab/taxonomy
//
// lineage.go - parsing of ';'-delimited lineage strings.
//
// Policy for absent values:
//   • A feature with no lineage string at all resolves to the sentinel
//     lineage "Unknown": Kingdom carries the token "Unknown", deeper ranks
//     are absent.
//   • Trailing ranks beyond the last segment are absent. At returns
//     Unknown for them; Has returns false so grouping stages can exclude
//     the feature instead of mislabeling it.
//   • Empty segments ("k__Bacteria;;c__X") are absent as well.
//   • Segments past the seventh are ignored.

package taxonomy

import "strings"

// Unknown is the sentinel token for a missing lineage or rank.
const Unknown = "Unknown"

const lineageSep = ";"

// Lineage is a parsed seven-level classification. The zero value has no
// ranks present.
type Lineage struct {
	raw    string
	tokens [NumRanks]string
	depth  int // number of leading segments parsed (<= NumRanks)
}

// ParseLineage splits s on ';' and trims every segment.
// An empty or blank s yields the Unknown lineage.
// Complexity: O(len(s)).
func ParseLineage(s string) Lineage {
	raw := strings.TrimSpace(s)
	if raw == "" {
		raw = Unknown
	}
	l := Lineage{raw: raw}
	var i int
	for _, seg := range strings.Split(raw, lineageSep) {
		if i == NumRanks {
			break
		}
		l.tokens[i] = strings.TrimSpace(seg)
		i++
	}
	l.depth = i

	return l
}

// UnknownLineage returns the lineage assigned to features with no entry.
func UnknownLineage() Lineage { return ParseLineage(Unknown) }

// Has reports whether the lineage carries a non-empty token at r.
func (l Lineage) Has(r Rank) bool {
	return r.Valid() && int(r) < l.depth && l.tokens[r] != ""
}

// At returns the token at r, or Unknown when the rank is absent.
func (l Lineage) At(r Rank) string {
	if !l.Has(r) {
		return Unknown
	}

	return l.tokens[r]
}

// Complete reports whether all seven ranks are present.
func (l Lineage) Complete() bool {
	for _, r := range Ranks() {
		if !l.Has(r) {
			return false
		}
	}

	return true
}

// IsUnknown reports whether this is the sentinel lineage.
func (l Lineage) IsUnknown() bool { return l.raw == Unknown }

// String returns the trimmed lineage string as given (or Unknown).
func (l Lineage) String() string {
	if l.raw == "" {
		return Unknown
	}

	return l.raw
}

// StripRankPrefix removes a QIIME/Greengenes style rank prefix such as
// "g__" or "D_5__" from a token: StripRankPrefix("g__Strep") == "Strep".
// Tokens without a prefix are returned unchanged.
func StripRankPrefix(token string) string {
	t := strings.TrimSpace(token)
	k := strings.Index(t, "__")
	if k <= 0 || k > 3 {
		return t
	}
	for _, c := range t[:k] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return t
		}
	}

	return t[k+2:]
}
