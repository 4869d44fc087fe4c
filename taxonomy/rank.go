// SPDX-License-Identifier: MIT
// Package: taxatab/taxonomy
//
// rank.go - the seven fixed taxonomic levels.

package taxonomy

import (
	"fmt"
	"strings"
)

// Rank is a taxonomic level. Values are ordered from the most general
// (Kingdom) to the most specific (Species) and index Lineage segments.
type Rank int

// The seven levels in lineage order.
const (
	Kingdom Rank = iota
	Phylum
	Class
	Order
	Family
	Genus
	Species
)

// NumRanks is the number of levels a lineage can carry.
const NumRanks = 7

var rankNames = [NumRanks]string{"Kingdom", "Phylum", "Class", "Order", "Family", "Genus", "Species"}

// Ranks returns all levels in lineage order.
func Ranks() []Rank {
	return []Rank{Kingdom, Phylum, Class, Order, Family, Genus, Species}
}

// Valid reports whether r is one of the seven levels.
func (r Rank) Valid() bool { return r >= Kingdom && r <= Species }

// String returns the level name ("Genus"), or "Rank(n)" for invalid values.
func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", int(r))
	}

	return rankNames[r]
}

// ParseRank maps a level name to its Rank, case-insensitively.
// Errors: ErrUnknownRank.
func ParseRank(name string) (Rank, error) {
	n := strings.TrimSpace(name)
	for i, candidate := range rankNames {
		if strings.EqualFold(candidate, n) {
			return Rank(i), nil
		}
	}

	return 0, fmt.Errorf("taxonomy.ParseRank(%q): %w", name, ErrUnknownRank)
}

// UnmarshalText lets Rank appear directly in YAML or flag values.
func (r *Rank) UnmarshalText(b []byte) error {
	v, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = v

	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("taxonomy.Rank.MarshalText(%d): %w", int(r), ErrUnknownRank)
	}

	return []byte(r.String()), nil
}
