// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// combo is one point of the threshold × depth × variant sweep.
// depth 0 means "not rarefied"; toMin marks depth computed from the table.
type combo struct {
	threshold float64
	depth     int
	toMin     bool
	variant   VariantConfig
}

// name is the file stem shared by every artifact of the combination,
// e.g. "prev10_rare1000_skin".
func (c combo) name() string {
	var sb strings.Builder
	sb.WriteString("prev")
	sb.WriteString(strconv.FormatFloat(c.threshold, 'f', -1, 64))
	switch {
	case c.toMin:
		sb.WriteString("_raremin")
	case c.depth > 0:
		sb.WriteString("_rare")
		sb.WriteString(strconv.Itoa(c.depth))
	default:
		sb.WriteString("_norare")
	}
	sb.WriteString("_")
	sb.WriteString(c.variant.Name)

	return sb.String()
}

// describe is the human-readable provenance of the combination.
func (c combo) describe(seed int64) string {
	parts := []string{fmt.Sprintf("prevalence >= %v%%", c.threshold)}
	switch {
	case c.toMin:
		parts = append(parts, fmt.Sprintf("rarefied to minimum depth %d (seed %d)", c.depth, seed))
	case c.depth > 0:
		parts = append(parts, fmt.Sprintf("rarefied to %d (seed %d)", c.depth, seed))
	}
	if c.variant.Column != "" {
		parts = append(parts, fmt.Sprintf("samples with %s = %s", c.variant.Column, c.variant.Value))
	}

	return strings.Join(parts, ", ")
}
