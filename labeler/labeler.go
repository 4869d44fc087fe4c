// SPDX-License-Identifier: MIT
// Package: taxatab/labeler
//
// labeler.go - deterministic "<token>_ASV-<i>" labels within a rank.
//
// Algorithm:
//   1. Resolve every feature's lineage; features without a value at the
//      target rank are excluded and reported.
//   2. Total abundance per feature = column sum over all samples.
//   3. Group surviving features by their cleaned rank token.
//   4. Sort each group by descending total, ties by ascending feature ID
//      (byte-wise).
//   5. Label = token + "_ASV-" + 1-based position in the group.
//
// Grouping on the cleaned token (not the raw one) keeps labels unique even
// when two raw tokens clean to the same text.

package labeler

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/taxatab/table"
	"github.com/katalvlaran/taxatab/taxonomy"
)

// labelSep joins token and in-group rank.
const labelSep = "_ASV-"

// Option customizes Assign.
type Option func(*config)

type config struct {
	keepPrefix bool
}

// WithKeepRankPrefix keeps the "g__" style prefix in labels
// ("g__Strep_ASV-1" instead of "Strep_ASV-1").
func WithKeepRankPrefix() Option {
	return func(c *config) { c.keepPrefix = true }
}

// Record is one row of the audit side table.
type Record struct {
	FeatureID      string
	Label          string
	RankToken      string // raw token at the labeled rank
	TotalAbundance float64
	Lineage        taxonomy.Lineage
}

// Assignment is the result of labeling one table at one rank.
type Assignment struct {
	Rank taxonomy.Rank

	// Records are sorted by descending TotalAbundance, ties by FeatureID.
	Records []Record

	// Excluded lists features with no value at Rank, in table order.
	Excluded []string

	// Missing counts features that had no lineage entry at all.
	Missing int

	labels map[string]string
}

// Label returns the label for a feature ID.
func (a *Assignment) Label(featureID string) (string, bool) {
	l, ok := a.labels[featureID]

	return l, ok
}

// Labels returns a copy of the feature ID → label map.
func (a *Assignment) Labels() map[string]string {
	out := make(map[string]string, len(a.labels))
	for k, v := range a.labels {
		out[k] = v
	}

	return out
}

// Len returns the number of labeled features.
func (a *Assignment) Len() int { return len(a.Records) }

// Assign labels every feature of t that has a value at rank.
//
// Errors: ErrInvalidRank, ErrNilResolver, table.ErrNilTable.
// Complexity: Time O(r*c + c log c), Space O(c).
func Assign(t *table.FeatureTable, res *taxonomy.Resolver, rank taxonomy.Rank, opts ...Option) (*Assignment, error) {
	if t == nil {
		return nil, fmt.Errorf("labeler.Assign: %w", table.ErrNilTable)
	}
	if res == nil {
		return nil, fmt.Errorf("labeler.Assign: %w", ErrNilResolver)
	}
	if !rank.Valid() {
		return nil, fmt.Errorf("labeler.Assign(%s): %w", rank, ErrInvalidRank)
	}
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	// Stage 1+2: resolve and total.
	features := t.Features()
	lineages, rep := res.ResolveAll(features)
	totals := t.FeatureSums()

	a := &Assignment{Rank: rank, Missing: rep.Missing, labels: make(map[string]string, len(features))}
	groups := make(map[string][]int)
	var order []string
	for j, id := range features {
		if !lineages[j].Has(rank) {
			a.Excluded = append(a.Excluded, id)
			continue
		}
		key := labelToken(lineages[j].At(rank), cfg.keepPrefix)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], j)
	}

	// Stage 3+4+5: rank within groups and emit labels.
	for _, key := range order {
		members := groups[key]
		sort.SliceStable(members, func(x, y int) bool {
			return before(totals[members[x]], features[members[x]], totals[members[y]], features[members[y]])
		})
		for pos, j := range members {
			label := key + labelSep + strconv.Itoa(pos+1)
			a.labels[features[j]] = label
			a.Records = append(a.Records, Record{
				FeatureID:      features[j],
				Label:          label,
				RankToken:      lineages[j].At(rank),
				TotalAbundance: totals[j],
				Lineage:        lineages[j],
			})
		}
	}
	sort.SliceStable(a.Records, func(x, y int) bool {
		return before(a.Records[x].TotalAbundance, a.Records[x].FeatureID, a.Records[y].TotalAbundance, a.Records[y].FeatureID)
	})

	return a, nil
}

// before orders by descending total, then ascending ID.
func before(ta float64, ia string, tb float64, ib string) bool {
	if ta != tb {
		return ta > tb
	}

	return ia < ib
}

// Relabel returns t restricted to labeled features, renamed to their labels.
// Feature order is preserved.
func Relabel(t *table.FeatureTable, a *Assignment) (*table.FeatureTable, error) {
	if t == nil {
		return nil, fmt.Errorf("labeler.Relabel: %w", table.ErrNilTable)
	}
	kept := t.FilterFeatures(func(_ int, id string) bool {
		_, ok := a.labels[id]
		return ok
	})
	out, err := kept.RenameFeatures(a.labels)
	if err != nil {
		return nil, fmt.Errorf("labeler.Relabel: %w", err)
	}

	return out, nil
}

// Restrict returns the sub-assignment whose labels appear in labels, so the
// side table stays in sync with a subset of a relabeled table. Excluded and
// Missing are carried over unchanged.
func (a *Assignment) Restrict(labels []string) *Assignment {
	want := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		want[l] = struct{}{}
	}
	out := &Assignment{
		Rank:     a.Rank,
		Excluded: append([]string(nil), a.Excluded...),
		Missing:  a.Missing,
		labels:   make(map[string]string),
	}
	for _, rec := range a.Records {
		if _, ok := want[rec.Label]; ok {
			out.Records = append(out.Records, rec)
			out.labels[rec.FeatureID] = rec.Label
		}
	}

	return out
}
