// SPDX-License-Identifier: MIT

// Package collapse sums features that share a taxonomic rank token into one
// feature per token.
//
// The output feature set is the set of distinct raw tokens observed at the
// rank, excluding features without a value there (the same exclusion the
// labeler applies). Output features are ordered by descending group total,
// ties by token. Sums use compensated accumulation so large count tables
// keep full precision for later CLR or relative-abundance transforms.
//
// Output feature IDs keep the rank prefix ("g__Strep") while the labeler
// builds labels from the stripped token ("Strep_ASV-1"), so a collapsed
// table and a labeled table cannot be joined on the token text.
package collapse

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/taxatab/matrix"
	"github.com/katalvlaran/taxatab/table"
	"github.com/katalvlaran/taxatab/taxonomy"
)

var (
	// ErrInvalidRank indicates a rank outside Kingdom..Species.
	ErrInvalidRank = errors.New("collapse: invalid rank")

	// ErrNilResolver indicates that no taxonomy resolver was supplied.
	ErrNilResolver = errors.New("collapse: nil resolver")
)

// Report describes one Collapse call.
type Report struct {
	Rank     taxonomy.Rank
	Groups   int      // output features
	Excluded []string // input features with no value at Rank, table order
	Missing  int      // input features with no lineage entry
}

// Collapse returns a table whose features are the rank tokens of t's
// features and whose values are the per-sample sums of their members.
//
// Implementation:
//   - Stage 1: resolve lineages and map each kept feature to a group.
//   - Stage 2: per sample, fold member values into per-group accumulators.
//   - Stage 3: order groups by descending total, then token.
//
// Errors: ErrInvalidRank, ErrNilResolver, table.ErrNilTable.
// Complexity: Time O(r*c + g log g), Space O(r*g).
func Collapse(t *table.FeatureTable, res *taxonomy.Resolver, rank taxonomy.Rank) (*table.FeatureTable, Report, error) {
	rep := Report{Rank: rank}
	if t == nil {
		return nil, rep, fmt.Errorf("collapse.Collapse: %w", table.ErrNilTable)
	}
	if res == nil {
		return nil, rep, fmt.Errorf("collapse.Collapse: %w", ErrNilResolver)
	}
	if !rank.Valid() {
		return nil, rep, fmt.Errorf("collapse.Collapse(%s): %w", rank, ErrInvalidRank)
	}

	// Stage 1
	features := t.Features()
	lineages, rr := res.ResolveAll(features)
	rep.Missing = rr.Missing
	group := make([]int, len(features))
	index := make(map[string]int)
	var tokens []string
	for j, l := range lineages {
		if !l.Has(rank) {
			group[j] = -1
			rep.Excluded = append(rep.Excluded, features[j])
			continue
		}
		tok := l.At(rank)
		g, ok := index[tok]
		if !ok {
			g = len(tokens)
			index[tok] = g
			tokens = append(tokens, tok)
		}
		group[j] = g
	}

	// Stage 2
	r := t.NumSamples()
	sums, err := matrix.NewDense(r, len(tokens))
	if err != nil {
		return nil, rep, fmt.Errorf("collapse.Collapse: %w", err)
	}
	accs := make([]matrix.Accumulator, len(tokens))
	var i int
	for i = 0; i < r; i++ {
		for k := range accs {
			accs[k] = matrix.Accumulator{}
		}
		for j, v := range t.Row(i) {
			if group[j] >= 0 {
				accs[group[j]].Add(v)
			}
		}
		row := sums.RowView(i)
		for k := range accs {
			row[k] = accs[k].Sum()
		}
	}

	// Stage 3
	totals := matrix.ColSums(sums)
	perm := make([]int, len(tokens))
	for k := range perm {
		perm[k] = k
	}
	sort.SliceStable(perm, func(x, y int) bool {
		a, b := perm[x], perm[y]
		if totals[a] != totals[b] {
			return totals[a] > totals[b]
		}
		return tokens[a] < tokens[b]
	})
	ordered, err := sums.Induced(allRows(r), perm)
	if err != nil {
		return nil, rep, fmt.Errorf("collapse.Collapse: %w", err)
	}
	names := make([]string, len(perm))
	for k, g := range perm {
		names[k] = tokens[g]
	}

	out, err := table.FromDense(t.Samples(), names, ordered)
	if err != nil {
		return nil, rep, fmt.Errorf("collapse.Collapse: %w", err)
	}
	rep.Groups = len(names)

	return out, rep, nil
}

// CollapseAll collapses t at each of the seven ranks.
func CollapseAll(t *table.FeatureTable, res *taxonomy.Resolver) (map[taxonomy.Rank]*table.FeatureTable, map[taxonomy.Rank]Report, error) {
	tables := make(map[taxonomy.Rank]*table.FeatureTable, taxonomy.NumRanks)
	reports := make(map[taxonomy.Rank]Report, taxonomy.NumRanks)
	for _, rank := range taxonomy.Ranks() {
		out, rep, err := Collapse(t, res, rank)
		if err != nil {
			return nil, nil, err
		}
		tables[rank] = out
		reports[rank] = rep
	}

	return tables, reports, nil
}

func allRows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}
