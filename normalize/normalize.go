// SPDX-License-Identifier: MIT
// Package: taxatab/normalize
//
// Purpose:
//   - Compositional transforms over sample rows: relative abundance and
//     centered log-ratio (CLR).
//
// Conventions:
//   - Rows are samples. "Per sample" always means per row.
//   - Both transforms are pure: the input table is never modified.
//   - Sums use compensated accumulation (matrix.Accumulator).

package normalize

import (
	"fmt"
	"math"

	"github.com/katalvlaran/taxatab/matrix"
	"github.com/katalvlaran/taxatab/table"
)

const (
	opRelative = "normalize.RelativeAbundance"
	opCLR      = "normalize.CLR"
)

// Report describes samples removed by RelativeAbundance.
type Report struct {
	DroppedSamples []string // zero-total samples, in row order
}

// RelativeAbundance divides every cell by its sample total. Samples whose
// total is zero are dropped before division and listed in the Report.
// Every retained row sums to 1 within floating-point tolerance.
//
// Errors: ErrEmptyTable, ErrNegativeValue, table.ErrNilTable.
// Complexity: Time O(r*c), Space O(r*c).
func RelativeAbundance(t *table.FeatureTable) (*table.FeatureTable, Report, error) {
	var rep Report
	if err := validate(opRelative, t); err != nil {
		return nil, rep, err
	}

	sums := t.SampleSums()
	samples := t.Samples()
	for i, s := range sums {
		if s == 0 {
			rep.DroppedSamples = append(rep.DroppedSamples, samples[i])
		}
	}
	kept := t.FilterSamples(func(i int, _ string) bool { return sums[i] != 0 })

	m := kept.Dense()
	var i int
	for i = 0; i < m.Rows(); i++ {
		row := m.RowView(i)
		total := matrix.Sum(row)
		for j := range row {
			row[j] /= total
		}
	}

	out, err := kept.WithValues(m)
	if err != nil {
		return nil, rep, fmt.Errorf("%s: %w", opRelative, err)
	}

	return out, rep, nil
}

// CLR applies the centered log-ratio transform per sample:
//
//	clr(x)_j = log(x_j + p) − mean_k log(x_k + p)
//
// which equals log((x_j+p) / geometric_mean(x+p)) computed in log space so
// large rows cannot overflow the geometric mean. Each output row sums to 0
// within tolerance and is invariant to scaling its input row when p = 0.
//
// Errors: ErrEmptyTable, ErrNegativeValue, table.ErrNilTable.
// Complexity: Time O(r*c), Space O(r*c).
func CLR(t *table.FeatureTable, opts ...Option) (*table.FeatureTable, error) {
	cfg := clrConfig{pseudocount: DefaultPseudocount}
	for _, o := range opts {
		o(&cfg)
	}
	if err := validate(opCLR, t); err != nil {
		return nil, err
	}

	m := t.Dense()
	var i, j int
	for i = 0; i < m.Rows(); i++ {
		row := m.RowView(i)
		var acc matrix.Accumulator
		for j = range row {
			shifted := row[j] + cfg.pseudocount
			if shifted <= 0 {
				return nil, fmt.Errorf("%s: cell (%d,%d) + pseudocount %v: %w", opCLR, i, j, cfg.pseudocount, ErrNegativeValue)
			}
			row[j] = math.Log(shifted)
			acc.Add(row[j])
		}
		mean := acc.Sum() / float64(len(row))
		for j = range row {
			row[j] -= mean
		}
	}

	out, err := t.WithValues(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCLR, err)
	}

	return out, nil
}

// validate applies the checks shared by both transforms.
func validate(op string, t *table.FeatureTable) error {
	if t == nil {
		return fmt.Errorf("%s: %w", op, table.ErrNilTable)
	}
	if t.IsEmpty() {
		return fmt.Errorf("%s: %dx%d: %w", op, t.NumSamples(), t.NumFeatures(), ErrEmptyTable)
	}
	if err := matrix.ValidateNonNegative(t.Dense()); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrNegativeValue, err)
	}

	return nil
}
