// SPDX-License-Identifier: MIT

package loader

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/taxatab/metadata"
	"github.com/katalvlaran/taxatab/table"
)

// LoadMetadata reads a tab-separated metadata sheet keyed by idColumn.
//
// Errors: ErrMissingColumn, metadata.ErrDuplicateSample, query failures.
func (l *Loader) LoadMetadata(ctx context.Context, path, idColumn string) (*metadata.Metadata, error) {
	header, records, err := l.query(ctx, path, CSVOptions{}, nil)
	if err != nil {
		return nil, err
	}
	if !contains(header, idColumn) {
		return nil, fmt.Errorf("loader: %s: %q: %w", path, idColumn, ErrMissingColumn)
	}
	m, err := metadata.New(idColumn, header, records)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}

	return m, nil
}

// LoadTaxonomy reads the "Feature ID" / "Taxon" columns of a taxonomy
// artifact into a feature ID → lineage string map. Extra columns
// (Confidence) are ignored; a repeated feature keeps its last lineage.
func (l *Loader) LoadTaxonomy(ctx context.Context, path string) (map[string]string, error) {
	_, records, err := l.query(ctx, path, CSVOptions{}, []string{TaxonomyIDColumn, TaxonomyLineageColumn})
	if err != nil {
		return nil, missingColumn(path, TaxonomyIDColumn+"/"+TaxonomyLineageColumn, err)
	}
	out := make(map[string]string, len(records))
	for _, rec := range records {
		out[strings.TrimSpace(rec[0])] = rec[1]
	}

	return out, nil
}

// LoadCountTable reads a wide feature × sample table (first column feature
// ID, one column per sample, the layout of `biom convert --to-tsv`) and
// returns it oriented samples × features. Empty cells read as 0.
//
// Errors: ErrBadValue, table.ErrShapeMismatch (duplicate IDs), query failures.
func (l *Loader) LoadCountTable(ctx context.Context, path string, opts CSVOptions) (*table.FeatureTable, error) {
	header, records, err := l.query(ctx, path, opts, nil)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("loader: %s: %w", path, ErrMissingColumn)
	}
	samples := header[1:]
	features := make([]string, len(records))
	values := make([][]float64, len(samples))
	for i := range values {
		values[i] = make([]float64, len(records))
	}
	for j, rec := range records {
		features[j] = strings.TrimSpace(rec[0])
		for i, cell := range rec[1:] {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("loader: %s: feature %q sample %q: %w", path, features[j], samples[i], err)
			}
			values[i][j] = v
		}
	}
	t, err := table.New(samples, features, values)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}

	return t, nil
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", s, ErrBadValue)
	}

	return v, nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}

	return false
}
