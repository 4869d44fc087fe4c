// SPDX-License-Identifier: MIT

// Package report draws the diagnostic plots of a run: the prevalence
// distribution used to pick filter thresholds, the read-depth distribution
// used to pick rarefaction depths, and per-sample read counts grouped by a
// metadata column.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/katalvlaran/taxatab/prevalence"
	"github.com/katalvlaran/taxatab/rarefy"
	"github.com/katalvlaran/taxatab/table"
)

// ErrNoData indicates a plot request over an empty table.
var ErrNoData = errors.New("report: nothing to plot")

// Plot dimensions used by Save.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// prevalenceBins splits [0, 100] into 5% buckets.
const prevalenceBins = 20

// OtherGroup collects samples that belong to no metadata group.
const OtherGroup = "other"

var (
	minColor  = color.RGBA{R: 200, A: 255}
	meanColor = color.RGBA{B: 200, A: 255}
)

// Prevalence plots the histogram of feature prevalences (percent of
// samples in which each feature is non-zero).
func Prevalence(t *table.FeatureTable) (*plot.Plot, error) {
	if t.NumFeatures() == 0 || t.NumSamples() == 0 {
		return nil, fmt.Errorf("report.Prevalence: %w", ErrNoData)
	}
	h, err := plotter.NewHist(plotter.Values(prevalence.Prevalence(t)), prevalenceBins)
	if err != nil {
		return nil, fmt.Errorf("report.Prevalence: %w", err)
	}

	p := plot.New()
	p.Title.Text = "Feature prevalence"
	p.X.Label.Text = "Prevalence (% of samples)"
	p.Y.Label.Text = "Features"
	p.X.Min, p.X.Max = 0, 100
	p.Add(h)

	return p, nil
}

// Depths plots the histogram of per-sample read counts with vertical
// markers at the minimum and mean depth.
func Depths(t *table.FeatureTable) (*plot.Plot, error) {
	if t.NumSamples() == 0 {
		return nil, fmt.Errorf("report.Depths: %w", ErrNoData)
	}
	h, err := plotter.NewHist(plotter.Values(t.SampleSums()), 0)
	if err != nil {
		return nil, fmt.Errorf("report.Depths: %w", err)
	}
	var top float64
	for _, b := range h.Bins {
		if b.Weight > top {
			top = b.Weight
		}
	}

	p := plot.New()
	p.Title.Text = "Read depth per sample"
	p.X.Label.Text = "Reads"
	p.Y.Label.Text = "Samples"
	p.Add(h)

	s := rarefy.Summarize(t)
	for _, m := range []struct {
		name string
		x    float64
		c    color.Color
	}{
		{fmt.Sprintf("min = %.0f", s.Min), s.Min, minColor},
		{fmt.Sprintf("mean = %.1f", s.Mean), s.Mean, meanColor},
	} {
		l, err := plotter.NewLine(plotter.XYs{{X: m.x, Y: 0}, {X: m.x, Y: top}})
		if err != nil {
			return nil, fmt.Errorf("report.Depths: %w", err)
		}
		l.Color = m.c
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(l)
		p.Legend.Add(m.name, l)
	}

	return p, nil
}

// SortedDepths plots per-sample read counts sorted ascending, one scatter
// series per group. groups maps a group name (a metadata value) to sample
// IDs; samples of t in no group fall into OtherGroup.
func SortedDepths(t *table.FeatureTable, groups map[string][]string) (*plot.Plot, error) {
	if t.NumSamples() == 0 {
		return nil, fmt.Errorf("report.SortedDepths: %w", ErrNoData)
	}
	sums := t.SampleSums()
	samples := t.Samples()
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return sums[order[a]] < sums[order[b]] })

	groupOf := make(map[string]string, len(samples))
	for g, ids := range groups {
		for _, id := range ids {
			groupOf[id] = g
		}
	}
	series := make(map[string]plotter.XYs)
	for rank, i := range order {
		g, ok := groupOf[samples[i]]
		if !ok {
			g = OtherGroup
		}
		series[g] = append(series[g], plotter.XY{X: float64(rank), Y: sums[i]})
	}
	names := make([]string, 0, len(series))
	for g := range series {
		names = append(names, g)
	}
	sort.Strings(names)

	p := plot.New()
	p.Title.Text = "Sorted read counts"
	p.X.Label.Text = "Sample rank"
	p.Y.Label.Text = "Reads"
	for k, g := range names {
		sc, err := plotter.NewScatter(series[g])
		if err != nil {
			return nil, fmt.Errorf("report.SortedDepths: %w", err)
		}
		sc.GlyphStyle.Color = plotutil.Color(k)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		p.Legend.Add(g, sc)
	}

	return p, nil
}

// Save renders p to path; the image format follows the file extension
// (.png, .svg, .pdf, …).
func Save(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("report.Save(%s): %w", path, err)
	}

	return nil
}
