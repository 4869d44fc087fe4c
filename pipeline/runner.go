// SPDX-License-Identifier: MIT
// Package: taxatab/pipeline
//
// runner.go - the threshold × depth × variant sweep.
//
// Per combination:
//   prevalence filter → rarefaction → label assignment (once per rarefied
//   table) → variant subset (+ drop empty features) → counts table, label
//   table + FASTA + audit TSV, collapsed tables, CLR and relative tables.
//
// Error policy:
//   • Parameter, shape and I/O errors stop the run.
//   • Degenerate data (empty subsets, all samples below depth, transforms
//     reporting normalize.ErrEmptyTable) is logged, counted and skipped so
//     the remaining combinations still run.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/plot"

	"github.com/katalvlaran/taxatab/collapse"
	"github.com/katalvlaran/taxatab/labeler"
	"github.com/katalvlaran/taxatab/metadata"
	"github.com/katalvlaran/taxatab/metrics"
	"github.com/katalvlaran/taxatab/normalize"
	"github.com/katalvlaran/taxatab/prevalence"
	"github.com/katalvlaran/taxatab/rarefy"
	"github.com/katalvlaran/taxatab/report"
	"github.com/katalvlaran/taxatab/table"
	"github.com/katalvlaran/taxatab/taxonomy"
)

// Stage names used in logs and metrics.
const (
	stageSamples    = "samples"
	stagePrevalence = "prevalence"
	stageRarefy     = "rarefy"
	stageVariant    = "variant"
	stageLabel      = "label"
	stageFASTA      = "fasta"
	stageCollapse   = "collapse"
	stageCLR        = "clr"
	stageRelative   = "relative"
	stagePlot       = "plot"
)

// Inputs are the loaded artifacts of a run. Taxonomy and Metadata are
// optional; stages needing them are skipped when absent.
type Inputs struct {
	Table    *table.FeatureTable
	Taxonomy *taxonomy.Resolver
	Metadata *metadata.Metadata
}

// Summary describes a finished run.
type Summary struct {
	RunID        string
	Combinations int
	Skipped      int
	Tables       int
}

// Runner executes the sweep described by a Config.
type Runner struct {
	cfg   *Config
	log   *zap.Logger
	sink  Sink
	rec   *metrics.Recorder
	runID string
}

// NewRunner wires a runner. A nil logger or recorder is replaced by a no-op
// logger or a private recorder.
func NewRunner(cfg *Config, log *zap.Logger, sink Sink, rec *metrics.Recorder) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	id := uuid.NewString()

	return &Runner{
		cfg:   cfg,
		log:   log.With(zap.String("run_id", id)),
		sink:  sink,
		rec:   rec,
		runID: id,
	}
}

// RunID returns the identifier stamped on logs and provenance strings.
func (r *Runner) RunID() string { return r.runID }

// Run executes every combination. Cancellation is checked between
// combinations; a cancelled run returns ctx.Err() with the partial Summary.
func (r *Runner) Run(ctx context.Context, in Inputs) (Summary, error) {
	sum := Summary{RunID: r.runID}
	if in.Table == nil {
		return sum, fmt.Errorf("pipeline.Run: %w", table.ErrNilTable)
	}
	r.rec.ObserveShape(in.Table.NumSamples(), in.Table.NumFeatures())
	r.log.Info("run started",
		zap.Int("samples", in.Table.NumSamples()),
		zap.Int("features", in.Table.NumFeatures()),
		zap.Bool("taxonomy", in.Taxonomy != nil),
		zap.Bool("metadata", in.Metadata != nil))

	base, md, err := r.prepareSamples(in.Table, in.Metadata)
	if err != nil {
		return sum, err
	}
	if r.cfg.Output.Plots {
		if err = r.plots(base, md); err != nil {
			return sum, err
		}
	}

	for _, th := range r.cfg.Prevalence.Thresholds {
		if err = ctx.Err(); err != nil {
			return sum, err
		}
		filtered, err := r.filter(base, th)
		if err != nil {
			return sum, err
		}
		for _, step := range r.depthSteps(th) {
			rarefied, step, ok, err := r.rarefy(filtered, step)
			if err != nil {
				return sum, err
			}
			var a *labeler.Assignment
			if ok {
				if a, err = r.assign(rarefied, in.Taxonomy); err != nil {
					return sum, err
				}
			}
			for _, v := range r.cfg.variants() {
				if err = ctx.Err(); err != nil {
					return sum, err
				}
				c := step
				c.variant = v
				sum.Combinations++
				if !ok {
					sum.Skipped++
					continue
				}
				sub, err := r.selectVariant(rarefied, v, md)
				if err != nil {
					return sum, err
				}
				if sub.IsEmpty() {
					r.log.Warn("empty combination skipped",
						zap.String("combination", c.name()),
						zap.Int("samples", sub.NumSamples()),
						zap.Int("features", sub.NumFeatures()))
					r.rec.ObserveSkip(stageVariant)
					sum.Skipped++
					continue
				}
				n, err := r.emit(ctx, c, sub, in.Taxonomy, a)
				sum.Tables += n
				if err != nil {
					return sum, err
				}
			}
		}
	}
	r.log.Info("run finished",
		zap.Int("combinations", sum.Combinations),
		zap.Int("skipped", sum.Skipped),
		zap.Int("tables", sum.Tables))

	return sum, nil
}

// prepareSamples normalizes identifiers and optionally subsets the table to
// samples present in the metadata.
func (r *Runner) prepareSamples(t *table.FeatureTable, md *metadata.Metadata) (*table.FeatureTable, *metadata.Metadata, error) {
	defer r.rec.Time(stageSamples)()
	sc := r.cfg.Samples

	if sc.TablePrefix != "" {
		strip, err := metadata.PrefixStripper(sc.TablePrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: %w", err)
		}
		if t, err = t.RenameSamples(strip); err != nil {
			return nil, nil, fmt.Errorf("pipeline: table sample IDs: %w", err)
		}
	}
	if md != nil && sc.MetadataRemoveChars != "" {
		var err error
		if md, err = md.NormalizeIDs(metadata.RemoveChars(sc.MetadataRemoveChars)); err != nil {
			return nil, nil, fmt.Errorf("pipeline: metadata sample IDs: %w", err)
		}
	}
	if md != nil && sc.SubsetToMetadata {
		sub, sel := t.SelectSamples(md.SampleIDs())
		notInMetadata := t.NumSamples() - sub.NumSamples()
		r.log.Info("samples matched to metadata",
			zap.Int("metadata_samples", sel.Requested),
			zap.Int("retained", sel.Retained),
			zap.Int("not_in_table", sel.Excluded),
			zap.Int("not_in_metadata", notInMetadata))
		r.rec.ObserveExcluded(stageSamples, "not_in_table", sel.Excluded)
		r.rec.ObserveExcluded(stageSamples, "not_in_metadata", notInMetadata)
		t = sub
	}

	return t, md, nil
}

// plots writes the diagnostic plots of the prepared table.
func (r *Runner) plots(t *table.FeatureTable, md *metadata.Metadata) error {
	defer r.rec.Time(stagePlot)()

	if err := r.savePlot("prevalence", func() (*plot.Plot, error) { return report.Prevalence(t) }); err != nil {
		return err
	}
	if err := r.savePlot("depths", func() (*plot.Plot, error) { return report.Depths(t) }); err != nil {
		return err
	}
	if md == nil || r.cfg.Samples.GroupColumn == "" {
		return nil
	}
	groups, err := md.Groups(r.cfg.Samples.GroupColumn)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	return r.savePlot("sorted_depths", func() (*plot.Plot, error) { return report.SortedDepths(t, groups) })
}

// savePlot builds and stores one plot; an empty table only skips it.
func (r *Runner) savePlot(name string, build func() (*plot.Plot, error)) error {
	p, err := build()
	if errors.Is(err, report.ErrNoData) {
		r.log.Warn("plot skipped", zap.String("plot", name), zap.Error(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("pipeline: plot %s: %w", name, err)
	}

	return r.sink.SavePlot(name, p)
}

// filter applies one prevalence threshold.
func (r *Runner) filter(t *table.FeatureTable, th float64) (*table.FeatureTable, error) {
	defer r.rec.Time(stagePrevalence)()
	out, rep, err := prevalence.Filter(t, th)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	r.log.Info("prevalence filter",
		zap.Float64("threshold", th),
		zap.Int("before", rep.Before),
		zap.Int("after", rep.After),
		zap.Int("removed", rep.Removed))
	r.rec.ObserveExcluded(stagePrevalence, "below_threshold", rep.Removed)

	return out, nil
}

// depthSteps lists the rarefaction settings of the sweep for threshold th.
func (r *Runner) depthSteps(th float64) []combo {
	var out []combo
	if r.cfg.Rarefaction.ToMinimum {
		out = append(out, combo{threshold: th, toMin: true})
	}
	for _, d := range r.cfg.Rarefaction.Depths {
		out = append(out, combo{threshold: th, depth: d})
	}
	if len(out) == 0 {
		out = append(out, combo{threshold: th})
	}

	return out
}

// rarefy applies one rarefaction step. ok is false when the step cannot
// produce a table (minimum depth of zero); the caller skips its variants.
func (r *Runner) rarefy(t *table.FeatureTable, step combo) (*table.FeatureTable, combo, bool, error) {
	if step.depth == 0 && !step.toMin {
		return t, step, true, nil
	}
	defer r.rec.Time(stageRarefy)()

	rc := r.cfg.Rarefaction
	mode, err := rarefy.ParseStreamMode(rc.Streams)
	if err != nil {
		return nil, step, false, fmt.Errorf("pipeline: %w", err)
	}
	opts := []rarefy.Option{rarefy.WithStreams(mode), rarefy.WithWorkers(max(rc.Workers, 1))}
	if rc.DropBelowDepth {
		opts = append(opts, rarefy.WithDropBelowDepth())
	}

	if step.toMin {
		if t.IsEmpty() {
			return t, step, true, nil
		}
		minDepth := rarefy.Summarize(t).Min
		if minDepth < 1 {
			r.log.Warn("minimum depth is zero, rarefaction skipped",
				zap.Float64("threshold", step.threshold),
				zap.Strings("zero_samples", rarefy.BelowDepth(t, 1)))
			r.rec.ObserveSkip(stageRarefy)
			return nil, step, false, nil
		}
		step.depth = int(minDepth)
	}

	out, rep, err := rarefy.Rarefy(t, step.depth, rc.Seed, opts...)
	if err != nil {
		return nil, step, false, fmt.Errorf("pipeline: %w", err)
	}
	r.log.Info("rarefied",
		zap.Int("depth", step.depth),
		zap.Int64("seed", rc.Seed),
		zap.Stringer("streams", rep.Mode),
		zap.Int("rarefied", rep.Rarefied),
		zap.Int("below_depth", len(rep.BelowDepth)),
		zap.Bool("dropped", rep.Dropped))
	r.rec.ObserveExcluded(stageRarefy, "below_depth", len(rep.BelowDepth))

	return out, step, true, nil
}

// selectVariant subsets samples by a metadata value (every sample when the
// variant has no column) and drops features left without counts.
func (r *Runner) selectVariant(t *table.FeatureTable, v VariantConfig, md *metadata.Metadata) (*table.FeatureTable, error) {
	sub := t
	if v.Column != "" {
		if md == nil {
			return nil, fmt.Errorf("%w: variant %q needs metadata", ErrInvalidConfig, v.Name)
		}
		ids, err := md.Select(v.Column, v.Value)
		if err != nil {
			return nil, fmt.Errorf("pipeline: variant %q: %w", v.Name, err)
		}
		sub, _ = t.SelectSamples(ids)
	}
	sub, dropped := sub.DropEmptyFeatures()
	r.log.Debug("variant selected",
		zap.String("variant", v.Name),
		zap.Int("samples", sub.NumSamples()),
		zap.Int("empty_features_dropped", dropped))
	r.rec.ObserveExcluded(stageVariant, "empty_feature", dropped)

	return sub, nil
}

// emit writes every output of one combination and returns how many tables
// were saved. a is the assignment of the whole rarefied table, or nil when
// labeling is off.
func (r *Runner) emit(ctx context.Context, c combo, t *table.FeatureTable, res *taxonomy.Resolver, a *labeler.Assignment) (int, error) {
	name := c.name()
	desc := c.describe(r.cfg.Rarefaction.Seed)
	var saved int
	save := func(suffix, kind, what string, tb *table.FeatureTable) error {
		gen := fmt.Sprintf("taxatab run %s: %s", r.runID, desc)
		if what != "" {
			gen += ", " + what
		}
		if err := r.sink.SaveTable(ctx, name+suffix, tb, gen); err != nil {
			return fmt.Errorf("pipeline: save %s%s: %w", name, suffix, err)
		}
		r.rec.ObserveTable(kind)
		saved++

		return nil
	}
	log := r.log.With(zap.String("combination", name))

	if err := save("", "counts", "", t); err != nil {
		return saved, err
	}

	if a != nil {
		if err := r.label(log, name, t, a, save); err != nil {
			return saved, err
		}
	}

	if res != nil {
		for _, rank := range r.cfg.Taxonomy.CollapseRanks {
			done := r.rec.Time(stageCollapse)
			out, rep, err := collapse.Collapse(t, res, rank)
			done()
			if err != nil {
				return saved, fmt.Errorf("pipeline: %w", err)
			}
			log.Info("collapsed", zap.Stringer("rank", rank), zap.Int("groups", rep.Groups), zap.Int("excluded", len(rep.Excluded)))
			r.rec.ObserveExcluded(stageCollapse, "no_rank_value", len(rep.Excluded))
			suffix := "_" + strings.ToLower(rank.String())
			if err = save(suffix, "collapsed", "collapsed at "+rank.String(), out); err != nil {
				return saved, err
			}
		}
	}

	if r.cfg.Normalize.CLR {
		done := r.rec.Time(stageCLR)
		out, err := normalize.CLR(t, normalize.WithPseudocount(r.cfg.Normalize.Pseudocount))
		done()
		switch {
		case r.skippable(log, stageCLR, err):
		case err != nil:
			return saved, fmt.Errorf("pipeline: %w", err)
		default:
			if err = save("_clr", "clr", "CLR", out); err != nil {
				return saved, err
			}
		}
	}

	if r.cfg.Normalize.Relative {
		if err := r.relative(log, "_relative", t, save); err != nil {
			return saved, err
		}
	}

	return saved, nil
}

type saveFunc func(suffix, kind, what string, tb *table.FeatureTable) error

// assign labels the rarefied table once, before variants are selected, so
// a label names the same sequence in every variant of the combination.
// It returns nil when labeling is off or the run has no taxonomy.
func (r *Runner) assign(t *table.FeatureTable, res *taxonomy.Resolver) (*labeler.Assignment, error) {
	tc := r.cfg.Taxonomy
	if res == nil || !tc.Label {
		return nil, nil
	}
	defer r.rec.Time(stageLabel)()
	var opts []labeler.Option
	if tc.KeepRankPrefix {
		opts = append(opts, labeler.WithKeepRankPrefix())
	}
	a, err := labeler.Assign(t, res, tc.LabelRank, opts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	r.log.Info("labeled",
		zap.Stringer("rank", tc.LabelRank),
		zap.Int("labeled", a.Len()),
		zap.Int("excluded", len(a.Excluded)),
		zap.Int("missing_lineage", a.Missing))
	r.rec.ObserveExcluded(stageLabel, "no_rank_value", len(a.Excluded))
	r.rec.ObserveExcluded(stageLabel, "missing_lineage", a.Missing)

	return a, nil
}

// label writes the label table of t, its FASTA file and the audit side
// table. The FASTA and audit records are restricted to the features of t.
func (r *Runner) label(log *zap.Logger, name string, t *table.FeatureTable, a *labeler.Assignment, save saveFunc) error {
	tc := r.cfg.Taxonomy
	relabeled, err := labeler.Relabel(t, a)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	sub := a.Restrict(relabeled.Features())
	suffix := "_" + strings.ToLower(tc.LabelRank.String()) + "_labels"
	if err = save(suffix, "labels", "labeled at "+tc.LabelRank.String(), relabeled); err != nil {
		return err
	}

	fr, err := r.sink.WriteFASTA(name+suffix, sub)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if len(fr.Skipped) > 0 {
		log.Warn("sequences skipped", zap.Int("written", fr.Written), zap.Int("skipped", len(fr.Skipped)))
	}
	r.rec.ObserveExcluded(stageFASTA, "invalid_sequence", len(fr.Skipped))
	if err = r.sink.WriteAssignments(name+suffix, sub); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if r.cfg.Normalize.Relative {
		return r.relative(log, suffix+"_relative", relabeled, save)
	}

	return nil
}

// relative writes the relative-abundance table of t.
func (r *Runner) relative(log *zap.Logger, suffix string, t *table.FeatureTable, save saveFunc) error {
	done := r.rec.Time(stageRelative)
	out, rep, err := normalize.RelativeAbundance(t)
	done()
	if r.skippable(log, stageRelative, err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if len(rep.DroppedSamples) > 0 {
		log.Info("zero-total samples dropped", zap.Strings("samples", rep.DroppedSamples))
	}
	r.rec.ObserveExcluded(stageRelative, "zero_total", len(rep.DroppedSamples))

	return save(suffix, "relative", "relative abundance", out)
}

// skippable reports (and logs) a degenerate-table error that only skips
// the current output.
func (r *Runner) skippable(log *zap.Logger, stage string, err error) bool {
	if !errors.Is(err, normalize.ErrEmptyTable) {
		return false
	}
	log.Warn("degenerate table, output skipped", zap.String("stage", stage), zap.Error(err))
	r.rec.ObserveSkip(stage)

	return true
}
