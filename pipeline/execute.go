// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/taxatab/loader"
	"github.com/katalvlaran/taxatab/metrics"
	"github.com/katalvlaran/taxatab/storage"
	"github.com/katalvlaran/taxatab/taxonomy"
)

// LoadInputs reads the artifacts named in cfg.Input. The count table comes
// either from a Parquet file written by this tool or from a wide TSV.
func LoadInputs(ctx context.Context, cfg *Config, log *zap.Logger) (in Inputs, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	ic := cfg.Input

	if ic.Table != "" {
		t, prov, err := storage.ParquetStore{}.Load(ctx, ic.Table)
		if err != nil {
			return in, fmt.Errorf("pipeline: load table: %w", err)
		}
		log.Info("table loaded",
			zap.String("path", ic.Table),
			zap.String("generated_by", prov.GeneratedBy))
		in.Table = t
	}
	if ic.CountTSV == "" && ic.Taxonomy == "" && ic.Metadata == "" {
		return in, nil
	}

	ld, err := loader.Open()
	if err != nil {
		return in, err
	}
	defer func() {
		if cerr := ld.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("pipeline: %w", cerr)
		}
	}()

	if ic.CountTSV != "" {
		t, err := ld.LoadCountTable(ctx, ic.CountTSV, loader.CSVOptions{Skip: ic.SkipRows})
		if err != nil {
			return in, fmt.Errorf("pipeline: load counts: %w", err)
		}
		log.Info("counts loaded", zap.String("path", ic.CountTSV))
		in.Table = t
	}
	if ic.Taxonomy != "" {
		m, err := ld.LoadTaxonomy(ctx, ic.Taxonomy)
		if err != nil {
			return in, fmt.Errorf("pipeline: load taxonomy: %w", err)
		}
		in.Taxonomy = taxonomy.NewResolver(m)
		log.Info("taxonomy loaded", zap.String("path", ic.Taxonomy), zap.Int("features", in.Taxonomy.Len()))
	}
	if ic.Metadata != "" {
		md, err := ld.LoadMetadata(ctx, ic.Metadata, ic.MetadataIDColumn)
		if err != nil {
			return in, fmt.Errorf("pipeline: load metadata: %w", err)
		}
		in.Metadata = md
		log.Info("metadata loaded", zap.String("path", ic.Metadata), zap.Int("samples", md.Len()))
	}

	return in, nil
}

// Execute loads the inputs, runs the sweep into a FileSink below
// cfg.Output.Dir and writes the metrics textfile when configured.
func Execute(ctx context.Context, cfg *Config, log *zap.Logger) (Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	in, err := LoadInputs(ctx, cfg, log)
	if err != nil {
		return Summary{}, err
	}
	sink, err := NewFileSink(cfg.Output.Dir)
	if err != nil {
		return Summary{}, err
	}
	rec := metrics.NewRecorder()
	sum, runErr := NewRunner(cfg, log, sink, rec).Run(ctx, in)

	// Metrics are written for failed runs too.
	if cfg.Output.MetricsFile != "" {
		if err = rec.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			if runErr == nil {
				return sum, err
			}
			log.Error("metrics not written", zap.Error(err))
		}
	}

	return sum, runErr
}
