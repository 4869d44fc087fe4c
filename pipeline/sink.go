// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"

	"github.com/katalvlaran/taxatab/export"
	"github.com/katalvlaran/taxatab/labeler"
	"github.com/katalvlaran/taxatab/report"
	"github.com/katalvlaran/taxatab/storage"
	"github.com/katalvlaran/taxatab/table"
)

// Sink receives every artifact a run produces. Names are file stems without
// extension; the sink chooses the format.
type Sink interface {
	SaveTable(ctx context.Context, name string, t *table.FeatureTable, generatedBy string) error
	WriteFASTA(name string, a *labeler.Assignment) (export.Report, error)
	WriteAssignments(name string, a *labeler.Assignment) error
	SavePlot(name string, p *plot.Plot) error
}

// FileSink writes artifacts below Dir: tables as Parquet, sequences as
// FASTA, side tables as TSV and plots as PNG.
type FileSink struct {
	Dir   string
	Store storage.ParquetStore
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: output dir: %w", err)
	}

	return &FileSink{Dir: dir}, nil
}

func (s *FileSink) path(name, ext string) string {
	return filepath.Join(s.Dir, name+ext)
}

// SaveTable implements Sink.
func (s *FileSink) SaveTable(ctx context.Context, name string, t *table.FeatureTable, generatedBy string) error {
	return s.Store.Save(ctx, s.path(name, ".parquet"), t, generatedBy)
}

// WriteFASTA implements Sink.
func (s *FileSink) WriteFASTA(name string, a *labeler.Assignment) (rep export.Report, err error) {
	f, err := os.Create(s.path(name, ".fasta"))
	if err != nil {
		return rep, fmt.Errorf("pipeline: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("pipeline: %w", cerr)
		}
	}()

	return export.WriteFASTA(f, a)
}

// WriteAssignments implements Sink.
func (s *FileSink) WriteAssignments(name string, a *labeler.Assignment) (err error) {
	f, err := os.Create(s.path(name, ".tsv"))
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("pipeline: %w", cerr)
		}
	}()

	return export.WriteAssignments(f, a)
}

// SavePlot implements Sink.
func (s *FileSink) SavePlot(name string, p *plot.Plot) error {
	return report.Save(p, s.path(name, ".png"))
}
