// SPDX-License-Identifier: MIT

// Package storage persists FeatureTables as Parquet files.
//
// Layout: one row per non-zero cell (sample_id, feature_id, value), the
// sparse "long" form of the table. The ordered sample and feature lists and
// the free-text provenance ("generated by") live in the file's key/value
// metadata, so all-zero rows and columns survive a round trip and identifier
// order is preserved exactly.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/katalvlaran/taxatab/matrix"
	"github.com/katalvlaran/taxatab/table"
)

// ErrCorrupt indicates a file that is not a taxatab table.
var ErrCorrupt = errors.New("storage: not a taxatab table")

// Metadata keys.
const (
	keyFormat      = "taxatab.format"
	keySamples     = "taxatab.samples"
	keyFeatures    = "taxatab.features"
	keyGeneratedBy = "taxatab.generated_by"

	formatVersion = "sparse-long/1"
	createdBy     = "taxatab"
)

// Column names of the long layout.
const (
	colSample  = "sample_id"
	colFeature = "feature_id"
	colValue   = "value"
)

// Provenance is the metadata attached to a stored table.
type Provenance struct {
	GeneratedBy string
}

// ParquetStore reads and writes tables. The zero value is ready to use.
type ParquetStore struct {
	// Alloc backs Arrow buffers; nil means memory.DefaultAllocator.
	Alloc memory.Allocator
}

func (s ParquetStore) alloc() memory.Allocator {
	if s.Alloc == nil {
		return memory.DefaultAllocator
	}

	return s.Alloc
}

// Save writes t to path. The file is written next to path and renamed into
// place, so readers never observe a partial table.
func (s ParquetStore) Save(ctx context.Context, path string, t *table.FeatureTable, generatedBy string) (err error) {
	if t == nil {
		return fmt.Errorf("storage.Save: %w", table.ErrNilTable)
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	samples, features := t.Samples(), t.Features()
	sj, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}
	fj, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}
	md := arrow.NewMetadata(
		[]string{keyFormat, keySamples, keyFeatures, keyGeneratedBy},
		[]string{formatVersion, string(sj), string(fj), generatedBy},
	)
	schema := arrow.NewSchema([]arrow.Field{
		{Name: colSample, Type: arrow.BinaryTypes.String},
		{Name: colFeature, Type: arrow.BinaryTypes.String},
		{Name: colValue, Type: arrow.PrimitiveTypes.Float64},
	}, &md)

	rec := s.record(schema, t, samples, features)
	defer rec.Release()

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".taxatab-*.parquet")
	if err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	props := parquet.NewWriterProperties(
		parquet.WithCreatedBy(createdBy),
		parquet.WithCompression(compressionCodec),
	)
	w, err := pqarrow.NewFileWriter(schema, tmp, props, pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("storage.Save: %w", err)
	}
	if err = w.Write(rec); err != nil {
		_ = w.Close()
		return fmt.Errorf("storage.Save: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}
	// The parquet writer normally closes tmp already.
	_ = tmp.Close()
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}

	return nil
}

// record builds the long-form batch of non-zero cells in row-major order.
func (s ParquetStore) record(schema *arrow.Schema, t *table.FeatureTable, samples, features []string) arrow.Record {
	sb := array.NewStringBuilder(s.alloc())
	fb := array.NewStringBuilder(s.alloc())
	vb := array.NewFloat64Builder(s.alloc())
	defer sb.Release()
	defer fb.Release()
	defer vb.Release()

	var n int64
	for i := range samples {
		for j, v := range t.Row(i) {
			if v == 0 {
				continue
			}
			sb.Append(samples[i])
			fb.Append(features[j])
			vb.Append(v)
			n++
		}
	}

	cols := []arrow.Array{sb.NewArray(), fb.NewArray(), vb.NewArray()}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	return array.NewRecord(schema, cols, n)
}

// Load reads a table written by Save.
//
// Errors: ErrCorrupt for files lacking the identifier metadata, holding
// cells outside the declared identifiers or repeating a cell; table
// construction errors.
func (s ParquetStore) Load(ctx context.Context, path string) (*table.FeatureTable, Provenance, error) {
	var prov Provenance
	if err := ctx.Err(); err != nil {
		return nil, prov, err
	}

	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, prov, fmt.Errorf("storage.Load: %w", err)
	}
	defer rdr.Close()

	kv := rdr.MetaData().KeyValueMetadata()
	var samples, features []string
	if err = decodeList(kv.FindValue(keySamples), &samples); err != nil {
		return nil, prov, fmt.Errorf("storage.Load: %s: %w", keySamples, err)
	}
	if err = decodeList(kv.FindValue(keyFeatures), &features); err != nil {
		return nil, prov, fmt.Errorf("storage.Load: %s: %w", keyFeatures, err)
	}
	if v := kv.FindValue(keyGeneratedBy); v != nil {
		prov.GeneratedBy = *v
	}

	m, err := matrix.NewDense(len(samples), len(features))
	if err != nil {
		return nil, prov, fmt.Errorf("storage.Load: %w", err)
	}
	sIdx := indexOf(samples)
	fIdx := indexOf(features)

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{BatchSize: 64 * 1024}, s.alloc())
	if err != nil {
		return nil, prov, fmt.Errorf("storage.Load: %w", err)
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, prov, fmt.Errorf("storage.Load: %w", err)
	}
	defer tbl.Release()

	tr := array.NewTableReader(tbl, 64*1024)
	defer tr.Release()
	seen := make(map[int]struct{}, tbl.NumRows())
	for tr.Next() {
		rec := tr.Record()
		sc, ok1 := rec.Column(0).(*array.String)
		fc, ok2 := rec.Column(1).(*array.String)
		vc, ok3 := rec.Column(2).(*array.Float64)
		if !ok1 || !ok2 || !ok3 {
			return nil, prov, fmt.Errorf("storage.Load: column types: %w", ErrCorrupt)
		}
		for k := 0; k < int(rec.NumRows()); k++ {
			i, ok := sIdx[sc.Value(k)]
			if !ok {
				return nil, prov, fmt.Errorf("storage.Load: sample %q: %w", sc.Value(k), ErrCorrupt)
			}
			j, ok := fIdx[fc.Value(k)]
			if !ok {
				return nil, prov, fmt.Errorf("storage.Load: feature %q: %w", fc.Value(k), ErrCorrupt)
			}
			cell := i*len(features) + j
			if _, dup := seen[cell]; dup {
				return nil, prov, fmt.Errorf("storage.Load: repeated cell (%q, %q): %w", sc.Value(k), fc.Value(k), ErrCorrupt)
			}
			seen[cell] = struct{}{}
			if err = m.Set(i, j, vc.Value(k)); err != nil {
				return nil, prov, fmt.Errorf("storage.Load: %w", err)
			}
		}
	}
	if err = tr.Err(); err != nil {
		return nil, prov, fmt.Errorf("storage.Load: %w", err)
	}

	t, err := table.FromDense(samples, features, m)
	if err != nil {
		return nil, prov, fmt.Errorf("storage.Load: %w", err)
	}

	return t, prov, nil
}

func decodeList(v *string, dst *[]string) error {
	if v == nil {
		return ErrCorrupt
	}
	if err := json.Unmarshal([]byte(*v), dst); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return nil
}

func indexOf(ids []string) map[string]int {
	out := make(map[string]int, len(ids))
	for i, id := range ids {
		out[id] = i
	}

	return out
}
