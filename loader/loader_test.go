// SPDX-License-Identifier: MIT

package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/taxatab/loader"
	"github.com/katalvlaran/taxatab/metadata"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	return p
}

func open(t *testing.T) *loader.Loader {
	t.Helper()
	l, err := loader.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	return l
}

func TestLoadMetadata(t *testing.T) {
	l := open(t)
	p := writeFile(t, "meta.tsv", "sample_name\ttype\tsite\nA_1\tcase\tskin\nB_2\tcontrol\tnasal\n")

	m, err := l.LoadMetadata(context.Background(), p, "sample_name")
	require.NoError(t, err)
	require.Equal(t, []string{"A_1", "B_2"}, m.SampleIDs())
	v, ok := m.Value("B_2", "site")
	require.True(t, ok)
	require.Equal(t, "nasal", v)

	_, err = l.LoadMetadata(context.Background(), p, "nope")
	require.ErrorIs(t, err, loader.ErrMissingColumn)

	dup := writeFile(t, "dup.tsv", "id\tx\na\t1\na\t2\n")
	_, err = l.LoadMetadata(context.Background(), dup, "id")
	require.ErrorIs(t, err, metadata.ErrDuplicateSample)
}

func TestLoadTaxonomy(t *testing.T) {
	l := open(t)
	p := writeFile(t, "taxonomy.tsv",
		"Feature ID\tTaxon\tConfidence\n"+
			"ACGT\tk__Bacteria; p__Firmicutes; g__Strep\t0.99\n"+
			"GGCC\tk__Bacteria\t0.7\n")

	m, err := l.LoadTaxonomy(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, m, 2)
	require.Equal(t, "k__Bacteria; p__Firmicutes; g__Strep", m["ACGT"])
}

func TestLoadCountTable(t *testing.T) {
	l := open(t)
	p := writeFile(t, "table.tsv",
		"# Constructed from biom file\n"+
			"#OTU ID\tS1\tS2\n"+
			"ACGT\t10\t0\n"+
			"GGCC\t2.0\t5\n")

	tb, err := l.LoadCountTable(context.Background(), p, loader.CSVOptions{Skip: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"S1", "S2"}, tb.Samples())
	require.Equal(t, []string{"ACGT", "GGCC"}, tb.Features())
	require.Equal(t, []float64{10, 2}, tb.Row(0))
	require.Equal(t, []float64{0, 5}, tb.Row(1))

	bad := writeFile(t, "bad.tsv", "id\tS1\nACGT\tlots\n")
	_, err = l.LoadCountTable(context.Background(), bad, loader.CSVOptions{})
	require.ErrorIs(t, err, loader.ErrBadValue)
}
