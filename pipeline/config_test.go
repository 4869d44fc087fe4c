// SPDX-License-Identifier: MIT

package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/taxatab/pipeline"
	"github.com/katalvlaran/taxatab/taxonomy"
)

func TestParseConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := pipeline.ParseConfig([]byte("input:\n  count_tsv: counts.tsv\n"))
	require.NoError(t, err)

	require.Equal(t, "counts.tsv", cfg.Input.CountTSV)
	require.Equal(t, "sample_name", cfg.Input.MetadataIDColumn)
	require.Equal(t, "out", cfg.Output.Dir)
	require.Equal(t, []float64{0}, cfg.Prevalence.Thresholds)
	require.Equal(t, int64(42), cfg.Rarefaction.Seed)
	require.Equal(t, "shared", cfg.Rarefaction.Streams)
	require.Equal(t, 1, cfg.Rarefaction.Workers)
	require.Equal(t, taxonomy.Genus, cfg.Taxonomy.LabelRank)
	require.True(t, cfg.Taxonomy.Label)
	require.Equal(t, 1.0, cfg.Normalize.Pseudocount)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestParseConfig_Full(t *testing.T) {
	t.Parallel()
	data := `
input:
  count_tsv: counts.tsv
  skip_rows: 1
  taxonomy: taxonomy.tsv
  metadata: meta.tsv
output:
  dir: results
  plots: true
samples:
  table_prefix: "^[0-9]+\\."
  metadata_remove_chars: "-"
  subset_to_metadata: true
prevalence:
  thresholds: [0, 10, 20]
rarefaction:
  depths: [1000, 5000]
  to_minimum: true
  seed: 7
  streams: rows
  workers: 4
variants:
  - name: all
  - name: skin
    column: site
    value: skin
taxonomy:
  label_rank: species
  collapse_ranks: [phylum, Genus]
normalize:
  clr: true
  relative: true
  pseudocount: 0.5
logging:
  level: debug
  format: console
`
	cfg, err := pipeline.ParseConfig([]byte(data))
	require.NoError(t, err)

	require.Equal(t, 1, cfg.Input.SkipRows)
	require.Equal(t, []float64{0, 10, 20}, cfg.Prevalence.Thresholds)
	require.Equal(t, []int{1000, 5000}, cfg.Rarefaction.Depths)
	require.True(t, cfg.Rarefaction.ToMinimum)
	require.Equal(t, int64(7), cfg.Rarefaction.Seed)
	require.Equal(t, 4, cfg.Rarefaction.Workers)
	require.Len(t, cfg.Variants, 2)
	require.Equal(t, "site", cfg.Variants[1].Column)
	require.Equal(t, taxonomy.Species, cfg.Taxonomy.LabelRank)
	require.Equal(t, []taxonomy.Rank{taxonomy.Phylum, taxonomy.Genus}, cfg.Taxonomy.CollapseRanks)
	require.Equal(t, 0.5, cfg.Normalize.Pseudocount)
}

func TestParseConfig_Invalid(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"no input":       "output:\n  dir: x\n",
		"both inputs":    "input:\n  table: a.parquet\n  count_tsv: b.tsv\n",
		"threshold":      "input:\n  count_tsv: c.tsv\nprevalence:\n  thresholds: [150]\n",
		"no thresholds":  "input:\n  count_tsv: c.tsv\nprevalence:\n  thresholds: []\n",
		"depth":          "input:\n  count_tsv: c.tsv\nrarefaction:\n  depths: [0]\n",
		"streams":        "input:\n  count_tsv: c.tsv\nrarefaction:\n  streams: bogus\n",
		"workers":        "input:\n  count_tsv: c.tsv\nrarefaction:\n  workers: 0\n",
		"variant meta":   "input:\n  count_tsv: c.tsv\nvariants:\n  - name: skin\n    column: site\n    value: skin\n",
		"variant dup":    "input:\n  count_tsv: c.tsv\nvariants:\n  - name: a\n  - name: a\n",
		"prefix regexp":  "input:\n  count_tsv: c.tsv\nsamples:\n  table_prefix: \"(\"\n",
		"subset no meta": "input:\n  count_tsv: c.tsv\nsamples:\n  subset_to_metadata: true\n",
		"pseudocount":    "input:\n  count_tsv: c.tsv\nnormalize:\n  pseudocount: -1\n",
		"log level":      "input:\n  count_tsv: c.tsv\nlogging:\n  level: loud\n",
		"log format":     "input:\n  count_tsv: c.tsv\nlogging:\n  format: xml\n",
	}
	for name, data := range cases {
		data := data
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := pipeline.ParseConfig([]byte(data))
			require.ErrorIs(t, err, pipeline.ErrInvalidConfig)
		})
	}
}

func TestParseConfig_BadRank(t *testing.T) {
	t.Parallel()
	_, err := pipeline.ParseConfig([]byte("input:\n  count_tsv: c.tsv\ntaxonomy:\n  label_rank: subspecies\n"))
	require.ErrorIs(t, err, taxonomy.ErrUnknownRank)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	p := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(p, []byte("input:\n  table: in.parquet\n"), 0o644))

	cfg, err := pipeline.LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "in.parquet", cfg.Input.Table)

	_, err = pipeline.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	log, err := pipeline.NewLogger(pipeline.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = pipeline.NewLogger(pipeline.LoggingConfig{Level: "info", Format: "xml"})
	require.ErrorIs(t, err, pipeline.ErrInvalidConfig)

	_, err = pipeline.NewLogger(pipeline.LoggingConfig{Level: "loud"})
	require.Error(t, err)
}
