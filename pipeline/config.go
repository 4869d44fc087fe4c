// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/taxatab/metadata"
	"github.com/katalvlaran/taxatab/normalize"
	"github.com/katalvlaran/taxatab/rarefy"
	"github.com/katalvlaran/taxatab/taxonomy"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("pipeline: invalid config")

// Config is the YAML run description.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Samples     SamplesConfig     `yaml:"samples"`
	Prevalence  PrevalenceConfig  `yaml:"prevalence"`
	Rarefaction RarefactionConfig `yaml:"rarefaction"`
	Variants    []VariantConfig   `yaml:"variants"`
	Taxonomy    TaxonomyConfig    `yaml:"taxonomy"`
	Normalize   NormalizeConfig   `yaml:"normalize"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// InputConfig names the input artifacts. Exactly one of Table (Parquet, as
// written by this tool) and CountTSV (wide feature × sample TSV) is required.
type InputConfig struct {
	Table            string `yaml:"table"`
	CountTSV         string `yaml:"count_tsv"`
	SkipRows         int    `yaml:"skip_rows"`
	Taxonomy         string `yaml:"taxonomy"`
	Metadata         string `yaml:"metadata"`
	MetadataIDColumn string `yaml:"metadata_id_column"`
}

// OutputConfig controls where results go.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Plots       bool   `yaml:"plots"`
	MetricsFile string `yaml:"metrics_file"`
}

// SamplesConfig normalizes identifiers before table and metadata are matched.
type SamplesConfig struct {
	TablePrefix         string `yaml:"table_prefix"`          // regexp stripped from table sample IDs
	MetadataRemoveChars string `yaml:"metadata_remove_chars"` // removed from metadata sample IDs
	SubsetToMetadata    bool   `yaml:"subset_to_metadata"`
	GroupColumn         string `yaml:"group_column"` // colors the sorted-depth plot
}

// PrevalenceConfig lists the filter thresholds of the sweep (percent).
type PrevalenceConfig struct {
	Thresholds []float64 `yaml:"thresholds"`
}

// RarefactionConfig lists the depths of the sweep. No depths and
// ToMinimum unset means the sweep does not rarefy.
type RarefactionConfig struct {
	Depths         []int  `yaml:"depths"`
	ToMinimum      bool   `yaml:"to_minimum"`
	Seed           int64  `yaml:"seed"`
	DropBelowDepth bool   `yaml:"drop_below_depth"`
	Streams        string `yaml:"streams"` // "shared" or "rows"
	Workers        int    `yaml:"workers"`
}

// VariantConfig selects a sample subset by a metadata column value. An
// empty Column selects every sample.
type VariantConfig struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
	Value  string `yaml:"value"`
}

// TaxonomyConfig drives labeling and collapsing. Both are skipped when the
// run has no taxonomy input.
type TaxonomyConfig struct {
	LabelRank      taxonomy.Rank   `yaml:"label_rank"`
	CollapseRanks  []taxonomy.Rank `yaml:"collapse_ranks"`
	KeepRankPrefix bool            `yaml:"keep_rank_prefix"`
	Label          bool            `yaml:"label"`
}

// NormalizeConfig selects the compositional transforms.
type NormalizeConfig struct {
	CLR         bool    `yaml:"clr"`
	Relative    bool    `yaml:"relative"`
	Pseudocount float64 `yaml:"pseudocount"`
}

// LoggingConfig selects the zap preset and level.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// DefaultConfig returns the values used for keys absent from the file.
func DefaultConfig() *Config {
	return &Config{
		Input:      InputConfig{MetadataIDColumn: "sample_name"},
		Output:     OutputConfig{Dir: "out"},
		Prevalence: PrevalenceConfig{Thresholds: []float64{0}},
		Rarefaction: RarefactionConfig{
			Seed:    42,
			Streams: rarefy.SharedStream.String(),
			Workers: 1,
		},
		Taxonomy:  TaxonomyConfig{LabelRank: taxonomy.Genus, Label: true},
		Normalize: NormalizeConfig{Pseudocount: normalize.DefaultPseudocount},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
}

// LoadConfig reads path over DefaultConfig and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("pipeline: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every problem at once, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if (c.Input.Table == "") == (c.Input.CountTSV == "") {
		bad("exactly one of input.table and input.count_tsv is required")
	}
	if c.Input.SkipRows < 0 {
		bad("input.skip_rows must be >= 0")
	}
	if c.Output.Dir == "" {
		bad("output.dir is required")
	}
	if len(c.Prevalence.Thresholds) == 0 {
		bad("prevalence.thresholds must not be empty")
	}
	for _, th := range c.Prevalence.Thresholds {
		if math.IsNaN(th) || th < 0 || th > 100 {
			bad("prevalence threshold %v outside [0, 100]", th)
		}
	}
	for _, d := range c.Rarefaction.Depths {
		if d <= 0 {
			bad("rarefaction depth %d must be > 0", d)
		}
	}
	if _, err := rarefy.ParseStreamMode(c.Rarefaction.Streams); err != nil {
		bad("rarefaction.streams: %v", err)
	}
	if c.Rarefaction.Workers < 1 {
		bad("rarefaction.workers must be >= 1")
	}
	names := make(map[string]bool, len(c.Variants))
	for _, v := range c.Variants {
		if v.Name == "" {
			bad("variant name is required")
		}
		if names[v.Name] {
			bad("duplicate variant %q", v.Name)
		}
		names[v.Name] = true
		if v.Column != "" && c.Input.Metadata == "" {
			bad("variant %q selects by metadata but input.metadata is empty", v.Name)
		}
	}
	if c.Samples.TablePrefix != "" {
		if _, err := metadata.PrefixStripper(c.Samples.TablePrefix); err != nil {
			bad("samples.table_prefix: %v", err)
		}
	}
	if (c.Samples.SubsetToMetadata || c.Samples.GroupColumn != "") && c.Input.Metadata == "" {
		bad("samples settings need input.metadata")
	}
	if !c.Taxonomy.LabelRank.Valid() {
		bad("taxonomy.label_rank is invalid")
	}
	for _, r := range c.Taxonomy.CollapseRanks {
		if !r.Valid() {
			bad("taxonomy.collapse_ranks holds an invalid rank")
		}
	}
	if c.Normalize.Pseudocount < 0 {
		bad("normalize.pseudocount must be >= 0")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		bad("logging.level: %v", err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		bad("logging.format must be json or console")
	}

	return errors.Join(errs...)
}

// variants returns the configured variants, or the single "all" variant.
func (c *Config) variants() []VariantConfig {
	if len(c.Variants) == 0 {
		return []VariantConfig{{Name: "all"}}
	}

	return c.Variants
}
