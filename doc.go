// SPDX-License-Identifier: MIT

// Package taxatab turns a microbiome abundance table (samples × ASV
// features) into analysis-ready derived tables.
//
// The stages live in their own packages and are pure functions over an
// immutable table.FeatureTable:
//
//	table/        FeatureTable: ordered IDs + row-major values, selection
//	matrix/       dense storage, compensated reductions, value validators
//	prevalence/   drop features present in too few samples
//	rarefy/       seeded subsampling of every sample to a fixed depth
//	normalize/    CLR and relative-abundance transforms
//	taxonomy/     seven-rank lineage parsing and feature → lineage lookup
//	labeler/      stable "<Genus>_ASV-<n>" labels and the audit side table
//	collapse/     sum features that share a rank value
//
// Around them:
//
//	loader/       TSV inputs (counts, taxonomy, metadata) via DuckDB read_csv
//	metadata/     sample metadata sheet and identifier normalizers
//	storage/      Parquet persistence of tables with provenance metadata
//	export/       FASTA records and the label audit TSV
//	report/       prevalence and sequencing-depth plots
//	metrics/      Prometheus counters written as a textfile
//	pipeline/     YAML config, zap logging and the threshold × depth sweep
//	cmd/taxatab   the command-line entry point
//
// Quick start:
//
//	t, _ := table.New(samples, features, counts)
//	t, _, _ = prevalence.Filter(t, 10)
//	t, _, _ = rarefy.Rarefy(t, 1000, 42)
//	a, _ := labeler.Assign(t, taxonomy.NewResolver(lineages), taxonomy.Genus)
//	labeled, _ := labeler.Relabel(t, a)
package taxatab
