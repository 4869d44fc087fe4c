// SPDX-License-Identifier: MIT

// Package pipeline wires the table stages into a batch run.
//
// A run is described by a YAML Config. The Runner sweeps every
// combination of prevalence threshold, rarefaction depth and sample
// variant and, per combination, hands tables, FASTA records, label side
// tables and plots to a Sink. FileSink writes them below an output
// directory; tests substitute an in-memory Sink.
//
// Degenerate data (empty subsets, samples below depth, zero-total rows) is
// logged through zap, counted in the metrics Recorder and skipped. Only
// configuration, shape and I/O problems stop a run.
package pipeline
