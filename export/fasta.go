// SPDX-License-Identifier: MIT

// Package export writes the side products of a labeling run: a FASTA file
// of representative sequences named by their labels, and the audit table
// mapping every feature to its label and lineage.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/katalvlaran/taxatab/labeler"
)

// FASTAWidth is the line width of written sequences.
const FASTAWidth = 60

// Report counts the outcome of WriteFASTA.
type Report struct {
	Written int
	Skipped []string // feature IDs that are empty or not IUPAC DNA
}

// WriteFASTA writes one record per labeled feature, in side-table order.
// The feature identifier is the sequence (ASV IDs are the sequence itself)
// and the label is the record name. Empty or non-DNA identifiers are
// skipped and reported; only I/O failures are errors.
func WriteFASTA(w io.Writer, a *labeler.Assignment) (Report, error) {
	var rep Report
	fw := fasta.NewWriter(w, FASTAWidth)
	for _, rec := range a.Records {
		letters, ok := dnaLetters(rec.FeatureID)
		if !ok {
			rep.Skipped = append(rep.Skipped, rec.FeatureID)
			continue
		}
		s := linear.NewSeq(rec.Label, letters, alphabet.DNAredundant)
		if _, err := fw.Write(s); err != nil {
			return rep, fmt.Errorf("export.WriteFASTA: %s: %w", rec.Label, err)
		}
		rep.Written++
	}

	return rep, nil
}

// dnaLetters validates id as an IUPAC nucleotide sequence.
func dnaLetters(id string) ([]alphabet.Letter, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	letters := alphabet.BytesToLetters([]byte(id))
	for _, l := range letters {
		if !alphabet.DNAredundant.IsValid(l) {
			return nil, false
		}
	}

	return letters, true
}
