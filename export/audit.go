// SPDX-License-Identifier: MIT

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/taxatab/labeler"
	"github.com/katalvlaran/taxatab/taxonomy"
)

// AuditHeader is the fixed leading part of the WriteAssignments header;
// the seven rank names follow.
var AuditHeader = []string{"FeatureID", "Label", "RankToken", "TotalAbundance"}

// WriteAssignments writes the side table as tab-separated values, one row
// per labeled feature sorted by descending abundance, with the full lineage
// spread over one column per rank.
func WriteAssignments(w io.Writer, a *labeler.Assignment) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := append([]string(nil), AuditHeader...)
	for _, r := range taxonomy.Ranks() {
		header = append(header, r.String())
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export.WriteAssignments: %w", err)
	}
	for _, rec := range a.Records {
		row := []string{
			rec.FeatureID,
			rec.Label,
			rec.RankToken,
			strconv.FormatFloat(rec.TotalAbundance, 'g', -1, 64),
		}
		for _, r := range taxonomy.Ranks() {
			row = append(row, rec.Lineage.At(r))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export.WriteAssignments: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.WriteAssignments: %w", err)
	}

	return nil
}
