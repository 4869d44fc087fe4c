// SPDX-License-Identifier: MIT

package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/katalvlaran/taxatab/export"
	"github.com/katalvlaran/taxatab/labeler"
	"github.com/katalvlaran/taxatab/table"
	"github.com/katalvlaran/taxatab/taxonomy"
	"github.com/stretchr/testify/require"
)

const longSeq = "TACGTAGGGGGCAAGCGTTATCCGGATTTACTGGGTGTAAAGGGAGCGTAGACGGCGAAGCAAGTCTG"

func assignment(t *testing.T) *labeler.Assignment {
	t.Helper()
	tb, err := table.New(
		[]string{"s1"},
		[]string{longSeq, "ACGTN", "", "not-dna"},
		[][]float64{{100, 50, 20, 10}},
	)
	require.NoError(t, err)
	lin := "k__Bacteria;p__Firmicutes;c__Bacilli;o__L;f__S;g__Strep"
	res := taxonomy.NewResolver(map[string]string{longSeq: lin, "ACGTN": lin, "": lin, "not-dna": lin})
	a, err := labeler.Assign(tb, res, taxonomy.Genus)
	require.NoError(t, err)

	return a
}

func TestWriteFASTA(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := export.WriteFASTA(&buf, assignment(t))
	require.NoError(t, err)
	require.Equal(t, 2, rep.Written)
	require.Equal(t, []string{"", "not-dna"}, rep.Skipped)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, ">Strep_ASV-1\n"))
	require.Contains(t, out, ">Strep_ASV-2\n")

	// Sequence content survives line wrapping.
	body := strings.SplitN(out, ">Strep_ASV-2", 2)[0]
	body = strings.TrimPrefix(body, ">Strep_ASV-1\n")
	require.Equal(t, longSeq, strings.ReplaceAll(body, "\n", ""))
}

func TestWriteAssignments(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteAssignments(&buf, assignment(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	require.Equal(t,
		"FeatureID\tLabel\tRankToken\tTotalAbundance\tKingdom\tPhylum\tClass\tOrder\tFamily\tGenus\tSpecies",
		lines[0])
	require.Equal(t,
		longSeq+"\tStrep_ASV-1\tg__Strep\t100\tk__Bacteria\tp__Firmicutes\tc__Bacilli\to__L\tf__S\tg__Strep\tUnknown",
		lines[1])
}
