// SPDX-License-Identifier: MIT

package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/taxatab/metrics"
)

func TestRecorder(t *testing.T) {
	t.Parallel()

	r := metrics.NewRecorder()
	r.ObserveExcluded("prevalence", "below_threshold", 7)
	r.ObserveExcluded("prevalence", "below_threshold", 3)
	r.ObserveExcluded("prevalence", "below_threshold", 0)
	r.ObserveTable("rarefied")
	r.ObserveSkip("normalize")
	r.ObserveShape(12, 340)
	r.ObserveDuration("rarefy", 50*time.Millisecond)

	require.Equal(t, 10.0, testutil.ToFloat64(r.Excluded.WithLabelValues("prevalence", "below_threshold")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.Tables.WithLabelValues("rarefied")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.Skipped.WithLabelValues("normalize")))
	require.Equal(t, 340.0, testutil.ToFloat64(r.InputShape.WithLabelValues("features")))
	require.Equal(t, 1, testutil.CollectAndCount(r.StageDuration))
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	r := metrics.NewRecorder()
	r.ObserveTable("clr")
	done := r.Time("clr")
	done()

	path := filepath.Join(t.TempDir(), "taxatab.prom")
	require.NoError(t, r.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `taxatab_output_tables_total{kind="clr"} 1`)
	require.Contains(t, string(b), "taxatab_stage_duration_seconds_count")
}
