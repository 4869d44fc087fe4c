// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_Usage(t *testing.T) {
	require.Equal(t, exitOK, run([]string{"-version"}))
	require.Equal(t, exitUsage, run(nil))
	require.Equal(t, exitUsage, run([]string{"-bogus"}))
	require.Equal(t, exitUsage, run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}))
}

func TestRun_Validate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("input:\n  count_tsv: counts.tsv\n"), 0o644))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("prevalence:\n  thresholds: [200]\n"), 0o644))

	require.Equal(t, exitOK, run([]string{"-config", good, "-validate"}))
	require.Equal(t, exitUsage, run([]string{"-config", bad, "-validate"}))
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "run.yaml")
	body := "input:\n  count_tsv: " + filepath.Join(dir, "nope.tsv") + "\n" +
		"output:\n  dir: " + filepath.Join(dir, "out") + "\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o644))

	require.Equal(t, exitRun, run([]string{"-config", cfg}))
}
