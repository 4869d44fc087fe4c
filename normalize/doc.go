// SPDX-License-Identifier: MIT

// Package normalize implements the compositional transforms applied to
// abundance tables before downstream analysis: per-sample relative abundance
// and the centered log-ratio (CLR) with a configurable pseudocount.
package normalize
