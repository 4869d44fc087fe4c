// SPDX-License-Identifier: MIT
// Package: taxatab/rarefy
//
// options.go - functional options for Rarefy.
//
// Contract:
//   • Option constructors validate and panic on meaningless inputs; Rarefy
//     itself never panics and reports bad runtime parameters as errors.
//   • Randomness is explicit: the seed is a Rarefy argument, the stream
//     layout an option. No package-level generator exists.

package rarefy

import "fmt"

// StreamMode selects how pseudo-random draws are laid out over rows.
type StreamMode int

const (
	// SharedStream seeds one generator for the whole table and consumes it
	// in row order. Rows below depth consume nothing.
	SharedStream StreamMode = iota

	// RowStreams derives an independent generator per row from
	// (seed, row index). Output does not depend on execution order, so rows
	// may be processed in parallel (see WithWorkers).
	RowStreams
)

// String implements fmt.Stringer.
func (m StreamMode) String() string {
	switch m {
	case SharedStream:
		return "shared"
	case RowStreams:
		return "rows"
	default:
		return fmt.Sprintf("StreamMode(%d)", int(m))
	}
}

// ParseStreamMode maps "shared" / "rows" (empty means shared).
func ParseStreamMode(s string) (StreamMode, error) {
	switch s {
	case "", "shared":
		return SharedStream, nil
	case "rows":
		return RowStreams, nil
	default:
		return 0, fmt.Errorf("rarefy: unknown stream mode %q", s)
	}
}

// Option customizes a Rarefy call.
type Option func(*config)

type config struct {
	mode      StreamMode
	workers   int
	dropBelow bool
}

func defaultConfig() config {
	return config{mode: SharedStream, workers: 1}
}

// WithStreams sets the stream layout. Panics on an unknown mode.
func WithStreams(m StreamMode) Option {
	if m != SharedStream && m != RowStreams {
		panic(fmt.Sprintf("rarefy: WithStreams(%d)", int(m)))
	}

	return func(c *config) { c.mode = m }
}

// WithWorkers bounds the number of rows rarefied concurrently. It only takes
// effect with RowStreams; SharedStream draws depend on row order and always
// run serially. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("rarefy: WithWorkers(%d)", n))
	}

	return func(c *config) { c.workers = n }
}

// WithDropBelowDepth removes rows whose total is below depth instead of
// zeroing them. The removed IDs are still listed in Report.BelowDepth.
func WithDropBelowDepth() Option {
	return func(c *config) { c.dropBelow = true }
}
