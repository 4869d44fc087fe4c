// SPDX-License-Identifier: MIT

package normalize

import (
	"fmt"
	"math"
)

// DefaultPseudocount is added to every cell before the CLR logarithm.
const DefaultPseudocount = 1.0

// Option customizes CLR.
type Option func(*clrConfig)

type clrConfig struct {
	pseudocount float64
}

// WithPseudocount overrides the CLR pseudocount. p = 0 is valid for strictly
// positive tables. Panics when p is negative, NaN or infinite.
func WithPseudocount(p float64) Option {
	if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		panic(fmt.Sprintf("normalize: WithPseudocount(%v)", p))
	}

	return func(c *clrConfig) { c.pseudocount = p }
}
