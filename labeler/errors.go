// SPDX-License-Identifier: MIT

package labeler

import "errors"

var (
	// ErrInvalidRank indicates a rank outside Kingdom..Species.
	ErrInvalidRank = errors.New("labeler: invalid rank")

	// ErrNilResolver indicates that no taxonomy resolver was supplied.
	ErrNilResolver = errors.New("labeler: nil resolver")
)
