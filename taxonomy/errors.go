// SPDX-License-Identifier: MIT

package taxonomy

import "errors"

// ErrUnknownRank indicates a rank name that is not one of the seven levels.
var ErrUnknownRank = errors.New("taxonomy: unknown rank")
