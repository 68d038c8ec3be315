package quantity

import "errors"

// ErrZeroSeparation indicates a direction was requested between two
// coincident points.
var ErrZeroSeparation = errors.New("quantity: zero separation between points")
