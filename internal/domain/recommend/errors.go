package recommend

import "errors"

// Sentinel kinds for selector errors.
var (
	ErrInvalidLimit = errors.New("invalid recommendation limit")
)
