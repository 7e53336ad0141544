package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrMissingHeader = errors.New("csv header missing")
	ErrRead          = errors.New("read source failed")
)
