package schema

import "errors"

// Hard failures propagate to the boundary and fail the request. Data-quality
// conditions never surface as errors; they become Diagnostics instead.
var (
	// ErrNotFound means the catalog root or a referenced site/category does
	// not exist. Surfaced to the caller, not retried.
	ErrNotFound = errors.New("not found")

	// ErrDataUnavailable means no loadable file matched a requested scope.
	// The assembler converts it into an empty-state diagnostic.
	ErrDataUnavailable = errors.New("no data available")
)
