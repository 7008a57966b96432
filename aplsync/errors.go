package aplsync

import (
	"errors"
)

// Error taxonomy for one sync attempt. Transport, format and pre-diff
// validation errors are fatal to a job; everything else is recorded in
// metrics and health instead of being returned.
var (
	// ErrUnsupportedFormat is returned when a declared format has no parser.
	// Distinct from a zero-record parse so operators can tell "format not
	// implemented" apart from "the source produced an empty file".
	ErrUnsupportedFormat = errors.New("unsupported data format")

	// ErrParseFailed is returned when the raw bytes cannot be decoded at all
	ErrParseFailed = errors.New("failed to parse source file")

	// ErrMissingCodeColumn is returned when no column mapping resolves the code field
	ErrMissingCodeColumn = errors.New("no column resolves the code field")

	// ErrBelowMinimumRecords is returned when the pre-diff record-count gate trips
	ErrBelowMinimumRecords = errors.New("parsed record count below configured minimum")

	// ErrTooManyRedirects is returned when a fetch exceeds the redirect hop limit
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrFetchFailed is returned on transport failures (timeout, non-2xx response)
	ErrFetchFailed = errors.New("failed to fetch source file")
)
