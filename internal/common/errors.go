package common

import "errors"

// Sentinel errors shared across layers; match them with errors.Is.
var (
	// ErrFormat marks bytes that cannot be parsed: a short blob, broken JSON
	// or a damaged archive.
	ErrFormat = errors.New("malformed data")

	// Selection errors raised before any work is done.
	ErrNothingSelected = errors.New("nothing selected")
	ErrIndexOutOfRange = errors.New("index out of range")
)
