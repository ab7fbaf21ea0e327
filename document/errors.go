package document

import "errors"

// Addressing errors
var (
	// ErrInvalidPath indicates that a path does not resolve to an existing node
	// of the kind the operation needs.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidRange indicates that a range start is not strictly before its
	// end in document order, or that an offset lies outside its paragraph.
	ErrInvalidRange = errors.New("invalid range")
)

// Content errors
var (
	// ErrInvalidText indicates that inserted text contains a line break.
	// Line breaks are structure and must go through SplitBlock.
	ErrInvalidText = errors.New("text contains a line break")
)
