package stf

import (
	"fmt"
)

// ParseError reports a failure parsing STF text, with the byte offset into
// the source where the failure was detected (spec.md §4.E: "ParseError{
// position, message } with byte position in STF").
type ParseError struct {
	Position int
	Message  string
	cause    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tagforge: stf parse error at byte %d: %s", e.Position, e.Message)
}

func (e *ParseError) Unwrap() error { return e.cause }
