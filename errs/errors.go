// Package errs defines the sentinel errors returned across tagforge's
// packages, so callers can branch on failure kind with errors.Is instead of
// parsing messages.
package errs

import "errors"

// Tag Model errors (package tag).
var (
	ErrUnknownVariant    = errors.New("tagforge: unknown tag variant")
	ErrNotATag           = errors.New("tagforge: compound child is not a tag")
	ErrListTypeMismatch  = errors.New("tagforge: list element does not match declared element-variant")
	ErrNumericOutOfRange = errors.New("tagforge: numeric payload outside its variant's range")
	ErrStringTooLong     = errors.New("tagforge: string payload exceeds 65535 bytes")
)

// TBF codec errors (package tbf).
var (
	ErrTruncated        = errors.New("tagforge: truncated TBF stream")
	ErrInvalidString    = errors.New("tagforge: string bytes are not valid modified UTF-8")
	ErrInvalidTag       = errors.New("tagforge: invalid tag encoding")
	ErrUnexpectedEndTag = errors.New("tagforge: unexpected End tag")
)

// Path Editor errors (package path).
var (
	ErrInvalidPath      = errors.New("tagforge: invalid path")
	ErrIndexOutOfBounds = errors.New("tagforge: list index out of bounds")
	ErrTypeMismatch     = errors.New("tagforge: segment does not address the expected container type")
	ErrEmptyPath        = errors.New("tagforge: empty path")
)

// Region-Archive errors (package region).
var (
	ErrSectorOutOfRange  = errors.New("tagforge: sector offset out of range")
	ErrInvalidCompress   = errors.New("tagforge: invalid compression code")
	ErrCoordOutOfRange   = errors.New("tagforge: chunk coordinate out of range")
	ErrChunkNotPresent   = errors.New("tagforge: chunk slot is not populated")
	ErrArchiveClosed     = errors.New("tagforge: archive's byte source has been closed")
	ErrOverlappingSector = errors.New("tagforge: chunk blobs would overlap")
)

// STF / JSON codec errors (packages stf, jsonview).
var (
	ErrUnexpectedToken = errors.New("tagforge: unexpected token")
	ErrUnterminated    = errors.New("tagforge: unterminated literal")
	ErrUnknownTypeHint = errors.New("tagforge: unknown JSON type hint")
)

// ErrHashCollision signals that two distinct compound keys hashed to the
// same bucket; internal/keyindex falls back to a linear scan when this is
// merely a lookup concern, so this is only surfaced where a caller-visible
// decision is required.
var ErrHashCollision = errors.New("tagforge: key hash collision")
