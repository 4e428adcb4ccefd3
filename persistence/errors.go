package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMagic is returned when the header does not start with "SDS1".
	ErrInvalidMagic = errors.New("persistence: invalid magic number")
	// ErrInvalidVersion is returned for envelopes written by a newer format.
	ErrInvalidVersion = errors.New("persistence: unsupported version")
	// ErrInvalidKind is returned for an unknown or unexpected payload kind.
	ErrInvalidKind = errors.New("persistence: invalid payload kind")
	// ErrUnknownCompression is returned for an unknown compression id.
	ErrUnknownCompression = errors.New("persistence: unknown compression")
	// ErrTruncated is returned when the input ends inside the envelope.
	ErrTruncated = errors.New("persistence: truncated envelope")
	// ErrSizeMismatch is returned when a decompressed payload does not have
	// the recorded raw length.
	ErrSizeMismatch = errors.New("persistence: payload size mismatch")
	// ErrChecksum matches every *ChecksumMismatchError via errors.Is.
	ErrChecksum = errors.New("persistence: checksum mismatch")
)

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("persistence: checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Unwrap returns ErrChecksum.
func (e *ChecksumMismatchError) Unwrap() error { return ErrChecksum }

// IsChecksumMismatch reports whether err wraps a checksum failure.
func IsChecksumMismatch(err error) bool {
	var target *ChecksumMismatchError
	return errors.As(err, &target)
}
