package bitvector

import (
	"errors"
	"fmt"

	"github.com/hupe1980/succinct/internal/container"
)

var (
	// ErrTruncated is returned when an encoded bit vector ends early.
	ErrTruncated = errors.New("bitvector: truncated input")
	// ErrFormat is returned when an encoded bit vector is internally inconsistent.
	ErrFormat = errors.New("bitvector: invalid format")
	// ErrSizeMismatch is returned when a section length disagrees with the header.
	ErrSizeMismatch = errors.New("bitvector: size mismatch")
	// ErrOutOfRange is the panic value prefix for out-of-range positions.
	ErrOutOfRange = errors.New("bitvector: position out of range")
)

// FormatError reports which section of an encoded bit vector failed to decode.
type FormatError struct {
	Section string
	Offset  int64
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bitvector: section %q at offset %d: %v", e.Section, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func sectionError(section string, off int64, err error) error {
	if errors.Is(err, container.ErrTruncated) {
		err = fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return &FormatError{Section: section, Offset: off, Err: err}
}

func outOfRange(op string, i, limit uint64) string {
	return fmt.Sprintf("%v: %s(%d) with length %d", ErrOutOfRange, op, i, limit)
}
