package trie

import (
	"errors"
	"fmt"

	"github.com/hupe1980/succinct/bitvector"
	"github.com/hupe1980/succinct/internal/container"
)

var (
	// ErrFormat is returned when an encoded trie is internally inconsistent.
	ErrFormat = errors.New("trie: invalid format")
	// ErrTruncated is returned when an encoded trie ends early.
	ErrTruncated = bitvector.ErrTruncated
	// ErrTooLarge is returned when the keys do not fit the bit vector limits.
	ErrTooLarge = errors.New("trie: key set too large")
)

// FormatError reports which part of an encoded trie failed to decode.
type FormatError struct {
	Section string
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("trie: section %q: %v", e.Section, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func sectionError(section string, err error) error {
	if errors.Is(err, container.ErrTruncated) && !errors.Is(err, ErrTruncated) {
		err = fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return &FormatError{Section: section, Err: err}
}

func formatErrorf(section, format string, args ...any) error {
	return &FormatError{Section: section, Err: fmt.Errorf("%w: "+format, append([]any{ErrFormat}, args...)...)}
}
