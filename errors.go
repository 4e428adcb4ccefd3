package succinct

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hupe1980/succinct/bitvector"
	"github.com/hupe1980/succinct/blobstore"
	"github.com/hupe1980/succinct/internal/mmap"
	"github.com/hupe1980/succinct/persistence"
	"github.com/hupe1980/succinct/resource"
	"github.com/hupe1980/succinct/trie"
)

var (
	// ErrNotFound is returned when a file or published dictionary does not exist.
	ErrNotFound = errors.New("succinct: not found")
	// ErrCorrupt is returned when stored bytes fail validation.
	ErrCorrupt = errors.New("succinct: corrupt dictionary")
	// ErrClosed is returned when using a closed dictionary or mapping.
	ErrClosed = errors.New("succinct: closed")
	// ErrOverBudget is returned when a dictionary does not fit the catalog
	// memory limit.
	ErrOverBudget = errors.New("succinct: memory budget exceeded")
)

// CorruptError reports which source failed validation.
//
// The underlying error is available via errors.Unwrap; errors.Is(err,
// ErrCorrupt) also holds.
type CorruptError struct {
	Source string
	cause  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("succinct: corrupt dictionary %s: %v", e.Source, e.cause)
}

func (e *CorruptError) Unwrap() []error { return []error{ErrCorrupt, e.cause} }

var corruptErrors = []error{
	persistence.ErrInvalidMagic,
	persistence.ErrInvalidVersion,
	persistence.ErrInvalidKind,
	persistence.ErrUnknownCompression,
	persistence.ErrTruncated,
	persistence.ErrSizeMismatch,
	persistence.ErrChecksum,
	bitvector.ErrFormat,
	bitvector.ErrTruncated,
	bitvector.ErrSizeMismatch,
	trie.ErrFormat,
}

// translateError maps lower-level errors to the package sentinels while
// keeping the original chain.
func translateError(source string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, blobstore.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, source, err)
	}
	if errors.Is(err, mmap.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	if errors.Is(err, resource.ErrOverBudget) {
		return fmt.Errorf("%w: %s: %w", ErrOverBudget, source, err)
	}
	for _, target := range corruptErrors {
		if errors.Is(err, target) {
			return &CorruptError{Source: source, cause: err}
		}
	}
	return err
}
