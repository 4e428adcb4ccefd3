package succinct

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/hupe1980/succinct/internal/mmap"
	"github.com/hupe1980/succinct/persistence"
	"github.com/hupe1980/succinct/resource"
	"github.com/hupe1980/succinct/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not exist", fmt.Errorf("open: %w", fs.ErrNotExist), ErrNotFound},
		{"mapping closed", mmap.ErrClosed, ErrClosed},
		{"over budget", resource.ErrOverBudget, ErrOverBudget},
		{"checksum", &persistence.ChecksumMismatchError{Expected: 1, Actual: 2}, ErrCorrupt},
		{"magic", persistence.ErrInvalidMagic, ErrCorrupt},
		{"trie format", fmt.Errorf("louds: %w", trie.ErrFormat), ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError("src", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err, "original chain is kept")
		})
	}

	assert.NoError(t, translateError("src", nil))
	other := errors.New("other")
	assert.Same(t, other, translateError("src", other))
}

func TestCorruptError(t *testing.T) {
	err := translateError("words.sds", persistence.ErrTruncated)

	var ce *CorruptError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "words.sds", ce.Source)
	assert.Contains(t, err.Error(), "words.sds")
	assert.True(t, persistence.IsChecksumMismatch(translateError("x", &persistence.ChecksumMismatchError{})))
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	d, err := Build([]string{"x", "y"}, WithLogger(logger.WithName("letters")))
	require.NoError(t, err)
	defer d.Close()
	d.Lookup("x")

	dec := json.NewDecoder(&buf)
	var records []map[string]any
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}

	require.NotEmpty(t, records)
	var sawBuild, sawQuery bool
	for _, rec := range records {
		assert.Equal(t, "letters", rec["name"])
		switch rec["op"] {
		case OpLookup:
			sawQuery = true
			assert.Equal(t, 1.0, rec["results"])
		}
		if keys, ok := rec["keys"]; ok {
			sawBuild = true
			assert.Equal(t, 2.0, keys)
		}
	}
	assert.True(t, sawBuild)
	assert.True(t, sawQuery)
}
