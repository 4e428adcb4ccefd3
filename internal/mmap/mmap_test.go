package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blob.sds")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenReadAt(t *testing.T) {
	content := []byte("louds:terminal:tail")
	m, err := Open(writeFile(t, content))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())
	assert.Zero(t, uintptr(unsafe.Pointer(&m.Bytes()[0]))%8, "mapping must be word aligned")

	tests := []struct {
		name    string
		off     int64
		buf     int
		want    string
		wantErr error
	}{
		{"inside", 6, 8, "terminal", nil},
		{"partial", 15, 10, "tail", io.EOF},
		{"past end", 100, 4, "", io.EOF},
		{"negative", -1, 4, "", ErrInvalidOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.buf)
			n, err := m.ReadAt(buf, tt.off)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, string(buf[:n]))
		})
	}
}

func TestEmptyFile(t *testing.T) {
	m, err := Open(writeFile(t, nil))
	require.NoError(t, err)
	assert.Zero(t, m.Size())
	assert.Empty(t, m.Bytes())
	assert.NoError(t, m.Advise(AccessRandom))
	require.NoError(t, m.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegion(t *testing.T) {
	m, err := Open(writeFile(t, make([]byte, 1024)))
	require.NoError(t, err)

	require.NoError(t, m.Advise(AccessRandom))

	r, err := m.Region(100, 200)
	require.NoError(t, err)
	assert.Len(t, r.Bytes(), 200)
	assert.Equal(t, 100, r.Offset())
	assert.Equal(t, 200, r.Len())
	require.NoError(t, r.Advise(AccessSequential))

	for _, bad := range [][2]int{{-1, 0}, {0, -1}, {1000, 25}, {1025, 0}} {
		_, err := m.Region(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "region %v", bad)
	}

	empty, err := m.Region(1024, 0)
	require.NoError(t, err)
	assert.Empty(t, empty.Bytes())

	require.NoError(t, m.Close())
	assert.Nil(t, r.Bytes())
	assert.ErrorIs(t, r.Advise(AccessDefault), ErrClosed)
}

func TestAfterClose(t *testing.T) {
	m, err := Open(writeFile(t, []byte("data")))
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.True(t, m.Closed())
	assert.Nil(t, m.Bytes())
	assert.Zero(t, m.Size())
	assert.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
	_, err = m.Region(0, 1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestAccessPatternString(t *testing.T) {
	assert.Equal(t, "random", AccessRandom.String())
	assert.Equal(t, "default", AccessPattern(42).String())
}
