package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	lfs := LocalFS{}

	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	f, err := lfs.CreateTemp(dir, "dict.tmp-*")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Chmod(0o644))
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	target := filepath.Join(dir, "dict.sds")
	require.NoError(t, lfs.Rename(f.Name(), target))
	require.NoError(t, lfs.SyncDir(dir))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, lfs.Remove(target))
	_, err = os.Stat(target)
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Error(t, lfs.SyncDir(filepath.Join(dir, "missing")))
}

func TestFaultyFS(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")

	tests := []struct {
		name  string
		fault Fault
		run   func(t *testing.T, ffs *FaultyFS, f File) error
	}{
		{
			name:  "write limit",
			fault: Fault{FailAfterBytes: 4},
			run: func(t *testing.T, _ *FaultyFS, f File) error {
				_, err := f.Write([]byte("abc"))
				require.NoError(t, err)
				_, err = f.Write([]byte("de"))
				return err
			},
		},
		{
			name:  "sync",
			fault: Fault{FailAfterBytes: -1, FailOnSync: true, Err: boom},
			run: func(_ *testing.T, _ *FaultyFS, f File) error {
				return f.Sync()
			},
		},
		{
			name:  "close",
			fault: Fault{FailAfterBytes: -1, FailOnClose: true},
			run: func(_ *testing.T, _ *FaultyFS, f File) error {
				return f.Close()
			},
		},
		{
			name:  "rename",
			fault: Fault{FailAfterBytes: -1, FailOnRename: true},
			run: func(_ *testing.T, ffs *FaultyFS, f File) error {
				_ = f.Close()
				return ffs.Rename(f.Name(), filepath.Join(dir, "rename-target"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ffs := NewFaultyFS(nil)
			ffs.AddRule(tt.name, tt.fault)

			f, err := ffs.CreateTemp(dir, tt.name+"-*")
			require.NoError(t, err)
			defer f.Close()

			err = tt.run(t, ffs, f)
			require.Error(t, err)
			if tt.fault.Err != nil {
				assert.ErrorIs(t, err, tt.fault.Err)
			} else {
				assert.ErrorIs(t, err, ErrInjected)
			}
		})
	}
}

func TestFaultyFSPassThrough(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("other", Fault{FailOnSync: true})

	f, err := ffs.CreateTemp(dir, "clean-*")
	require.NoError(t, err)
	_, err = f.Write([]byte("12345678"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	assert.Equal(t, int64(8), ffs.Written())
	require.NoError(t, ffs.Rename(f.Name(), filepath.Join(dir, "final")))
	require.NoError(t, ffs.SyncDir(dir))
}
