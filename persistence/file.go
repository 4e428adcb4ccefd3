package persistence

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/succinct/internal/fs"
)

const fileBufferSize = 256 * 1024

// SaveToFile writes filename atomically: writeFunc fills a temporary file
// in the same directory, which is synced and renamed over the target.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	return SaveToFileFS(fs.Default, filename, writeFunc)
}

// SaveToFileFS is SaveToFile on fsys.
func SaveToFileFS(fsys fs.FileSystem, filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)

	tmp, err := fsys.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = fsys.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0o644)

	buf := bufio.NewWriterSize(tmp, fileBufferSize)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fsys.Rename(tmpName, filename); err != nil {
		return err
	}
	tmpName = ""

	// Make the rename durable on POSIX.
	return fsys.SyncDir(dir)
}

// SaveEnvelope writes p to filename atomically.
func SaveEnvelope(filename string, kind Kind, p Payload, opts WriterOptions) error {
	return SaveToFile(filename, func(w io.Writer) error {
		_, err := WriteEnvelope(w, kind, p, opts)
		return err
	})
}

// LoadFromFile opens filename and passes a buffered reader to readFunc.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return readFunc(bufio.NewReaderSize(f, fileBufferSize))
}

// ReadFile reads the envelope stored in filename.
func ReadFile(filename string) (Header, []byte, error) {
	var (
		h   Header
		raw []byte
	)
	err := LoadFromFile(filename, func(r io.Reader) error {
		var err error
		h, raw, err = ReadEnvelope(r)
		return err
	})
	return h, raw, err
}
