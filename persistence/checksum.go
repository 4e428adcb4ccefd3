package persistence

import (
	"hash"
	"io"

	ihash "github.com/hupe1980/succinct/internal/hash"
)

// ChecksumWriter forwards writes and keeps a running CRC32C of them.
type ChecksumWriter struct {
	w    io.Writer
	hash hash.Hash32
	n    int64
}

// NewChecksumWriter wraps w.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{w: w, hash: ihash.NewCRC32C()}
}

// Write implements io.Writer.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	_, _ = cw.hash.Write(p[:n])
	cw.n += int64(n)
	return n, err
}

// Sum returns the checksum of everything written so far.
func (cw *ChecksumWriter) Sum() uint32 { return cw.hash.Sum32() }

// Written returns the number of bytes forwarded.
func (cw *ChecksumWriter) Written() int64 { return cw.n }

// ChecksumReader forwards reads and keeps a running CRC32C of them.
type ChecksumReader struct {
	r    io.Reader
	hash hash.Hash32
}

// NewChecksumReader wraps r.
func NewChecksumReader(r io.Reader) *ChecksumReader {
	return &ChecksumReader{r: r, hash: ihash.NewCRC32C()}
}

// Read implements io.Reader.
func (cr *ChecksumReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		_, _ = cr.hash.Write(p[:n])
	}
	return n, err
}

// Sum returns the checksum of everything read so far.
func (cr *ChecksumReader) Sum() uint32 { return cr.hash.Sum32() }

// Verify compares the running checksum with expected.
func (cr *ChecksumReader) Verify(expected uint32) error {
	return verify(expected, cr.Sum())
}

func verify(expected, actual uint32) error {
	if expected != actual {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
