package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/succinct/internal/hash"
)

const (
	// Magic opens every envelope.
	Magic = "SDS1"
	// Version is the envelope format written by this package.
	Version uint16 = 1
	// HeaderSize is the fixed envelope header length.
	HeaderSize = 32
)

// Kind identifies the structure stored in an envelope.
type Kind uint8

const (
	KindBitVector Kind = iota + 1
	KindTrie
	KindWavelet
)

func (k Kind) String() string {
	switch k {
	case KindBitVector:
		return "bitvector"
	case KindTrie:
		return "trie"
	case KindWavelet:
		return "wavelet"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) valid() bool { return k >= KindBitVector && k <= KindWavelet }

// Flags are envelope feature bits.
type Flags uint32

// FlagChecksum marks the Checksum field as valid.
const FlagChecksum Flags = 1 << 0

// Header is the decoded envelope header.
type Header struct {
	Version     uint16
	Kind        Kind
	Compression Compression
	Flags       Flags
	Checksum    uint32
	StoredLen   uint64
	RawLen      uint64
}

// Size returns the full envelope length.
func (h Header) Size() uint64 { return HeaderSize + h.StoredLen }

// Expect fails unless the envelope holds kind.
func (h Header) Expect(kind Kind) error {
	if h.Kind != kind {
		return fmt.Errorf("%w: got %s, want %s", ErrInvalidKind, h.Kind, kind)
	}
	return nil
}

func (h Header) encode() [HeaderSize]byte {
	var b [HeaderSize]byte
	copy(b[0:4], Magic)
	binary.LittleEndian.PutUint16(b[4:6], h.Version)
	b[6] = byte(h.Kind)
	b[7] = byte(h.Compression)
	binary.LittleEndian.PutUint32(b[8:12], uint32(h.Flags))
	binary.LittleEndian.PutUint32(b[12:16], h.Checksum)
	binary.LittleEndian.PutUint64(b[16:24], h.StoredLen)
	binary.LittleEndian.PutUint64(b[24:32], h.RawLen)
	return b
}

// DecodeHeader parses and validates the header at the start of b.
func DecodeHeader(b []byte) (Header, error) {
	r := NewSliceReader(b)
	magic, err := r.ReadBytes(len(Magic))
	if err != nil {
		return Header{}, err
	}
	if string(magic) != Magic {
		return Header{}, fmt.Errorf("%w: got %q", ErrInvalidMagic, magic)
	}

	var h Header
	if h.Version, err = r.ReadUint16(); err != nil {
		return Header{}, err
	}
	kind, err := r.ReadUint8()
	if err != nil {
		return Header{}, err
	}
	comp, err := r.ReadUint8()
	if err != nil {
		return Header{}, err
	}
	h.Kind, h.Compression = Kind(kind), Compression(comp)
	flags, err := r.ReadUint32()
	if err != nil {
		return Header{}, err
	}
	h.Flags = Flags(flags)
	if h.Checksum, err = r.ReadUint32(); err != nil {
		return Header{}, err
	}
	if h.StoredLen, err = r.ReadUint64(); err != nil {
		return Header{}, err
	}
	if h.RawLen, err = r.ReadUint64(); err != nil {
		return Header{}, err
	}

	switch {
	case h.Version == 0 || h.Version > Version:
		return Header{}, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	case !h.Kind.valid():
		return Header{}, fmt.Errorf("%w: %d", ErrInvalidKind, kind)
	case !h.Compression.valid():
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownCompression, comp)
	case h.StoredLen > math.MaxInt-HeaderSize || h.RawLen > math.MaxInt:
		return Header{}, fmt.Errorf("%w: stored %d raw %d", ErrSizeMismatch, h.StoredLen, h.RawLen)
	case h.Compression == CompressionNone && h.StoredLen != h.RawLen:
		return Header{}, fmt.Errorf("%w: stored %d raw %d", ErrSizeMismatch, h.StoredLen, h.RawLen)
	}
	return h, nil
}

// Payload is a structure that can be framed in an envelope.
type Payload interface {
	io.WriterTo
	SizeInBytes() int64
}

// WriterOptions configure WriteEnvelope.
type WriterOptions struct {
	Compression Compression
	// Level is the zstd level; zero selects the library default.
	Level int
	// Checksum stores a CRC32C of the payload.
	Checksum bool
}

// WriteEnvelope serializes p and writes it to w in an envelope of the given
// kind. Compression falls back to none when it does not pay off.
func WriteEnvelope(w io.Writer, kind Kind, p Payload, opts WriterOptions) (int64, error) {
	if !kind.valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidKind, kind)
	}
	if !opts.Compression.valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCompression, opts.Compression)
	}

	var raw bytes.Buffer
	raw.Grow(int(p.SizeInBytes()))
	cw := NewChecksumWriter(&raw)
	if _, err := p.WriteTo(cw); err != nil {
		return 0, err
	}

	stored, comp, err := compress(opts.Compression, opts.Level, raw.Bytes())
	if err != nil {
		return 0, err
	}

	h := Header{
		Version:     Version,
		Kind:        kind,
		Compression: comp,
		StoredLen:   uint64(len(stored)),
		RawLen:      uint64(raw.Len()),
	}
	if opts.Checksum {
		h.Flags |= FlagChecksum
		if comp == CompressionNone {
			h.Checksum = cw.Sum()
		} else {
			h.Checksum = hash.CRC32C(stored)
		}
	}

	hdr := h.encode()
	n, err := w.Write(hdr[:])
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(stored)
	return int64(n + m), err
}

// ReadEnvelope reads one envelope from r, verifies it and returns the raw
// payload.
func ReadEnvelope(r io.Reader) (Header, []byte, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Header{}, nil, truncated(err)
	}
	h, err := DecodeHeader(hdr[:])
	if err != nil {
		return Header{}, nil, err
	}

	// Grow while reading so a corrupt length cannot force a huge allocation.
	var stored bytes.Buffer
	cr := NewChecksumReader(r)
	if _, err := io.CopyN(&stored, cr, int64(h.StoredLen)); err != nil {
		return Header{}, nil, truncated(err)
	}
	if h.Flags&FlagChecksum != 0 {
		if err := cr.Verify(h.Checksum); err != nil {
			return Header{}, nil, err
		}
	}

	raw, err := decompress(h, stored.Bytes())
	if err != nil {
		return Header{}, nil, err
	}
	return h, realign(raw), nil
}

// OpenEnvelope validates the envelope at the start of b. Uncompressed
// payloads are returned as a view into b; compressed ones are inflated
// into a new buffer. Bytes after the envelope are ignored.
func OpenEnvelope(b []byte) (Header, []byte, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return Header{}, nil, err
	}
	if uint64(len(b)-HeaderSize) < h.StoredLen {
		return Header{}, nil, fmt.Errorf("%w: payload needs %d bytes, %d available", ErrTruncated, h.StoredLen, len(b)-HeaderSize)
	}
	stored := b[HeaderSize : HeaderSize+int(h.StoredLen)]
	if h.Flags&FlagChecksum != 0 {
		if err := verify(h.Checksum, hash.CRC32C(stored)); err != nil {
			return Header{}, nil, err
		}
	}
	raw, err := decompress(h, stored)
	if err != nil {
		return Header{}, nil, err
	}
	return h, raw, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return err
}
