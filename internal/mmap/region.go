package mmap

// Region is a view into part of a Mapping. It does not own memory.
type Region struct {
	parent *Mapping
	offset int
	size   int
}

// Region returns the view [offset, offset+size) of the mapping.
func (m *Mapping) Region(offset, size int) (*Region, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if offset < 0 || size < 0 || offset > len(m.data)-size {
		return nil, ErrOutOfBounds
	}
	return &Region{parent: m, offset: offset, size: size}, nil
}

// Offset returns the region start within its mapping.
func (r *Region) Offset() int { return r.offset }

// Len returns the region length.
func (r *Region) Len() int { return r.size }

// Bytes returns the region's bytes, or nil once the parent is closed.
func (r *Region) Bytes() []byte {
	if r.parent.closed.Load() {
		return nil
	}
	return r.parent.data[r.offset : r.offset+r.size : r.offset+r.size]
}

// Advise passes an access hint for this region to the kernel.
func (r *Region) Advise(pattern AccessPattern) error {
	if r.parent.closed.Load() {
		return ErrClosed
	}
	if r.size == 0 {
		return nil
	}
	return osAdvise(r.parent.data[r.offset:r.offset+r.size], pattern)
}
