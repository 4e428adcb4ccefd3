package container

// Source describes where a Vector's elements live.
type Source interface {
	// Owned reports whether the elements are held in a Go-allocated slice.
	Owned() bool
	source()
}

// OwnedSource marks a Vector backed by memory it allocated itself.
type OwnedSource struct{}

// Owned implements Source.
func (OwnedSource) Owned() bool { return true }
func (OwnedSource) source()     {}

// BorrowedSource marks a Vector aliasing an external byte region.
//
// Region is the exact byte range the elements alias. The caller that supplied
// it remains responsible for keeping it alive.
type BorrowedSource struct {
	Region []byte
}

// Owned implements Source.
func (BorrowedSource) Owned() bool { return false }
func (BorrowedSource) source()     {}
