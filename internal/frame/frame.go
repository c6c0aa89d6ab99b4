// Package frame models scope-bound storage for error context stack entries.
//
// Go keeps any escaping variable alive, so a node declared in a function
// never really dangles. A [Frame] hands out node slots in stack order and
// reuses them once the owning [Scope] is left, which makes a node that is
// still linked after its scope ended observable: its slot is overwritten by
// the next scope or by [Frame.Clobber].
package frame

import (
	"fmt"

	"github.com/mpyw/errctxguard"
)

// ClobberedError is raised when a callback stored in reclaimed storage runs.
type ClobberedError struct {
	Pattern byte
}

func (e *ClobberedError) Error() string {
	return fmt.Sprintf("context callback invoked on reclaimed storage (filled with %#02x)", e.Pattern)
}

type slot struct {
	node errctxguard.Node
}

// Frame is a stack of reusable node slots with a padding area.
// A Frame is not safe for concurrent use.
type Frame struct {
	slots   []*slot
	top     int
	padding []byte
}

// New returns a frame with a padding area of the given size.
func New(padding int) *Frame {
	return &Frame{padding: make([]byte, padding)}
}

// Scope owns the slots allocated since it was entered.
type Scope struct {
	f    *Frame
	base int
}

// Enter opens a scope on top of the frame.
func (f *Frame) Enter() *Scope {
	return &Scope{f: f, base: f.top}
}

// Node allocates a zeroed node slot in the scope.
func (s *Scope) Node() *errctxguard.Node {
	f := s.f
	if f.top == len(f.slots) {
		f.slots = append(f.slots, &slot{})
	}

	sl := f.slots[f.top]
	*sl = slot{}
	f.top++

	return &sl.node
}

// Leave releases every slot allocated in the scope. Slots keep their
// contents until reused or clobbered.
func (s *Scope) Leave() {
	s.f.top = s.base
}

// InUse returns the number of allocated slots.
func (f *Frame) InUse() int {
	return f.top
}

// Released reports whether n lives in a slot that has been released.
func (f *Frame) Released(n *errctxguard.Node) bool {
	for i := f.top; i < len(f.slots); i++ {
		if &f.slots[i].node == n {
			return true
		}
	}

	return false
}

// Pad fills the padding area.
func (f *Frame) Pad(fill byte) {
	for i := range f.padding {
		f.padding[i] = fill
	}
}

// Padding returns the padding area.
func (f *Frame) Padding() []byte {
	return f.padding
}

// Clobber overwrites the padding and every released slot with pattern.
// A clobbered node has no previous entry and a callback that panics with
// [*ClobberedError].
func (f *Frame) Clobber(pattern byte) {
	f.Pad(pattern)

	for i := f.top; i < len(f.slots); i++ {
		n := &f.slots[i].node
		n.Unlink()
		n.Arg = pattern
		n.Callback = func(any) string {
			panic(&ClobberedError{Pattern: pattern})
		}
	}
}
