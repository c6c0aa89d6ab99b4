package errctxguard

import "iter"

// Stack is the head of an error context stack.
//
// The zero value is an empty stack that reports leaks by aborting.
// A Stack is not safe for concurrent use.
type Stack struct {
	head     *Node
	reporter Reporter
	aborting bool
}

// Option configures a Stack.
type Option func(*Stack)

// WithReporter sets the reporter that receives leak reports.
func WithReporter(r Reporter) Option {
	return func(s *Stack) {
		s.reporter = r
	}
}

// NewStack returns an empty stack.
func NewStack(opts ...Option) *Stack {
	s := &Stack{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Push links n as the new head.
// n must stay valid until it is popped.
func (s *Stack) Push(n *Node) {
	n.previous = s.head
	s.head = n
}

// PopIfTop unlinks n if it is the head and reports whether it did.
// The stack is left untouched otherwise.
func (s *Stack) PopIfTop(n *Node) bool {
	if s.head != n || n == nil {
		return false
	}

	s.head = n.previous

	return true
}

// Head returns the most recently pushed entry that is still linked.
func (s *Stack) Head() *Node {
	return s.head
}

// Empty reports whether no entry is linked.
func (s *Stack) Empty() bool {
	return s.head == nil
}

// Depth returns the number of linked entries.
func (s *Stack) Depth() int {
	depth := 0
	for n := s.head; n != nil; n = n.previous {
		depth++
	}

	return depth
}

// Contains reports whether n is reachable from the head.
func (s *Stack) Contains(n *Node) bool {
	_, found := s.find(n)
	return found
}

// All yields the linked entries from the head down.
func (s *Stack) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := s.head; n != nil; n = n.previous {
			if !yield(n) {
				return
			}
		}
	}
}

// Reset drops every entry. Only the owner of the unit of work calls it.
func (s *Stack) Reset() {
	s.head = nil
	s.aborting = false
}

// Aborting reports whether the abort signal is unwinding the unit of work.
func (s *Stack) Aborting() bool {
	return s.aborting
}

// find returns the position of n counted from the head.
func (s *Stack) find(n *Node) (int, bool) {
	if n == nil {
		return 0, false
	}

	pos := 0
	for cur := s.head; cur != nil; cur = cur.previous {
		if cur == n {
			return pos, true
		}
		pos++
	}

	return 0, false
}
