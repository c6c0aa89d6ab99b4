// Package errctxguard is a stub of the error context stack for analyzer tests.
package errctxguard

type Node struct {
	Callback func(arg any) string
	Arg      any
	previous *Node
}

type Stack struct {
	head *Node
}

func (s *Stack) Push(n *Node) {
	n.previous = s.head
	s.head = n
}

func (s *Stack) PopIfTop(n *Node) bool {
	if s.head != n {
		return false
	}
	s.head = n.previous
	return true
}

func (s *Stack) Guard(n *Node) {}

func (s *Stack) DebugGuard(n *Node) {}
