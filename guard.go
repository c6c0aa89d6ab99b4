package errctxguard

// Guard runs [Stack.CheckUnlinkedOnExit] for n. Use it with defer right
// after pushing n:
//
//	stack.Push(&node)
//	defer stack.Guard(&node)
//
// Guard only checks normal exits. When the function is panicking, Guard
// unlinks n without a report and lets the panic continue. It also does
// nothing while the abort signal is unwinding the unit of work; the unit
// boundary resets the stack in that case.
//
// Guard must be deferred directly, not called from another deferred function.
func (s *Stack) Guard(n *Node) {
	if r := recover(); r != nil {
		s.unwindPast(n)
		panic(r)
	}

	s.guard(n)
}

func (s *Stack) guard(n *Node) {
	if s.aborting {
		return
	}

	s.CheckUnlinkedOnExit(n)
}

// unwindPast drops n and everything above it without reporting.
func (s *Stack) unwindPast(n *Node) {
	if _, found := s.find(n); found {
		s.head = n.previous
	}
}
