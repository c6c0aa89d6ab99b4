//go:build errctxdebug

package errctxguard

// DebugGuardsEnabled reports whether [Stack.DebugGuard] checks anything.
const DebugGuardsEnabled = true

// DebugGuard is [Stack.Guard] in builds with the errctxdebug tag.
func (s *Stack) DebugGuard(n *Node) {
	if r := recover(); r != nil {
		s.unwindPast(n)
		panic(r)
	}

	s.guard(n)
}
