//go:build !errctxdebug

package errctxguard

// DebugGuardsEnabled reports whether [Stack.DebugGuard] checks anything.
const DebugGuardsEnabled = false

// DebugGuard is a no-op unless built with the errctxdebug tag.
func (s *Stack) DebugGuard(*Node) {}
