// Package popfuncs contains fixtures for -pop-funcs.
package popfuncs

import (
	"fmt"

	"github.com/mpyw/errctxguard"
)

func release(stack *errctxguard.Stack, node *errctxguard.Node) {
	stack.PopIfTop(node)
}

// Scope wraps a stack.
type Scope struct {
	stack *errctxguard.Stack
}

func (s *Scope) Close(node *errctxguard.Node) {
	s.stack.PopIfTop(node)
}

// releaseFirst pops through the node passed first.
func releaseFirst(node *errctxguard.Node, stack *errctxguard.Stack) {
	stack.PopIfTop(node)
}

// [GOOD]: Pop through a configured function
func goodReleaseFunc(stack *errctxguard.Stack, doIt bool) {
	var node errctxguard.Node
	stack.Push(&node)
	if !doIt {
		releaseFirst(&node, stack)
		return
	}
	releaseFirst(&node, stack)
}

// [GOOD]: Deferred configured method
func goodDeferredMethod(s *Scope, doIt bool) {
	var node errctxguard.Node
	s.stack.Push(&node)
	defer s.Close(&node)
	if !doIt {
		return
	}
	fmt.Println("did the thing")
}

// [BAD]: Function not configured as a pop
func badUnconfigured(stack *errctxguard.Stack) {
	var node errctxguard.Node
	stack.Push(&node) // want `node "node" is pushed but never popped`
	release(stack, &node)
}
