// Package requireguard contains fixtures for -require-guard.
package requireguard

import (
	"fmt"

	"github.com/mpyw/errctxguard"
)

// [BAD]: Balanced but unguarded
func badUnguarded(stack *errctxguard.Stack) {
	var node errctxguard.Node
	stack.Push(&node) // want `node "node" has no deferred Guard`
	fmt.Println("body")
	stack.PopIfTop(&node)
}

// [GOOD]: Deferred Guard
func goodGuarded(stack *errctxguard.Stack) {
	var node errctxguard.Node
	stack.Push(&node)
	defer stack.Guard(&node)
	fmt.Println("body")
	stack.PopIfTop(&node)
}

// [GOOD]: Deferred DebugGuard in a closure
func goodDebugGuarded(stack *errctxguard.Stack) {
	var node errctxguard.Node
	stack.Push(&node)
	defer func() {
		stack.DebugGuard(&node)
	}()
	stack.PopIfTop(&node)
}

// [BAD]: Guard that is not deferred
func badGuardNotDeferred(stack *errctxguard.Stack) {
	var node errctxguard.Node
	stack.Push(&node) // want `node "node" has no deferred Guard`
	stack.PopIfTop(&node)
	stack.Guard(&node)
}

// [GOOD]: Ignored for the guard checker only
func goodIgnoredUnguarded(stack *errctxguard.Stack) {
	var node errctxguard.Node
	//errctxguard:ignore unguarded
	stack.Push(&node)
	stack.PopIfTop(&node)
}
