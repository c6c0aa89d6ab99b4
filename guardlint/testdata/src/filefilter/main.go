// Package filefilter checks that test files are analyzed like any other.
package filefilter

import "github.com/mpyw/errctxguard"

func badNeverPopped(stack *errctxguard.Stack) {
	var node errctxguard.Node
	stack.Push(&node) // want `node "node" is pushed but never popped`
}
