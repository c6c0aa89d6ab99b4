package filefilter

import "github.com/mpyw/errctxguard"

func badNeverPoppedInTest(stack *errctxguard.Stack) {
	var node errctxguard.Node
	stack.Push(&node) // want `node "node" is pushed but never popped`
}
