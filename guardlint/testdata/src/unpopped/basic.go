// Package unpopped contains fixtures for the pop discipline checks.
// This file covers daily patterns. See advanced.go for nesting, defer and
// control flow.
package unpopped

import (
	"fmt"

	"github.com/mpyw/errctxguard"
)

func callback(arg any) string {
	return fmt.Sprintf("during %v", arg)
}

// [BAD]: Early return skips the pop
func badEarlyReturn(stack *errctxguard.Stack, doIt bool) {
	var node errctxguard.Node
	node.Callback = callback
	stack.Push(&node)

	if !doIt {
		fmt.Println("not doing it")
		return // want `return leaves node "node" linked on the error context stack`
	}

	fmt.Println("did the thing")
	stack.PopIfTop(&node)
}

// [BAD]: Early return with a deferred Guard is still a leak
func badEarlyReturnGuarded(stack *errctxguard.Stack, doIt bool) {
	var node errctxguard.Node
	stack.Push(&node)
	defer stack.Guard(&node)

	if !doIt {
		return // want `return leaves node "node" linked on the error context stack`
	}

	stack.PopIfTop(&node)
}

// [GOOD]: Both branches fall through to the pop
func goodBranchesFallThrough(stack *errctxguard.Stack, doIt bool) {
	var node errctxguard.Node
	stack.Push(&node)

	if !doIt {
		fmt.Println("not doing it (correctly)")
	} else {
		fmt.Println("did the thing")
	}

	stack.PopIfTop(&node)
}

// [GOOD]: Pop before the early return
func goodPopBeforeReturn(stack *errctxguard.Stack, doIt bool) {
	var node errctxguard.Node
	stack.Push(&node)

	if !doIt {
		stack.PopIfTop(&node)
		return
	}

	stack.PopIfTop(&node)
}

// [GOOD]: Deferred pop covers every exit
func goodDeferredPop(stack *errctxguard.Stack, doIt bool) error {
	var node errctxguard.Node
	stack.Push(&node)
	defer stack.PopIfTop(&node)

	if !doIt {
		return fmt.Errorf("skipped")
	}

	return nil
}

// [BAD]: Never popped
func badNeverPopped(stack *errctxguard.Stack) {
	var node errctxguard.Node
	stack.Push(&node) // want `node "node" is pushed but never popped`

	fmt.Println("body")
}

// [BAD]: Pop of the previous entry does not cover the new push
func badFallsOffEnd(stack *errctxguard.Stack, prev, node *errctxguard.Node) {
	stack.PopIfTop(prev)
	stack.PopIfTop(node)
	stack.Push(node)
	fmt.Println("replaced")
} // want `function end leaves node "node" linked on the error context stack`

// [GOOD]: Pointer variable
func goodPointerNode(stack *errctxguard.Stack) {
	node := &errctxguard.Node{Callback: callback, Arg: "x"}
	stack.Push(node)
	fmt.Println("body")
	stack.PopIfTop(node)
}

// [GOOD]: Return value is the pop
func goodReturnThePop(stack *errctxguard.Stack) bool {
	var node errctxguard.Node
	stack.Push(&node)
	fmt.Println("body")
	return stack.PopIfTop(&node)
}

// [GOOD]: Push of a field is not tracked
type holder struct {
	node errctxguard.Node
}

func goodFieldNotTracked(stack *errctxguard.Stack, h *holder) {
	stack.Push(&h.node)
}

// [GOOD]: Ignore directive on the return
func goodIgnoredReturn(stack *errctxguard.Stack, doIt bool) {
	var node errctxguard.Node
	stack.Push(&node)

	if !doIt {
		//errctxguard:ignore unpopped - the caller unwinds the stack
		return
	}

	stack.PopIfTop(&node)
}

// [GOOD]: Ignore directive on the push with a reason
func goodIgnoredPush(stack *errctxguard.Stack) *errctxguard.Node {
	var node errctxguard.Node
	stack.Push(&node) //errctxguard:ignore - popped by the caller
	return &node
}

// [BAD]: Unused ignore directive
func badUnusedIgnore(stack *errctxguard.Stack) {
	var node errctxguard.Node
	//errctxguard:ignore // want `unused errctxguard:ignore directive`
	stack.Push(&node)
	stack.PopIfTop(&node)
}

// [BAD]: Ignore directive for a disabled checker
func badUnusedCheckerIgnore(stack *errctxguard.Stack) {
	var node errctxguard.Node
	//errctxguard:ignore unguarded // want `unused errctxguard:ignore directive for checker\(s\): unguarded`
	stack.Push(&node)
	stack.PopIfTop(&node)
}
