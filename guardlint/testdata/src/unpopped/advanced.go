package unpopped

import (
	"errors"
	"fmt"

	"github.com/mpyw/errctxguard"
)

var errSkipped = errors.New("skipped")

// ===== DEFER PATTERNS =====

// [GOOD]: Pop in a deferred closure
func goodDeferredClosurePop(stack *errctxguard.Stack, doIt bool) error {
	var node errctxguard.Node
	stack.Push(&node)
	defer func() {
		if !stack.PopIfTop(&node) {
			fmt.Println("not on top")
		}
	}()

	if !doIt {
		return errSkipped
	}

	return nil
}

// [BAD]: Deferred DebugGuard does not pop
func badDeferredDebugGuard(stack *errctxguard.Stack, doIt bool) error {
	var node errctxguard.Node
	stack.Push(&node)
	defer stack.DebugGuard(&node)

	if !doIt {
		return errSkipped // want `return leaves node "node" linked on the error context stack`
	}

	stack.PopIfTop(&node)
	return nil
}

// ===== NESTED FUNCTIONS =====

// [GOOD]: Returns inside a closure belong to the closure
func goodClosureReturn(stack *errctxguard.Stack, items []int) {
	var node errctxguard.Node
	stack.Push(&node)

	each := func(i int) {
		if i < 0 {
			return
		}
		fmt.Println(i)
	}
	for _, i := range items {
		each(i)
	}

	stack.PopIfTop(&node)
}

// [BAD]: Closure pushes and returns early
func badClosurePush(stack *errctxguard.Stack) func(bool) {
	return func(doIt bool) {
		var node errctxguard.Node
		stack.Push(&node)
		if !doIt {
			return // want `return leaves node "node" linked on the error context stack`
		}
		stack.PopIfTop(&node)
	}
}

// [BAD]: A pop inside a nested closure does not count for the outer function
func badPopInClosure(stack *errctxguard.Stack, run func(func())) {
	var node errctxguard.Node
	stack.Push(&node) // want `node "node" is pushed but never popped`
	run(func() {
		stack.PopIfTop(&node)
	})
}

// ===== CONTROL FLOW =====

// [BAD]: Return inside a switch case
func badSwitchReturn(stack *errctxguard.Stack, mode int) error {
	var node errctxguard.Node
	stack.Push(&node)

	switch mode {
	case 0:
		return errSkipped // want `return leaves node "node" linked on the error context stack`
	case 1:
		stack.PopIfTop(&node)
		return nil
	}

	stack.PopIfTop(&node)
	return nil
}

// [BAD]: Return inside a loop
func badLoopReturn(stack *errctxguard.Stack, items []int) {
	for _, i := range items {
		var node errctxguard.Node
		stack.Push(&node)
		if i < 0 {
			return // want `return leaves node "node" linked on the error context stack`
		}
		stack.PopIfTop(&node)
	}
}

// [GOOD]: Return before the push
func goodReturnBeforePush(stack *errctxguard.Stack, doIt bool) {
	if !doIt {
		return
	}

	var node errctxguard.Node
	stack.Push(&node)
	fmt.Println("did the thing")
	stack.PopIfTop(&node)
}

// [GOOD]: Panic at the end is not a fall-through
func goodEndsInPanic(stack *errctxguard.Stack, doIt bool) {
	var node errctxguard.Node
	stack.Push(&node)
	if doIt {
		stack.PopIfTop(&node)
		return
	}
	panic("unreachable")
}

// [BAD]: Two nodes, only the inner one popped on the early path
func badTwoNodes(stack *errctxguard.Stack, doIt bool) {
	var outer, inner errctxguard.Node
	stack.Push(&outer)
	stack.Push(&inner)

	if !doIt {
		stack.PopIfTop(&inner)
		return // want `return leaves node "outer" linked on the error context stack`
	}

	stack.PopIfTop(&inner)
	stack.PopIfTop(&outer)
}
