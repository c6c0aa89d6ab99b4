// Package errctxguard guards a per-unit-of-work error context stack against
// entries that outlive the scope that pushed them.
//
// # Overview
//
// An error context stack is an intrusive singly-linked list: every [Node]
// carries its own link to the entry that was on top when it was pushed, and
// the [Stack] only holds the head. Callers push a node that lives in their
// own scope, do some work, and pop it again before the scope ends:
//
//	var node errctxguard.Node
//	node.Callback = describe
//	node.Arg = &info
//	stack.Push(&node)
//	defer stack.PopIfTop(&node)
//
// A caller that returns early without popping leaves the head pointing at a
// node whose storage is about to be reused. Anything that later walks the
// stack (the error reporter does, to collect CONTEXT lines) then reads a
// dangling entry far away from the defect.
//
// # Guards
//
// [Stack.Guard] turns that latent defect into an immediate failure at the
// scope that caused it:
//
//	stack.Push(&node)
//	defer stack.Guard(&node)
//
// At scope exit the guard walks the chain. If the node is still reachable the
// head is repaired to the entry below it, and a [*LeakError] is reported. The
// default [Reporter] raises the abort signal, which unwinds the current unit
// of work and is recovered by [Run].
//
// Guards are optional. [DebugGuard] compiles to nothing unless the
// errctxdebug build tag is set.
//
// # Units of Work
//
// A stack belongs to one unit of work and is used by one sequential control
// flow. [Run] establishes the boundary:
//
//	err := errctxguard.Run(ctx, func(ctx context.Context) error {
//	    stack := errctxguard.FromContext(ctx)
//	    ...
//	})
//
// The boundary recovers [*AbortError], resets the stack to empty on every
// exit, and reports [ErrUnbalanced] when the unit returned normally with
// entries still linked.
package errctxguard
