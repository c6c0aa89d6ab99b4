// Package scope collects the error context stack operations of each function.
//
// # Overview
//
// A function has a push scope when its body calls Stack.Push with a node
// held in a local variable:
//
//	func handler(stack *errctxguard.Stack) {
//	    var node errctxguard.Node
//	    stack.Push(&node)          // Push{Name: "node"}
//	    defer stack.Guard(&node)   // DeferredGuards["node"]
//	    ...
//	    stack.PopIfTop(&node)      // Pop{Name: "node"}
//	}
//
// Both &node with a Node value and node with a *Node are recognized.
//
// # Deferred Operations
//
// Deferred calls are recorded separately because they run on every exit
// path. A deferred function literal counts when its body makes the call:
//
//	defer func() {
//	    stack.PopIfTop(&node)      // DeferredPops["node"]
//	}()
//
// # Nested Functions
//
// Function literals are scopes of their own. Operations inside a nested
// literal belong to the literal, except the deferred literal above:
//
//	func outer(stack *errctxguard.Stack) {
//	    stack.Push(&a)             // outer
//	    run(func() {
//	        stack.PopIfTop(&a)     // the literal, not outer
//	    })
//	}
//
// # Finding Enclosing Scope
//
// [FindEnclosing] returns the innermost function on an inspector stack:
//
//	insp.WithStack(filter, func(n ast.Node, push bool, stack []ast.Node) bool {
//	    fn, sc := scope.FindEnclosing(scopes, stack)
//	    ...
//	})
package scope
