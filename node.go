package errctxguard

// Callback produces one CONTEXT line for the node it is attached to.
type Callback func(arg any) string

// Node is an entry of the error context stack.
//
// Nodes are identified by address. A node must stay valid for as long as it
// is reachable from a [Stack].
type Node struct {
	Callback Callback
	Arg      any

	previous *Node
}

// Previous returns the entry that was the head when n was pushed.
func (n *Node) Previous() *Node {
	return n.previous
}

// Unlink clears the link to the previous entry.
// Storage managers call it when they reclaim a node.
func (n *Node) Unlink() {
	n.previous = nil
}
