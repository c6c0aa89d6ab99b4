package host

import (
	"context"
	"fmt"
	"slices"

	"github.com/mpyw/errctxguard"
	"github.com/mpyw/errctxguard/internal/elog"
)

// Variant selectors.
const (
	Simple           = "simple"
	ErrcontextBuggy  = "errcontext_buggy"
	ErrcontextFixed  = "errcontext_fixed"
	ErrcontextDetect = "errcontext_detect"
)

type variantFunc func(c *call, ctx context.Context, doIt bool)

var variants = map[string]variantFunc{
	Simple:           (*call).myFunc,
	ErrcontextBuggy:  (*call).myFuncWithErrcontextBuggy,
	ErrcontextFixed:  (*call).myFuncWithErrcontextFixed,
	ErrcontextDetect: (*call).myFuncWithErrcontextDetect,
}

// Variants returns the known selectors in sorted order.
func Variants() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

type myFuncCtxArg struct {
	doIt bool
}

func myFuncCtxCallback(arg any) string {
	a := arg.(*myFuncCtxArg)
	return fmt.Sprintf("during my_func(do_it=%t)", a.doIt)
}

func (c *call) doTheThing(ctx context.Context) {
	c.reporter.Report(ctx, elog.Info, "did the thing")
}

func (c *call) myFunc(ctx context.Context, doIt bool) {
	if !doIt {
		c.reporter.Report(ctx, elog.Warning, "not doing it!")
		return
	}

	c.doTheThing(ctx)
}

// pushContext allocates an entry in a new scope of the call's frame and
// links it. The caller must defer leave.
func (c *call) pushContext(ctx context.Context, doIt bool) (node *errctxguard.Node, leave func()) {
	sc := c.frame.Enter()
	node = sc.Node()
	node.Callback = myFuncCtxCallback
	node.Arg = &myFuncCtxArg{doIt: doIt}

	errctxguard.FromContext(ctx).Push(node) //errctxguard:ignore unpopped - the variant pops it

	return node, sc.Leave
}

// myFuncWithErrcontextBuggy returns early without unlinking its entry.
func (c *call) myFuncWithErrcontextBuggy(ctx context.Context, doIt bool) {
	stack := errctxguard.FromContext(ctx)
	node, leave := c.pushContext(ctx, doIt)
	defer leave()
	if c.guard {
		defer stack.Guard(node)
	}

	if !doIt {
		c.leakContext(ctx, stack)
		return
	}

	c.doTheThing(ctx)

	stack.PopIfTop(node)
}

func (c *call) myFuncWithErrcontextFixed(ctx context.Context, doIt bool) {
	stack := errctxguard.FromContext(ctx)
	node, leave := c.pushContext(ctx, doIt)
	defer leave()
	if c.guard {
		defer stack.Guard(node)
	}

	if !doIt {
		c.reporter.Report(ctx, elog.Info, "not doing it (correctly)")
	} else {
		c.doTheThing(ctx)
	}

	stack.PopIfTop(node)
}

// myFuncWithErrcontextDetect is the buggy function with a guard.
func (c *call) myFuncWithErrcontextDetect(ctx context.Context, doIt bool) {
	stack := errctxguard.FromContext(ctx)
	node, leave := c.pushContext(ctx, doIt)
	defer leave()
	defer stack.Guard(node)

	if !doIt {
		c.leakContext(ctx, stack)
		return
	}

	c.doTheThing(ctx)

	stack.PopIfTop(node)
}

func (c *call) leakContext(ctx context.Context, stack *errctxguard.Stack) {
	c.reporter.Report(ctx, elog.Log, "leaking error context stack pointer %p", stack.Head())
	c.leaked = stack.Head()
	c.reporter.Report(ctx, elog.Warning, "not doing it and leaking the error context callback pointer!")
}
