package scope

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/mpyw/errctxguard/internal/funcspec"
	"github.com/mpyw/errctxguard/internal/typeutil"
)

// Op is one stack operation on a local node variable.
type Op struct {
	Call *ast.CallExpr
	Var  *types.Var
}

// Name returns the node variable name.
func (o *Op) Name() string {
	return o.Var.Name()
}

// Pos returns the position of the call.
func (o *Op) Pos() token.Pos {
	return o.Call.Pos()
}

// Scope holds the stack operations of one function body.
type Scope struct {
	Body   *ast.BlockStmt
	Pushes []*Op
	Pops   []*Op

	DeferredPops   map[*types.Var]bool
	DeferredGuards map[*types.Var]bool
}

// PoppedWithin reports whether a pop of v after pos lies inside node.
func (s *Scope) PoppedWithin(v *types.Var, after token.Pos, node ast.Node) bool {
	for _, pop := range s.Pops {
		if pop.Var != v || pop.Pos() <= after {
			continue
		}
		if node.Pos() <= pop.Pos() && pop.Pos() < node.End() {
			return true
		}
	}

	return false
}

// Popped reports whether v is popped anywhere in the function.
func (s *Scope) Popped(v *types.Var) bool {
	if s.DeferredPops[v] {
		return true
	}
	for _, pop := range s.Pops {
		if pop.Var == v {
			return true
		}
	}

	return false
}

// Map maps FuncDecl and FuncLit nodes to their push scopes.
type Map map[ast.Node]*Scope

// Build collects scopes of all functions that push a node.
// Calls matching popFuncs count as pops in addition to Stack.PopIfTop.
func Build(pass *analysis.Pass, insp *inspector.Inspector, popFuncs []funcspec.Spec) Map {
	m := make(Map)
	pops := append([]funcspec.Spec{funcspec.PopIfTop}, popFuncs...)
	guards := []funcspec.Spec{funcspec.Guard, funcspec.DebugGuard}

	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil), (*ast.FuncLit)(nil)}, func(n ast.Node) {
		var body *ast.BlockStmt

		switch fn := n.(type) {
		case *ast.FuncDecl:
			body = fn.Body
		case *ast.FuncLit:
			body = fn.Body
		}
		if body == nil {
			return
		}

		sc := &Scope{
			Body:           body,
			DeferredPops:   make(map[*types.Var]bool),
			DeferredGuards: make(map[*types.Var]bool),
		}
		c := &collector{pass: pass, scope: sc, pops: pops, guards: guards}
		ast.Inspect(body, c.visit)

		if len(sc.Pushes) > 0 {
			m[n] = sc
		}
	})

	return m
}

type collector struct {
	pass   *analysis.Pass
	scope  *Scope
	pops   []funcspec.Spec
	guards []funcspec.Spec
}

func (c *collector) visit(n ast.Node) bool {
	switch node := n.(type) {
	case *ast.FuncLit:
		return false

	case *ast.DeferStmt:
		c.deferred(node.Call)
		return false

	case *ast.CallExpr:
		fn := funcspec.ExtractFunc(c.pass, node)
		switch {
		case funcspec.Push.Matches(fn):
			if op := c.op(node); op != nil {
				c.scope.Pushes = append(c.scope.Pushes, op)
			}
		case funcspec.MatchesAny(fn, c.pops):
			if op := c.op(node); op != nil {
				c.scope.Pops = append(c.scope.Pops, op)
			}
		}
	}

	return true
}

// deferred records pops and guards run by a deferred call, looking one
// level into a deferred function literal.
func (c *collector) deferred(call *ast.CallExpr) {
	if lit, ok := ast.Unparen(call.Fun).(*ast.FuncLit); ok {
		ast.Inspect(lit.Body, func(n ast.Node) bool {
			if _, nested := n.(*ast.FuncLit); nested {
				return false
			}
			if inner, ok := n.(*ast.CallExpr); ok {
				c.deferredCall(inner)
			}
			return true
		})
		return
	}

	c.deferredCall(call)
}

func (c *collector) deferredCall(call *ast.CallExpr) {
	fn := funcspec.ExtractFunc(c.pass, call)

	var target map[*types.Var]bool
	switch {
	case funcspec.MatchesAny(fn, c.pops):
		target = c.scope.DeferredPops
	case funcspec.MatchesAny(fn, c.guards):
		target = c.scope.DeferredGuards
	default:
		return
	}

	if op := c.op(call); op != nil {
		target[op.Var] = true
	}
}

// op resolves the node variable passed as the first argument.
func (c *collector) op(call *ast.CallExpr) *Op {
	if len(call.Args) == 0 {
		return nil
	}

	v := typeutil.NodeVar(c.pass, call.Args[0])
	if v == nil || !typeutil.IsNamedType(v.Type(), funcspec.CorePkgPath, "Node") {
		return nil
	}

	return &Op{Call: call, Var: v}
}

// FindEnclosing returns the innermost function on stack and its scope.
// The scope is nil when that function pushes nothing.
func FindEnclosing(scopes Map, stack []ast.Node) (ast.Node, *Scope) {
	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i].(type) {
		case *ast.FuncDecl, *ast.FuncLit:
			return stack[i], scopes[stack[i]]
		}
	}

	return nil, nil
}
