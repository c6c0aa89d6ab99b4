package guardlint

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/mpyw/errctxguard/internal/directive/ignore"
	"github.com/mpyw/errctxguard/internal/scope"
)

type checker struct {
	pass         *analysis.Pass
	scopes       scope.Map
	ignoreMaps   map[string]ignore.Map
	skipFiles    map[string]bool
	requireGuard bool
}

func (c *checker) run(insp *inspector.Inspector) {
	insp.WithStack([]ast.Node{(*ast.ReturnStmt)(nil)}, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}

		_, sc := scope.FindEnclosing(c.scopes, stack)
		if sc == nil {
			return true
		}

		ret := n.(*ast.ReturnStmt)
		for _, v := range c.leakedAt(sc, ret, stack) {
			c.report(ret.Pos(), ignore.Unpopped,
				"return leaves node %q linked on the error context stack", v.Name())
		}

		return true
	})

	for _, sc := range c.scopes {
		c.checkScope(sc)
	}
}

// leakedAt returns the variables still linked when ret executes.
func (c *checker) leakedAt(sc *scope.Scope, ret *ast.ReturnStmt, stack []ast.Node) []*types.Var {
	var leaked []*types.Var
	seen := make(map[*types.Var]bool)

	for _, p := range sc.Pushes {
		v := p.Var
		if seen[v] || p.Pos() > ret.Pos() || sc.DeferredPops[v] || !sc.Popped(v) {
			continue
		}
		// return stack.PopIfTop(&node)
		if sc.PoppedWithin(v, p.Pos(), ret) || poppedOnPath(sc, p, stack) {
			continue
		}

		seen[v] = true
		leaked = append(leaked, v)
	}

	return leaked
}

// poppedOnPath reports whether a statement preceding the last node of stack,
// in any block between it and the enclosing function, pops p's variable.
func poppedOnPath(sc *scope.Scope, p *scope.Op, stack []ast.Node) bool {
	for i := len(stack) - 2; i >= 0; i-- {
		var list []ast.Stmt

		switch node := stack[i].(type) {
		case *ast.FuncDecl, *ast.FuncLit:
			return false
		case *ast.BlockStmt:
			list = node.List
		case *ast.CaseClause:
			list = node.Body
		case *ast.CommClause:
			list = node.Body
		default:
			continue
		}

		child := stack[i+1]
		for _, st := range list {
			if st == child {
				break
			}
			if sc.PoppedWithin(p.Var, p.Pos(), st) {
				return true
			}
		}
	}

	return false
}

func (c *checker) checkScope(sc *scope.Scope) {
	seen := make(map[*types.Var]bool)

	for _, p := range sc.Pushes {
		v := p.Var
		if seen[v] {
			continue
		}
		seen[v] = true

		switch {
		case !sc.Popped(v):
			c.report(p.Pos(), ignore.Unpopped, "node %q is pushed but never popped", v.Name())
		case !sc.DeferredPops[v] && !terminates(sc.Body) && !sc.PoppedWithin(v, p.Pos(), sc.Body):
			c.report(sc.Body.Rbrace, ignore.Unpopped,
				"function end leaves node %q linked on the error context stack", v.Name())
		}

		if c.requireGuard && !sc.DeferredGuards[v] {
			c.report(p.Pos(), ignore.Unguarded, "node %q has no deferred Guard", v.Name())
		}
	}
}

// terminates reports whether control cannot reach the closing brace of body.
func terminates(body *ast.BlockStmt) bool {
	if len(body.List) == 0 {
		return false
	}

	switch last := body.List[len(body.List)-1].(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.ExprStmt:
		call, ok := last.X.(*ast.CallExpr)
		if !ok {
			return false
		}
		ident, ok := call.Fun.(*ast.Ident)
		return ok && ident.Name == "panic"
	}

	return false
}

func (c *checker) report(pos token.Pos, name ignore.CheckerName, format string, args ...any) {
	position := c.pass.Fset.Position(pos)
	if c.skipFiles[position.Filename] {
		return
	}
	if ignoreMap, ok := c.ignoreMaps[position.Filename]; ok && ignoreMap.ShouldIgnore(position.Line, name) {
		return
	}

	c.pass.Reportf(pos, format, args...)
}
