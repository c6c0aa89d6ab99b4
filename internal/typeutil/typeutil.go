// Package typeutil provides type helpers for the lint.
package typeutil

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// UnwrapPointer returns the element type if t is a pointer, otherwise returns t.
func UnwrapPointer(t types.Type) types.Type {
	if ptr, ok := t.(*types.Pointer); ok {
		return ptr.Elem()
	}

	return t
}

// IsNamedType checks if t, or the type it points to, is pkgPath.typeName.
func IsNamedType(t types.Type, pkgPath, typeName string) bool {
	named, ok := UnwrapPointer(t).(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil {
		return false
	}

	return obj.Pkg().Path() == pkgPath && obj.Name() == typeName
}

// NodeVar resolves the variable a node argument refers to.
//
// Both &node (a local Node value) and node (a local *Node) are accepted.
// Returns nil for anything that is not a plain function-local variable.
func NodeVar(pass *analysis.Pass, expr ast.Expr) *types.Var {
	expr = ast.Unparen(expr)
	if unary, ok := expr.(*ast.UnaryExpr); ok && unary.Op == token.AND {
		expr = ast.Unparen(unary.X)
	}

	ident, ok := expr.(*ast.Ident)
	if !ok {
		return nil
	}

	v, ok := pass.TypesInfo.ObjectOf(ident).(*types.Var)
	if !ok || v.IsField() || v.Parent() == nil || v.Parent() == v.Pkg().Scope() {
		return nil
	}

	return v
}
