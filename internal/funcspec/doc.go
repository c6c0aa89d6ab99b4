// Package funcspec provides function specification parsing and matching.
//
// # Specification Format
//
// A function specification has the format:
//
//	pkg/path.FuncName           # Package-level function
//	pkg/path.TypeName.Method    # Method on type
//
// Examples:
//
//	github.com/mpyw/errctxguard.Stack.PopIfTop
//	example.com/app/errctx.Leave
//
// The lint accepts extra pop functions through the -pop-funcs flag as a
// comma-separated list parsed by [ParseList].
//
// # Matching
//
// [Spec.Matches] compares a [*types.Func] by name, package path and, for
// methods, the receiver's named type (pointer receivers included).
// [ExtractFunc] resolves the static callee of a call expression.
package funcspec
