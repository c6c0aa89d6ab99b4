package funcspec

import (
	"go/ast"
	"go/types"
	"strings"
	"unicode"

	"golang.org/x/tools/go/analysis"
)

// CorePkgPath is the import path of the error context stack package.
const CorePkgPath = "github.com/mpyw/errctxguard"

// Methods of the error context stack.
var (
	Push       = Spec{PkgPath: CorePkgPath, TypeName: "Stack", FuncName: "Push"}
	PopIfTop   = Spec{PkgPath: CorePkgPath, TypeName: "Stack", FuncName: "PopIfTop"}
	Guard      = Spec{PkgPath: CorePkgPath, TypeName: "Stack", FuncName: "Guard"}
	DebugGuard = Spec{PkgPath: CorePkgPath, TypeName: "Stack", FuncName: "DebugGuard"}
)

// Spec holds parsed components of a function specification.
type Spec struct {
	PkgPath  string
	TypeName string // empty for package-level functions
	FuncName string
}

func (s Spec) String() string {
	if s.TypeName == "" {
		return s.PkgPath + "." + s.FuncName
	}
	return s.PkgPath + "." + s.TypeName + "." + s.FuncName
}

// Parse parses "pkg/path.Func" or "pkg/path.Type.Method".
func Parse(s string) Spec {
	lastDot := strings.LastIndex(s, ".")
	if lastDot == -1 {
		return Spec{FuncName: s}
	}

	spec := Spec{FuncName: s[lastDot+1:]}
	prefix := s[:lastDot]

	// Type names start with uppercase; package path elements normally don't.
	if secondLastDot := strings.LastIndex(prefix, "."); secondLastDot != -1 {
		possibleType := prefix[secondLastDot+1:]
		if possibleType != "" && !strings.Contains(possibleType, "/") && unicode.IsUpper(rune(possibleType[0])) {
			spec.TypeName = possibleType
			spec.PkgPath = prefix[:secondLastDot]

			return spec
		}
	}

	spec.PkgPath = prefix

	return spec
}

// ParseList parses a comma-separated list of specifications.
func ParseList(s string) []Spec {
	var specs []Spec

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		specs = append(specs, Parse(part))
	}

	return specs
}

// Matches checks if fn matches this specification.
func (s Spec) Matches(fn *types.Func) bool {
	if fn == nil || fn.Name() != s.FuncName {
		return false
	}

	pkg := fn.Pkg()
	if pkg == nil || pkg.Path() != s.PkgPath {
		return false
	}

	recv := fn.Type().(*types.Signature).Recv()
	if s.TypeName == "" {
		return recv == nil
	}
	if recv == nil {
		return false
	}

	recvType := recv.Type()
	if ptr, ok := recvType.(*types.Pointer); ok {
		recvType = ptr.Elem()
	}

	named, ok := recvType.(*types.Named)
	if !ok {
		return false
	}

	return named.Obj().Name() == s.TypeName
}

// MatchesAny reports whether fn matches one of specs.
func MatchesAny(fn *types.Func, specs []Spec) bool {
	for _, s := range specs {
		if s.Matches(fn) {
			return true
		}
	}
	return false
}

// ExtractFunc extracts the types.Func from a call expression.
// Returns nil if the callee cannot be determined statically.
func ExtractFunc(pass *analysis.Pass, call *ast.CallExpr) *types.Func {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		if f, ok := pass.TypesInfo.ObjectOf(fun).(*types.Func); ok {
			return f
		}

	case *ast.SelectorExpr:
		if sel := pass.TypesInfo.Selections[fun]; sel != nil {
			if f, ok := sel.Obj().(*types.Func); ok {
				return f
			}
			return nil
		}
		if f, ok := pass.TypesInfo.ObjectOf(fun.Sel).(*types.Func); ok {
			return f
		}
	}

	return nil
}
