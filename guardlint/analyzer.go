// Package guardlint provides a go/analysis based analyzer for detecting
// error context stack entries that stay linked when a function returns.
package guardlint

import (
	"errors"
	"flag"
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/mpyw/errctxguard/internal/directive/ignore"
	"github.com/mpyw/errctxguard/internal/funcspec"
	"github.com/mpyw/errctxguard/internal/scope"
)

// Flags for the analyzer.
var (
	requireGuard bool
	popFuncs     string
)

func init() {
	Analyzer.Flags.BoolVar(&requireGuard, "require-guard", false,
		"require a deferred Stack.Guard for every pushed node")
	Analyzer.Flags.StringVar(&popFuncs, "pop-funcs", "",
		"comma-separated list of functions that pop a node passed as first argument (e.g., pkg.Func or pkg.Type.Method)")
}

// Analyzer checks that every node pushed on an error context stack is popped
// before the pushing function returns.
var Analyzer = &analysis.Analyzer{
	Name:     "errctxguard",
	Doc:      "checks that error context stack entries are popped on every return path",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
	Flags:    flag.FlagSet{},
}

var ErrNoInspector = errors.New("inspector analyzer result not found")

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, ErrNoInspector
	}

	skipFiles := buildSkipFiles(pass)
	ignoreMaps := buildIgnoreMaps(pass, skipFiles)

	scopes := scope.Build(pass, insp, funcspec.ParseList(popFuncs))

	c := &checker{
		pass:         pass,
		scopes:       scopes,
		ignoreMaps:   ignoreMaps,
		skipFiles:    skipFiles,
		requireGuard: requireGuard,
	}
	c.run(insp)

	reportUnusedIgnores(pass, ignoreMaps, buildEnabledCheckers())

	return nil, nil
}

// buildSkipFiles creates a set of filenames to skip.
// Generated files are always skipped.
// Test files can be skipped via the driver's built-in -test flag.
func buildSkipFiles(pass *analysis.Pass) map[string]bool {
	skipFiles := make(map[string]bool)

	for _, file := range pass.Files {
		if ast.IsGenerated(file) {
			skipFiles[pass.Fset.Position(file.Pos()).Filename] = true
		}
	}

	return skipFiles
}

// buildIgnoreMaps creates ignore maps for each file in the pass.
func buildIgnoreMaps(pass *analysis.Pass, skipFiles map[string]bool) map[string]ignore.Map {
	ignoreMaps := make(map[string]ignore.Map)

	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		if skipFiles[filename] {
			continue
		}
		ignoreMaps[filename] = ignore.Build(pass.Fset, file)
	}

	return ignoreMaps
}

func buildEnabledCheckers() ignore.EnabledCheckers {
	enabled := ignore.EnabledCheckers{ignore.Unpopped: true}
	if requireGuard {
		enabled[ignore.Unguarded] = true
	}

	return enabled
}

// reportUnusedIgnores reports any ignore directives that were not used.
func reportUnusedIgnores(pass *analysis.Pass, ignoreMaps map[string]ignore.Map, enabled ignore.EnabledCheckers) {
	for _, ignoreMap := range ignoreMaps {
		for _, unused := range ignoreMap.GetUnusedIgnores(enabled) {
			if len(unused.Checkers) == 0 {
				pass.Reportf(unused.Pos, "unused errctxguard:ignore directive")
				continue
			}

			names := make([]string, len(unused.Checkers))
			for i, c := range unused.Checkers {
				names[i] = string(c)
			}
			pass.Reportf(unused.Pos, "unused errctxguard:ignore directive for checker(s): %s", strings.Join(names, ", "))
		}
	}
}
