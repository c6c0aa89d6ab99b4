package ignore

import (
	"go/ast"
	"go/token"
	"strings"
)

const directivePrefix = "errctxguard:ignore"

// CheckerName represents a checker that can be ignored.
type CheckerName string

// Valid checker names.
const (
	Unpopped  CheckerName = "unpopped"
	Unguarded CheckerName = "unguarded"
)

// AllCheckerNames returns all valid checker names.
func AllCheckerNames() []CheckerName {
	return []CheckerName{Unpopped, Unguarded}
}

// Entry tracks an ignore directive and its usage.
type Entry struct {
	pos      token.Pos            // Position of the ignore comment
	checkers []CheckerName        // List of checker names (empty = all)
	used     map[CheckerName]bool // Track usage per checker
}

// Map tracks ignore entries by line number.
type Map map[int]*Entry

// EnabledCheckers tracks which checkers are currently enabled.
type EnabledCheckers map[CheckerName]bool

// Build scans a file for ignore comments and returns a map.
func Build(fset *token.FileSet, file *ast.File) Map {
	m := make(Map)

	for _, cg := range file.Comments {
		for _, c := range cg.List {
			checkers, ok := parseComment(c.Text)
			if !ok {
				continue
			}
			m[fset.Position(c.Pos()).Line] = &Entry{
				pos:      c.Pos(),
				checkers: checkers,
				used:     make(map[CheckerName]bool),
			}
		}
	}

	return m
}

// parseComment returns the checker names of an ignore directive.
// A nil slice means all checkers; false means text is not a directive.
//
//   - //errctxguard:ignore                     -> all checkers
//   - //errctxguard:ignore unpopped            -> one checker
//   - //errctxguard:ignore unpopped,unguarded  -> several checkers
//   - //errctxguard:ignore - reason            -> all, with a reason
//   - //errctxguard:ignore unpopped // reason  -> one, with a reason
func parseComment(text string) ([]CheckerName, bool) {
	text = strings.TrimSpace(strings.TrimPrefix(text, "//"))

	rest, ok := strings.CutPrefix(text, directivePrefix)
	if !ok {
		return nil, false
	}
	rest = strings.TrimSpace(rest)

	if idx := strings.Index(rest, " - "); idx >= 0 {
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, " //"); idx >= 0 {
		rest = rest[:idx]
	}
	if rest == "-" || strings.HasPrefix(rest, "- ") {
		return nil, true
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil, true
	}

	var checkers []CheckerName
	for part := range strings.SplitSeq(rest, ",") {
		if name := CheckerName(strings.TrimSpace(part)); name != "" {
			checkers = append(checkers, name)
		}
	}

	return checkers, true
}

// ShouldIgnore reports whether a directive on line or the line above
// suppresses checker, and marks it used.
func (m Map) ShouldIgnore(line int, checker CheckerName) bool {
	return m[line].suppresses(checker) || m[line-1].suppresses(checker)
}

func (e *Entry) suppresses(checker CheckerName) bool {
	if e == nil {
		return false
	}

	if len(e.checkers) == 0 {
		e.used[checker] = true
		return true
	}

	for _, c := range e.checkers {
		if c == checker {
			e.used[checker] = true
			return true
		}
	}

	return false
}

// UnusedIgnore represents an unused ignore directive.
type UnusedIgnore struct {
	Pos      token.Pos
	Checkers []CheckerName // Unused checker names (empty if entire directive is unused)
}

// GetUnusedIgnores returns ignore directives that were not used.
func (m Map) GetUnusedIgnores(enabled EnabledCheckers) []UnusedIgnore {
	var unused []UnusedIgnore

	for _, entry := range m {
		if len(entry.checkers) == 0 {
			anyUsed := false
			for checker := range enabled {
				if entry.used[checker] {
					anyUsed = true
					break
				}
			}
			if !anyUsed {
				unused = append(unused, UnusedIgnore{Pos: entry.pos})
			}
			continue
		}

		var names []CheckerName
		for _, checker := range entry.checkers {
			if !enabled[checker] || !entry.used[checker] {
				names = append(names, checker)
			}
		}
		if len(names) > 0 {
			unused = append(unused, UnusedIgnore{Pos: entry.pos, Checkers: names})
		}
	}

	return unused
}
