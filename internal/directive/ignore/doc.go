// Package ignore provides //errctxguard:ignore directive parsing.
//
// # Overview
//
// The ignore directive suppresses lint diagnostics for specific lines
// or specific checkers.
//
// # Directive Placement
//
// The directive can appear on the line before or the same line:
//
//	//errctxguard:ignore
//	return  // Diagnostic suppressed
//
//	return  //errctxguard:ignore  // Also works
//
// # Checker-Specific Ignores
//
// Specify checker names to ignore only specific checks:
//
//	//errctxguard:ignore unpopped - popped by the caller
//	stack.Push(&node)
//
// # Valid Checker Names
//
//	┌───────────┬──────────────────────────────────────────────┐
//	│ Name      │ Description                                  │
//	├───────────┼──────────────────────────────────────────────┤
//	│ unpopped  │ return or function end with the node linked  │
//	│ unguarded │ pushed node without a deferred Guard         │
//	└───────────┴──────────────────────────────────────────────┘
//
// # Unused Directives
//
// Directives that suppress nothing are reported, so stale ignores do not
// hide future leaks. A directive naming a checker that is disabled is
// reported as unused too.
package ignore
