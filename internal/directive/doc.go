// Package directive provides comment directive parsing for errctxguard.
//
// # Overview
//
//	directive/
//	└── ignore/    # //errctxguard:ignore directive
//
// # Directive Format
//
// All directives follow the format:
//
//	//errctxguard:<directive> [args]
//
// # Ignore Directive
//
// Suppresses diagnostics on the same line or the next line:
//
//	//errctxguard:ignore
//	return
//
//	stack.Push(&node)  //errctxguard:ignore  // Same line works too
//
// Specific checkers can be named, with an optional reason after " - ":
//
//	//errctxguard:ignore unpopped - the caller pops it
//	//errctxguard:ignore unpopped,unguarded
//
// Directives that suppress nothing are reported as unused.
package directive
