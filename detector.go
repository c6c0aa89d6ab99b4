package errctxguard

import (
	"fmt"
	"runtime"
)

// Kind classifies a leak report.
type Kind string

// KindCallbackLeak marks a node that was still linked when its scope ended.
const KindCallbackLeak Kind = "callback-leak"

const maxBacktrace = 32

// LeakError is the report of a node that was still linked at scope exit.
//
// It never refers to the leaked node itself: its storage may already be on
// its way to reuse when the report is handled.
type LeakError struct {
	Kind Kind
	// Position is the distance from the head at which the node was found.
	Position int
	// Discarded is the number of entries dropped by the repair.
	Discarded int

	pcs []uintptr
}

func (e *LeakError) Error() string {
	if e.Position == 0 {
		return "leaked an errcontext callback pointer"
	}

	return fmt.Sprintf("leaked an errcontext callback pointer (found %d below the head, %d entries discarded)",
		e.Position, e.Discarded)
}

// Frames returns the call stack captured when the leak was detected.
func (e *LeakError) Frames() *runtime.Frames {
	return runtime.CallersFrames(e.pcs)
}

// Reporter receives leak reports.
//
// The stack has already been repaired when ReportLeak is called.
// Implementations are expected to end the unit of work, usually by calling
// [Stack.Abort].
type Reporter interface {
	ReportLeak(s *Stack, err *LeakError)
}

// ReporterFunc adapts a function to [Reporter].
type ReporterFunc func(s *Stack, err *LeakError)

// ReportLeak calls f(s, err).
func (f ReporterFunc) ReportLeak(s *Stack, err *LeakError) {
	f(s, err)
}

// abortReporter raises the abort signal for every report.
type abortReporter struct{}

func (abortReporter) ReportLeak(s *Stack, err *LeakError) {
	s.Abort(err)
}

// CheckUnlinkedOnExit verifies that n is no longer reachable from the head.
//
// Call it when n's scope ends. If n is found, the head is moved to the entry
// below n, discarding n and everything pushed after it, and a [*LeakError]
// goes to the reporter. Checking a node that is not linked does nothing.
func (s *Stack) CheckUnlinkedOnExit(n *Node) {
	pos, found := s.find(n)
	if !found {
		return
	}

	// Repair first: the reporter may unwind.
	s.head = n.previous

	err := &LeakError{
		Kind:      KindCallbackLeak,
		Position:  pos,
		Discarded: pos + 1,
	}

	pcs := make([]uintptr, maxBacktrace)
	err.pcs = pcs[:runtime.Callers(2, pcs)]

	s.reporterOrDefault().ReportLeak(s, err)
}

func (s *Stack) reporterOrDefault() Reporter {
	if s.reporter == nil {
		return abortReporter{}
	}

	return s.reporter
}
