// Package host is the invocation layer of the demonstration.
//
// [Host.Call] runs one unit of work for a (doIt, variant) pair and returns
// what happened to the error context stack. The variants are four versions of
// the same function:
//
//   - simple: no error context entry at all.
//   - errcontext_buggy: pushes an entry and returns early without popping it
//     when doIt is false. The entry is left dangling; the next report walks
//     into reclaimed storage and the unit fails with [ErrBackendCrashed].
//   - errcontext_fixed: never returns early, pops with PopIfTop.
//   - errcontext_detect: the buggy function with a guard attached. The leak
//     is repaired and reported as an ERROR, the unit is aborted and the host
//     keeps serving.
//
// Each call runs on its own [frame.Frame] so that storage of a left scope is
// reused, and the frame is clobbered after the variant returns.
package host
