package errctxguard

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnbalanced is returned by [Run] when a unit of work returned normally
// with entries still linked.
var ErrUnbalanced = errors.New("error context stack not empty at end of unit of work")

// AbortError carries the error that aborted a unit of work.
type AbortError struct {
	Err error
}

func (e *AbortError) Error() string {
	return "unit of work aborted: " + e.Err.Error()
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Abort marks the stack as aborting and unwinds the current unit of work.
// It does not return.
func (s *Stack) Abort(err error) {
	s.aborting = true
	panic(&AbortError{Err: err})
}

// Abort unwinds the unit of work running on ctx. It does not return.
func Abort(ctx context.Context, err error) {
	if s := FromContext(ctx); s != nil {
		s.Abort(err)
	}

	panic(&AbortError{Err: err})
}

type stackKey struct{}

// WithStack returns a copy of ctx that carries s.
func WithStack(ctx context.Context, s *Stack) context.Context {
	return context.WithValue(ctx, stackKey{}, s)
}

// FromContext returns the stack carried by ctx, or nil.
func FromContext(ctx context.Context) *Stack {
	s, _ := ctx.Value(stackKey{}).(*Stack)
	return s
}

// Run executes fn as one unit of work on a fresh stack.
//
// An abort raised inside fn is returned as [*AbortError]. Other panics are
// propagated after the stack is reset. The stack is empty again when Run
// returns, whatever fn did.
func Run(ctx context.Context, fn func(ctx context.Context) error, opts ...Option) (err error) {
	s := NewStack(opts...)
	ctx = WithStack(ctx, s)

	defer func() {
		r := recover()
		depth := s.Depth()
		s.Reset()

		if r == nil {
			if depth > 0 {
				err = errors.Join(err, fmt.Errorf("%w: %d entries still linked", ErrUnbalanced, depth))
			}
			return
		}

		abort, ok := r.(*AbortError)
		if !ok {
			panic(r)
		}
		err = abort
	}()

	return fn(ctx)
}
