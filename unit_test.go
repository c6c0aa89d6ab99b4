package errctxguard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mpyw/errctxguard"
)

func TestRunProvidesStack(t *testing.T) {
	var seen *errctxguard.Stack
	err := errctxguard.Run(context.Background(), func(ctx context.Context) error {
		seen = errctxguard.FromContext(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen == nil {
		t.Fatal("no stack in unit context")
	}
}

func TestRunRecoversLeakAbort(t *testing.T) {
	var s *errctxguard.Stack
	err := errctxguard.Run(context.Background(), func(ctx context.Context) error {
		s = errctxguard.FromContext(ctx)
		scoped(s, true, true, nil)
		return nil
	})

	var abort *errctxguard.AbortError
	if !errors.As(err, &abort) {
		t.Fatalf("err = %v, want *AbortError", err)
	}
	var leak *errctxguard.LeakError
	if !errors.As(err, &leak) {
		t.Fatalf("err = %v, want wrapped *LeakError", err)
	}
	if !s.Empty() || s.Aborting() {
		t.Errorf("stack after Run: empty=%v aborting=%v", s.Empty(), s.Aborting())
	}
}

func TestRunReportsUnbalancedUnit(t *testing.T) {
	var s *errctxguard.Stack
	errWork := errors.New("work failed")
	err := errctxguard.Run(context.Background(), func(ctx context.Context) error {
		s = errctxguard.FromContext(ctx)
		scoped(s, true, false, nil)
		return errWork
	})

	if !errors.Is(err, errctxguard.ErrUnbalanced) {
		t.Errorf("err = %v, want ErrUnbalanced", err)
	}
	if !errors.Is(err, errWork) {
		t.Errorf("err = %v, want the unit's own error too", err)
	}
	if !s.Empty() {
		t.Error("stack not reset at the boundary")
	}
}

func TestRunAbortFromContext(t *testing.T) {
	errBad := errors.New("bad input")
	err := errctxguard.Run(context.Background(), func(ctx context.Context) error {
		s := errctxguard.FromContext(ctx)
		n := labeled("n")
		s.Push(n)
		defer s.Guard(n)
		errctxguard.Abort(ctx, errBad)
		return nil
	})

	if !errors.Is(err, errBad) {
		t.Errorf("err = %v, want %v", err, errBad)
	}
	if errors.Is(err, errctxguard.ErrUnbalanced) {
		t.Error("abort path reported as unbalanced")
	}
}

func TestRunRepanicsForeignPanic(t *testing.T) {
	var s *errctxguard.Stack
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
		if !s.Empty() {
			t.Error("stack not reset before re-panicking")
		}
	}()

	_ = errctxguard.Run(context.Background(), func(ctx context.Context) error {
		s = errctxguard.FromContext(ctx)
		s.Push(labeled("n"))
		panic("boom")
	})
}

func TestRunRepanicsThroughGuard(t *testing.T) {
	var s *errctxguard.Stack
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
		if !s.Empty() || s.Aborting() {
			t.Errorf("stack after Run: empty=%v aborting=%v", s.Empty(), s.Aborting())
		}
	}()

	err := errctxguard.Run(context.Background(), func(ctx context.Context) error {
		s = errctxguard.FromContext(ctx)
		n := labeled("n")
		s.Push(n)
		defer s.Guard(n)
		panic("boom")
	})
	t.Errorf("Run returned %v instead of re-panicking", err)
}

func TestRunUnitsAreIndependent(t *testing.T) {
	ctx := context.Background()
	var first, second *errctxguard.Stack

	_ = errctxguard.Run(ctx, func(ctx context.Context) error {
		first = errctxguard.FromContext(ctx)
		return errctxguard.Run(ctx, func(ctx context.Context) error {
			second = errctxguard.FromContext(ctx)
			return nil
		})
	})

	if first == second {
		t.Error("nested unit shares the outer stack")
	}
}

func TestFromContextWithoutStack(t *testing.T) {
	if s := errctxguard.FromContext(context.Background()); s != nil {
		t.Errorf("FromContext = %v, want nil", s)
	}
}
