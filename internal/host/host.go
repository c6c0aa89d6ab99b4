package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mpyw/errctxguard"
	"github.com/mpyw/errctxguard/internal/config"
	"github.com/mpyw/errctxguard/internal/elog"
	"github.com/mpyw/errctxguard/internal/frame"
)

// Fill byte of the padding placed in front of a variant's frame.
const paddingFill = 0x6f

var (
	// ErrUnknownVariant is the cause of the ERROR raised for a bad selector.
	ErrUnknownVariant = errors.New(`unrecognised "variant" argument`)

	// ErrBackendCrashed is returned when a report ran a context callback
	// that lives in reclaimed storage.
	ErrBackendCrashed = errors.New("backend crashed")
)

// Host runs demonstration calls.
type Host struct {
	cfg    config.Config
	logger *slog.Logger
}

// New returns a Host. A nil logger means [slog.Default].
func New(cfg config.Config, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}

	return &Host{cfg: cfg, logger: logger}
}

// Request selects one call.
type Request struct {
	DoIt    bool
	Variant string
}

// Result describes one finished call.
type Result struct {
	Request

	// Err is the error that ended the unit of work, if any.
	Err error
	// Depth is the stack depth observed when the variant had returned.
	Depth int
	// Dangling is set when the head pointed into reclaimed storage at that
	// point.
	Dangling bool
	// LeakedPointer is set when the variant recorded a leaked entry.
	LeakedPointer bool
	// Entries are the reports emitted during the call, in order.
	Entries []elog.Entry
}

// Leaks returns the number of leak reports among the entries.
func (r *Result) Leaks() int {
	n := 0
	for _, e := range r.Entries {
		if e.Leak {
			n++
		}
	}

	return n
}

type call struct {
	reporter *elog.Reporter
	frame    *frame.Frame
	guard    bool
	leaked   *errctxguard.Node
}

// Call runs the selected variant as one unit of work.
// The returned error is also stored in the result.
func (h *Host) Call(ctx context.Context, doIt bool, variant string) (*Result, error) {
	res := &Result{Request: Request{DoIt: doIt, Variant: variant}}

	c := &call{
		frame: frame.New(h.cfg.PaddingBytes),
		guard: h.cfg.Guard,
	}
	c.reporter = elog.New(
		elog.WithLogger(h.logger.With(slog.String("variant", variant), slog.Bool("do_it", doIt))),
		elog.WithBacktrace(h.cfg.Backtrace),
		elog.WithSink(func(e elog.Entry) { res.Entries = append(res.Entries, e) }),
	)

	res.Err = h.runUnit(ctx, c, res)
	if res.Err != nil {
		h.logger.Debug("call failed", slog.String("variant", variant), slog.Any("error", res.Err))
	}

	return res, res.Err
}

// runUnit turns a crash of the unit of work into an error so that the host
// keeps serving.
func (h *Host) runUnit(ctx context.Context, c *call, res *Result) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		var clobbered *frame.ClobberedError
		if e, ok := r.(error); ok && errors.As(e, &clobbered) {
			err = fmt.Errorf("%w: %w", ErrBackendCrashed, clobbered)
			return
		}
		panic(r)
	}()

	return errctxguard.Run(ctx, func(ctx context.Context) error {
		stack := errctxguard.FromContext(ctx)
		c.leaked = nil

		defer func() {
			res.Depth = stack.Depth()
			res.Dangling = !stack.Empty() && c.frame.Released(stack.Head())
			res.LeakedPointer = c.leaked != nil
			c.leaked = nil
		}()

		c.callWithPaddedStack(ctx, res.DoIt, res.Variant)
		c.frame.Clobber(byte(h.cfg.ClobberPattern))

		c.reporter.Report(ctx, elog.Info, "after return from requested call")

		return nil
	}, errctxguard.WithReporter(c.reporter))
}

func (c *call) callWithPaddedStack(ctx context.Context, doIt bool, variant string) {
	c.frame.Pad(paddingFill)

	fn, ok := variants[variant]
	if !ok {
		c.reporter.ReportErr(ctx, elog.Error, elog.CodeInvalidParameterValue,
			fmt.Errorf("%w: %s", ErrUnknownVariant, variant))
		return
	}

	fn(c, ctx, doIt)
}

// RunMany runs independent calls concurrently, each in its own unit of work.
// Failed units are reported in their results; the returned error is only
// set when ctx ends first.
func (h *Host) RunMany(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if h.cfg.Parallel > 0 {
		g.SetLimit(h.cfg.Parallel)
	}

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], _ = h.Call(gctx, req.DoIt, req.Variant)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, nil
}
