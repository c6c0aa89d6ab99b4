// Package elog is the error-reporting subsystem of the demonstration host.
//
// Every report collects one CONTEXT line from each entry on the error
// context stack of the current unit of work, is written to a [slog.Logger],
// and, at [Error] level, aborts the unit of work.
package elog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mpyw/errctxguard"
)

// Code is a five-character SQLSTATE-style error code.
type Code string

// Error codes used by the host.
const (
	CodeSuccess               Code = "00000"
	CodeWarning               Code = "01000"
	CodeInvalidParameterValue Code = "22023"
	CodeInternalError         Code = "XX000"
)

// Entry is one emitted report.
type Entry struct {
	Level     Level
	Code      Code
	Message   string
	Context   []string
	Backtrace []string
	// Leak is set on reports of a leaked error context entry.
	Leak      bool
}

// ReportError is the abort payload of an [Error]-level report.
type ReportError struct {
	Entry

	cause error
}

func (e *ReportError) Error() string {
	return e.Message
}

// Unwrap returns the error the report was raised for, if any.
func (e *ReportError) Unwrap() error {
	return e.cause
}

// Reporter emits reports and handles leak reports of the error context stack.
type Reporter struct {
	logger    *slog.Logger
	backtrace bool
	sink      func(Entry)
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the destination logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = l
	}
}

// WithBacktrace enables call stacks on leak reports.
func WithBacktrace(enabled bool) Option {
	return func(r *Reporter) {
		r.backtrace = enabled
	}
}

// WithSink registers a function that sees every emitted entry.
func WithSink(fn func(Entry)) Option {
	return func(r *Reporter) {
		r.sink = fn
	}
}

// New returns a Reporter. Without [WithLogger] it writes to [slog.Default].
func New(opts ...Option) *Reporter {
	r := &Reporter{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Report emits a report with the default code for its level.
// At [Error] level it aborts the unit of work running on ctx.
func (r *Reporter) Report(ctx context.Context, level Level, format string, args ...any) {
	r.ReportCode(ctx, level, defaultCode(level), format, args...)
}

// ReportCode is like [Reporter.Report] with an explicit code.
func (r *Reporter) ReportCode(ctx context.Context, level Level, code Code, format string, args ...any) {
	entry := Entry{
		Level:   level,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Context: collectContext(errctxguard.FromContext(ctx)),
	}
	r.emit(ctx, entry)

	if level >= Error {
		errctxguard.Abort(ctx, &ReportError{Entry: entry})
	}
}

// ReportErr reports err with its text as the message. At [Error] level the
// abort payload unwraps to err.
func (r *Reporter) ReportErr(ctx context.Context, level Level, code Code, err error) {
	entry := Entry{
		Level:   level,
		Code:    code,
		Message: err.Error(),
		Context: collectContext(errctxguard.FromContext(ctx)),
	}
	r.emit(ctx, entry)

	if level >= Error {
		errctxguard.Abort(ctx, &ReportError{Entry: entry, cause: err})
	}
}

// ReportLeak reports a leaked entry at [Error] level and aborts the unit of
// work that owns s.
func (r *Reporter) ReportLeak(s *errctxguard.Stack, err *errctxguard.LeakError) {
	entry := Entry{
		Level:   Error,
		Code:    CodeInternalError,
		Message: err.Error(),
		Context: collectContext(s),
		Leak:    true,
	}
	if r.backtrace {
		entry.Backtrace = formatBacktrace(err)
	}
	r.emit(context.Background(), entry)

	s.Abort(&ReportError{Entry: entry, cause: err})
}

func (r *Reporter) emit(ctx context.Context, e Entry) {
	attrs := []slog.Attr{
		slog.String("elevel", e.Level.String()),
		slog.String("sqlstate", string(e.Code)),
	}
	if len(e.Context) > 0 {
		attrs = append(attrs, slog.Any("context", e.Context))
	}
	if len(e.Backtrace) > 0 {
		attrs = append(attrs, slog.Any("backtrace", e.Backtrace))
	}
	r.logger.LogAttrs(ctx, e.Level.slogLevel(), e.Message, attrs...)

	if r.sink != nil {
		r.sink(e)
	}
}

// collectContext calls every callback on the stack, head first.
func collectContext(s *errctxguard.Stack) []string {
	if s == nil {
		return nil
	}

	var lines []string
	for n := range s.All() {
		if n.Callback == nil {
			continue
		}
		lines = append(lines, n.Callback(n.Arg))
	}

	return lines
}

func formatBacktrace(err *errctxguard.LeakError) []string {
	var lines []string
	frames := err.Frames()
	for {
		f, more := frames.Next()
		if f.Function != "" {
			lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		}
		if !more {
			break
		}
	}

	return lines
}

func defaultCode(level Level) Code {
	switch {
	case level >= Error:
		return CodeInternalError
	case level == Warning:
		return CodeWarning
	default:
		return CodeSuccess
	}
}
