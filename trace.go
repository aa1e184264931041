//go:build !notrace

package xaml

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"runtime"
	"time"
)

type traceLoggerKey struct{}
type spanKey struct{}

// TracingEnabled is false when built with -tags notrace
const TracingEnabled = true

// the null logger is a logger that does nothing
var nullLogger = slog.New(slog.DiscardHandler)

type Span interface {
	End()
}

// SpanInfo holds information about a tracing span
type SpanInfo struct {
	ID       string
	ParentID string
	Name     string
	Start    time.Time
}

type span struct {
	info *SpanInfo
	tlog *slog.Logger
}

func (s *span) End() {
	s.tlog.Debug("END",
		slog.String("span_id", s.info.ID),
		slog.String("span_name", s.info.Name),
		slog.Duration("duration", time.Since(s.info.Start)),
	)
}

func WithTraceLogger(ctx context.Context, tlog *slog.Logger) context.Context {
	// If the context already has a trace logger, return the context as is
	if _, ok := ctx.Value(traceLoggerKey{}).(*slog.Logger); ok {
		return ctx
	}
	return context.WithValue(ctx, traceLoggerKey{}, tlog)
}

func getTraceLogFromContext(ctx context.Context) *slog.Logger {
	if tlog, ok := ctx.Value(traceLoggerKey{}).(*slog.Logger); ok {
		// Retrieve the function name of the caller for tracing
		pc, _, _, ok := runtime.Caller(2)
		if ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				tlog = tlog.With(slog.String("fn", fn.Name()))
			}
		}
		if si, ok := ctx.Value(spanKey{}).(*SpanInfo); ok {
			tlog = tlog.With(slog.String("span_id", si.ID))
		}
		return tlog
	}
	return nullLogger
}

func generateSpanID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// WithSpan creates a new span nested under the one in ctx, if any
func WithSpan(ctx context.Context, name string) (context.Context, *SpanInfo) {
	si := &SpanInfo{
		ID:    generateSpanID(),
		Name:  name,
		Start: time.Now(),
	}
	if parent, ok := ctx.Value(spanKey{}).(*SpanInfo); ok {
		si.ParentID = parent.ID
	}
	return context.WithValue(ctx, spanKey{}, si), si
}

// StartSpan creates a span and logs its start. Call End on the result.
func StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, si := WithSpan(ctx, name)
	tlog := getTraceLogFromContext(ctx)
	tlog.Debug("START", slog.String("span_name", name))
	return ctx, &span{info: si, tlog: tlog}
}

func TraceEvent(ctx context.Context, msg string, attrs ...slog.Attr) {
	getTraceLogFromContext(ctx).LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func TraceError(ctx context.Context, err error, msg string, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("error", err.Error()))
	getTraceLogFromContext(ctx).LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
