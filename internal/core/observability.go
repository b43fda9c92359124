package core

import (
	"context"
	"log/slog"
	"time"
)

// Logger is the minimal structured logging surface the service needs.
// Arguments follow the slog convention of alternating keys and values.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type slogLogger struct {
	inner *slog.Logger
}

// NewSlogLogger adapts a slog.Logger to the service Logger interface. A nil
// argument uses slog's default logger.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{inner: l}
}

func (l slogLogger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l slogLogger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l slogLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l slogLogger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// MetricsRecorder receives one observation per service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is one in-flight span; End receives the operation's outcome.
type TraceSpan interface {
	End(err error)
}
