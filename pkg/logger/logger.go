// Package logger wraps zerolog behind a context-first API. Fields attach to
// the context, not the logger value, so request- and job-scoped metadata
// follows the call chain without threading logger instances through every
// signature.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocksentryhq/stocksentry-backend/pkg/env"
)

// Options is everything New needs. The zero value yields an info-level JSON
// logger on stdout.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
}

type Logger struct {
	root      *zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

// New builds a logger that emits JSON lines by default. Setting
// LOG_FORMAT=console switches to human-readable output for local runs.
func New(opts Options) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	root := zerolog.New(writerFor(opts.Output)).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(level)

	return &Logger{
		root:      &root,
		warnStack: opts.WarnStack,
	}
}

func writerFor(out io.Writer) io.Writer {
	if out == nil {
		out = os.Stdout
	}
	if env.Get("LOG_FORMAT", "json") == "console" {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}
	return out
}

// ParseLevel is forgiving: blank or unknown names fall back to info.
func ParseLevel(value string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithField returns a context whose log entries carry key=value.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	entry := l.fromCtx(ctx).With().Interface(key, value).Logger()
	return stash(ctx, entry)
}

// WithFields attaches several fields at once.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	builder := l.fromCtx(ctx).With()
	for k, v := range fields {
		builder = builder.Interface(k, v)
	}
	return stash(ctx, builder.Logger())
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.fromCtx(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	evt := l.fromCtx(ctx).Warn()
	if l.warnStack {
		evt = evt.Str("stack", stack())
	}
	evt.Msg(msg)
}

// Error always records a stack; error-level events are rare enough that the
// capture cost does not matter and the trace usually does.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	evt := l.fromCtx(ctx).Error()
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Str("stack", stack()).Msg(msg)
}

func (l *Logger) fromCtx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return l.root
}

func stash(ctx context.Context, entry zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, &entry)
}

func stack() string {
	return strings.TrimSpace(string(debug.Stack()))
}
