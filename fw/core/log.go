// Package core holds the ambient plumbing the forwarding pipelines lean
// on: structured logging, the single-threaded reactor/scheduler, YAML
// configuration, the nonce source, and the forwarding-delay callback
// shape. None of it is forwarding logic; all of it is exercised by fw/fw
// and fw/table.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	stdlog "github.com/ndnfw/planes/std/log"
)

// Module is any type that can name itself in a log line — every forwarder,
// strategy and transport face implements it, the same way teacher call sites pass
// `s` (a *Multicast, a *FIBModule, ...) as the first argument to
// core.Log.Debug/Trace/...
type Module interface {
	String() string
}

// Logger is a small structured-logging facility over log/slog. Call shape
// is core.Log.Level(module, msg, "key", value, ...).
type Logger struct {
	level   stdlog.Level
	handler *slog.Logger
}

// Log is the process-wide logging facility, mutable via SetLevel.
var Log = NewLogger(stdlog.LevelInfo)

// NewLogger constructs a Logger writing to stderr at the given level.
func NewLogger(level stdlog.Level) *Logger {
	return &Logger{
		level:   level,
		handler: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// SetLevel adjusts the minimum level that will be emitted.
func (l *Logger) SetLevel(level stdlog.Level) {
	l.level = level
	l.handler = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(level)}))
}

func (l *Logger) log(level stdlog.Level, module Module, msg string, kv []any) {
	if level < l.level {
		return
	}
	args := make([]any, 0, len(kv)+2)
	args = append(args, "module", module.String())
	args = append(args, kv...)
	l.handler.Log(context.Background(), slog.Level(level), msg, args...)
}

// Trace logs at the lowest severity, used for per-packet pipeline tracing.
func (l *Logger) Trace(module Module, msg string, kv ...any) {
	l.log(stdlog.LevelTrace, module, msg, kv)
}

// Debug logs a debug-level event.
func (l *Logger) Debug(module Module, msg string, kv ...any) {
	l.log(stdlog.LevelDebug, module, msg, kv)
}

// Info logs an info-level event.
func (l *Logger) Info(module Module, msg string, kv ...any) {
	l.log(stdlog.LevelInfo, module, msg, kv)
}

// Warn logs a warning.
func (l *Logger) Warn(module Module, msg string, kv ...any) {
	l.log(stdlog.LevelWarn, module, msg, kv)
}

// Error logs an error.
func (l *Logger) Error(module Module, msg string, kv ...any) {
	l.log(stdlog.LevelError, module, msg, kv)
}

// Fatal logs at fatal severity and terminates the process, for call sites
// that cannot continue, such as a forwarder whose strategy registry
// installation is broken.
func (l *Logger) Fatal(module Module, msg string, kv ...any) {
	l.log(stdlog.LevelFatal, module, msg, kv)
	os.Exit(1)
}

// StringModule adapts a plain string to Module, for log call sites that
// don't have a receiver handy (e.g. package-level init errors).
type StringModule string

func (s StringModule) String() string { return string(s) }

// Namef builds a Module from a format string, e.g. core.Namef("face[%d]", id).
func Namef(format string, args ...any) Module {
	return StringModule(fmt.Sprintf(format, args...))
}
