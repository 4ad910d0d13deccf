// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package logger carries a [slog] logger in the context.
//
// Library code logs through the package-level functions, which use the
// [Logger] put into the context by the command, or discard everything if
// there is none.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Console returns a handler that writes human-readable records to w,
// colored when color is true. Records below level are dropped.
func Console(w io.Writer, level slog.Leveler, color bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if err, ok := a.Value.Any().(error); ok {
				return tint.Err(err)
			}
			return a
		},
	})
}

// Logger is a [slog.Logger] whose handlers can be attached and detached
// while it is in use. Level is meant to be shared with those handlers.
type Logger struct {
	*slog.Logger
	Level *slog.LevelVar
	out   *fanout
}

// New returns a Logger without handlers. If level is nil, a new
// [slog.LevelVar] at [slog.LevelInfo] is used.
func New(level *slog.LevelVar) *Logger {
	if level == nil {
		level = new(slog.LevelVar)
	}
	out := new(fanout)
	return &Logger{Logger: slog.New(out), Level: level, out: out}
}

// Attach adds h to the handlers records are sent to.
func (l *Logger) Attach(h slog.Handler) { l.out.attach(h) }

// Detach removes h, previously added with Attach.
func (l *Logger) Detach(h slog.Handler) { l.out.detach(h) }

// fanout sends records to every handler that accepts them. The handler
// slice is replaced, never modified, so readers may use it unlocked.
type fanout struct {
	mu       sync.RWMutex
	handlers []slog.Handler
}

func (f *fanout) load() []slog.Handler {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.handlers
}

func (f *fanout) attach(h slog.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(slices.Clip(f.handlers), h)
}

func (f *fanout) detach(h slog.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = slices.DeleteFunc(slices.Clone(f.handlers), func(x slog.Handler) bool { return x == h })
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(f.load(), func(h slog.Handler) bool { return h.Enabled(ctx, level) })
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.load() {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *fanout) WithGroup(name string) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *fanout) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	hs := f.load()
	out := &fanout{handlers: make([]slog.Handler, len(hs))}
	for i, h := range hs {
		out.handlers[i] = fn(h)
	}
	return out
}

var discard = New(nil)

type ctxKey struct{}

// Put returns a copy of ctx carrying l.
func Put(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Get returns the Logger carried by ctx, or one without handlers that
// discards everything.
func Get(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return discard
}

// LevelVar returns the level of the Logger carried by ctx.
func LevelVar(ctx context.Context) *slog.LevelVar { return Get(ctx).Level }

// Debug logs at [slog.LevelDebug].
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// Warn logs at [slog.LevelWarn].
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// Error logs at [slog.LevelError].
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
