package npr

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so disabled
// calls cost a single interface check.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var silent = slog.New(nopHandler{})

var active atomic.Pointer[slog.Logger]

func init() { active.Store(silent) }

// SetLogger installs l as the package logger used by filters and graphs
// built without [WithLogger]; nil silences output again. Filters emit
// Debug records for sizes, negotiated channels and iteration counts, and
// Warn records for recoverable preconditions (pass-through, skipped
// measurement, unplaced stipples, empty stipple databases).
//
//	npr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	active.Store(l)
}

// Logger returns the package logger.
func Logger() *slog.Logger { return active.Load() }
