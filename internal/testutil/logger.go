// Package testutil holds shared helpers for package tests.
package testutil

import (
	"log/slog"
	"strings"
	"testing"
)

// NewTestLogger returns a debug-level logger routed through t.Log, so log
// output shows up only on failure or under -v.
func NewTestLogger(tb testing.TB) *slog.Logger {
	return NewTestLoggerAt(tb, slog.LevelDebug)
}

// NewTestLoggerAt is NewTestLogger with an explicit minimum level.
func NewTestLoggerAt(tb testing.TB, level slog.Leveler) *slog.Logger {
	tb.Helper()
	return slog.New(slog.NewTextHandler(tbWriter{tb}, &slog.HandlerOptions{
		Level: level,
	}))
}

type tbWriter struct {
	tb testing.TB
}

// Write forwards one handler line to tb.Log, trimming the handler's
// trailing newline so entries are not double-spaced.
func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
