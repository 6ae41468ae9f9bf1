// Package testlog routes geth-style log output to the unit test log.
package testlog

import (
	"bytes"
	"log/slog"

	"github.com/ethereum/go-ethereum/log"
)

// Testing is the subset of testing.TB needed to log. Standard Go testing.T
// and Go-like test frameworks implement this.
type Testing interface {
	Logf(format string, args ...any)
	Helper()
}

// Logger returns a logger which logs to the unit test log of t.
func Logger(t Testing, level slog.Level) log.Logger {
	handler := slog.NewTextHandler(&testWriter{t: t}, &slog.HandlerOptions{Level: level})
	return log.NewLogger(handler)
}

type testWriter struct {
	t Testing
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Logf("%s", bytes.TrimRight(p, "\n"))
	return len(p), nil
}
