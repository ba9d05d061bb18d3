// Package testutil holds small helpers shared across test packages.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

// DiscardLogger returns a logger whose output is thrown away.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MustParseRFC3339 parses an RFC3339 timestamp or fails the test.
func MustParseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

// NowAt returns a clock function frozen at the given instant.
func NowAt(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
