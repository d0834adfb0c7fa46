package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord represents a captured log record
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type logStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// LogCapture is an slog.Handler that keeps every record for later assertions.
// Loggers derived through With share the same store.
type LogCapture struct {
	store *logStore
	attrs []slog.Attr
	t     *testing.T
}

// NewTestLogger creates a logger backed by a LogCapture
func NewTestLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	capture := &LogCapture{store: &logStore{}, t: t}
	return slog.New(capture), capture
}

// Enabled implements slog.Handler
func (c *LogCapture) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler
func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(c.attrs)+r.NumAttrs())
	for _, a := range c.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	c.store.mu.Lock()
	c.store.records = append(c.store.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	c.store.mu.Unlock()

	if c.t != nil {
		c.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	merged = append(merged, c.attrs...)
	merged = append(merged, attrs...)
	return &LogCapture{store: c.store, attrs: merged, t: c.t}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (c *LogCapture) WithGroup(string) slog.Handler {
	return c
}

// Records returns a copy of all captured records
func (c *LogCapture) Records() []LogRecord {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	out := make([]LogRecord, len(c.store.records))
	copy(out, c.store.records)
	return out
}

// AtLevel returns captured records of one level
func (c *LogCapture) AtLevel(level slog.Level) []LogRecord {
	var out []LogRecord
	for _, r := range c.Records() {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// ContainsMessage checks if any record message contains the substring
func (c *LogCapture) ContainsMessage(substr string) bool {
	for _, r := range c.Records() {
		if strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}

// ContainsAttr checks if any record carries key=value
func (c *LogCapture) ContainsAttr(key string, value any) bool {
	for _, r := range c.Records() {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// AssertNoErrors fails the test if anything was logged at error level
func AssertNoErrors(t *testing.T, c *LogCapture) {
	t.Helper()

	for _, r := range c.AtLevel(slog.LevelError) {
		t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
	}
}
