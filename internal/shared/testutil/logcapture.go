package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log call with its attributes flattened,
// including those added through Logger.With
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// logSink is shared by a LogCapture and every handler derived from it
type logSink struct {
	mu      sync.Mutex
	records []LogRecord
}

// LogCapture is a slog.Handler that keeps records in memory
type LogCapture struct {
	sink  *logSink
	attrs []slog.Attr
	t     *testing.T
}

// NewLogCapture returns a logger writing into a new LogCapture. Records are
// echoed to the test log when t is not nil.
func NewLogCapture(t *testing.T) (*slog.Logger, *LogCapture) {
	c := &LogCapture{sink: &logSink{}, t: t}
	return slog.New(c), c
}

// Enabled captures every level
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

	c.sink.mu.Lock()
	c.sink.records = append(c.sink.records, LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	c.sink.mu.Unlock()

	if c.t != nil {
		c.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs returns a handler sharing the same records
func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	merged = append(merged, c.attrs...)
	merged = append(merged, attrs...)
	return &LogCapture{sink: c.sink, attrs: merged, t: c.t}
}

// WithGroup is ignored; keys stay flat
func (c *LogCapture) WithGroup(string) slog.Handler {
	return c
}

// Records returns a copy of everything captured so far
func (c *LogCapture) Records() []LogRecord {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()

	out := make([]LogRecord, len(c.sink.records))
	copy(out, c.sink.records)
	return out
}

// Find returns the records whose message equals msg
func (c *LogCapture) Find(msg string) []LogRecord {
	var out []LogRecord
	for _, r := range c.Records() {
		if r.Message == msg {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of records at level
func (c *LogCapture) Count(level slog.Level) int {
	n := 0
	for _, r := range c.Records() {
		if r.Level == level {
			n++
		}
	}
	return n
}

// AssertLogged fails unless a record with msg was logged at level
func AssertLogged(t *testing.T, c *LogCapture, level slog.Level, msg string) LogRecord {
	t.Helper()

	for _, r := range c.Find(msg) {
		if r.Level == level {
			return r
		}
	}

	t.Errorf("no %s record %q", level, msg)
	for _, r := range c.Records() {
		t.Logf("  - [%s] %s", r.Level, r.Message)
	}
	return LogRecord{}
}

// AssertLogAttr fails unless a record with msg carries key=want. Integer
// attributes are compared as int64, the way slog stores them.
func AssertLogAttr(t *testing.T, c *LogCapture, msg, key string, want any) {
	t.Helper()

	if i, ok := want.(int); ok {
		want = int64(i)
	}
	for _, r := range c.Find(msg) {
		if got, ok := r.Attrs[key]; ok && got == want {
			return
		}
	}

	t.Errorf("no record %q with %s=%v", msg, key, want)
	for _, r := range c.Find(msg) {
		t.Logf("  - %v", r.Attrs)
	}
}

// AssertNoErrors fails if anything was logged at error level
func AssertNoErrors(t *testing.T, c *LogCapture) {
	t.Helper()

	for _, r := range c.Records() {
		if r.Level >= slog.LevelError {
			t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
		}
	}
}

// ContainsMessage reports whether any message contains substr
func (c *LogCapture) ContainsMessage(substr string) bool {
	for _, r := range c.Records() {
		if strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}
