// Package reqlog collects log entries for a single HTTP request so the access
// log can emit them as one structured line.
package reqlog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Entry struct {
	Level   slog.Level
	Message string
	At      time.Time
	Seq     int
	Attrs   []slog.Attr
}

// Collector is safe for concurrent use. A nil Collector discards everything.
type Collector struct {
	mu      sync.Mutex
	attrs   []slog.Attr
	entries []Entry
}

func New(attrs ...slog.Attr) *Collector {
	return &Collector{attrs: append([]slog.Attr(nil), attrs...)}
}

// Add attaches attrs to the request line itself rather than to an entry.
func (c *Collector) Add(attrs ...slog.Attr) {
	if c == nil || len(attrs) == 0 {
		return
	}
	c.mu.Lock()
	c.attrs = append(c.attrs, attrs...)
	c.mu.Unlock()
}

func (c *Collector) Debug(message string, attrs ...slog.Attr) {
	c.append(slog.LevelDebug, message, attrs)
}

func (c *Collector) Info(message string, attrs ...slog.Attr) {
	c.append(slog.LevelInfo, message, attrs)
}

func (c *Collector) Warn(message string, attrs ...slog.Attr) {
	c.append(slog.LevelWarn, message, attrs)
}

func (c *Collector) Error(message string, attrs ...slog.Attr) {
	c.append(slog.LevelError, message, attrs)
}

// Level is the highest level recorded so far.
func (c *Collector) Level() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	level := slog.LevelInfo
	for _, entry := range c.entries {
		if entry.Level > level {
			level = entry.Level
		}
	}
	return level
}

// Flush drains the collected entries and returns the request attrs followed by
// an "entries" attr, ready to pass to a slog call.
func (c *Collector) Flush() []any {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	attrs := append([]slog.Attr(nil), c.attrs...)
	entries := c.entries
	c.entries = nil
	c.mu.Unlock()

	args := make([]any, 0, len(attrs)+1)
	for _, attr := range attrs {
		args = append(args, attr)
	}
	if len(entries) > 0 {
		args = append(args, slog.Any("entries", entriesPayload(entries)))
	}
	return args
}

func (c *Collector) append(level slog.Level, message string, attrs []slog.Attr) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = append(c.entries, Entry{
		Level:   level,
		Message: message,
		At:      time.Now(),
		Seq:     len(c.entries) + 1,
		Attrs:   append([]slog.Attr(nil), attrs...),
	})
	c.mu.Unlock()
}

func entriesPayload(entries []Entry) []map[string]any {
	payload := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		item := map[string]any{
			"level":   entry.Level.String(),
			"message": entry.Message,
			"at":      entry.At,
			"seq":     entry.Seq,
		}
		for _, attr := range entry.Attrs {
			if _, exists := item[attr.Key]; exists {
				continue
			}
			item[attr.Key] = attr.Value.Resolve().Any()
		}
		payload = append(payload, item)
	}
	return payload
}

type contextKey struct{}

func WithContext(ctx context.Context, collector *Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, collector)
}

func FromContext(ctx context.Context) *Collector {
	collector, _ := ctx.Value(contextKey{}).(*Collector)
	return collector
}
