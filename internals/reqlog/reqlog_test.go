package reqlog

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

func TestFlushReturnsAttrsAndEntries(t *testing.T) {
	collector := New(slog.String("request_id", "abc"))
	collector.Info("loaded tasks", slog.Int("count", 2))
	collector.Add(slog.Int("status", 200))

	args := collector.Flush()
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if attr := args[0].(slog.Attr); attr.Key != "request_id" || attr.Value.String() != "abc" {
		t.Fatalf("unexpected first attr %v", attr)
	}
	if attr := args[1].(slog.Attr); attr.Key != "status" {
		t.Fatalf("unexpected second attr %v", attr)
	}
	entries := args[2].(slog.Attr).Value.Any().([]map[string]any)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["message"] != "loaded tasks" || entries[0]["count"] != int64(2) || entries[0]["seq"] != 1 {
		t.Fatalf("unexpected entry %v", entries[0])
	}

	if again := collector.Flush(); len(again) != 2 {
		t.Fatalf("expected entries drained, got %d args", len(again))
	}
}

func TestLevelTracksHighestEntry(t *testing.T) {
	collector := New()
	if collector.Level() != slog.LevelInfo {
		t.Fatalf("expected info")
	}
	collector.Warn("slow")
	collector.Debug("detail")
	if collector.Level() != slog.LevelWarn {
		t.Fatalf("expected warn, got %s", collector.Level())
	}
	collector.Error("boom")
	if collector.Level() != slog.LevelError {
		t.Fatalf("expected error, got %s", collector.Level())
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var collector *Collector
	collector.Info("ignored")
	collector.Add(slog.Int("status", 200))
	if collector.Flush() != nil {
		t.Fatalf("expected nil flush")
	}
	if FromContext(context.Background()) != nil {
		t.Fatalf("expected nil collector from empty context")
	}
}

func TestContextRoundTrip(t *testing.T) {
	collector := New()
	ctx := WithContext(context.Background(), collector)
	if FromContext(ctx) != collector {
		t.Fatalf("expected same collector")
	}
}

func TestConcurrentAppend(t *testing.T) {
	collector := New()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.Info("tick")
		}()
	}
	wg.Wait()

	args := collector.Flush()
	entries := args[len(args)-1].(slog.Attr).Value.Any().([]map[string]any)
	if len(entries) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(entries))
	}
}
