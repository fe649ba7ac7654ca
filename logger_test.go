package dwgdraw

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	ctx := context.Background()
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(ctx, level) {
			t.Errorf("Enabled(%v) = true", level)
		}
	}
	if err := h.Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("Handle() = %v", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("id", 1)}).(nopHandler); !ok {
		t.Error("WithAttrs did not return a nopHandler")
	}
	if _, ok := h.WithGroup("dispatch").(nopHandler); !ok {
		t.Error("WithGroup did not return a nopHandler")
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	if Logger().Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("default logger is enabled")
	}

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)
	if Logger() != custom {
		t.Fatal("Logger() did not return the installed logger")
	}
	Logger().Debug("dispatch: enter block", "id", 2)
	if !strings.Contains(buf.String(), "enter block") {
		t.Errorf("output = %q", buf.String())
	}

	SetLogger(nil)
	if l := Logger(); l == nil || l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			if i%2 == 0 {
				SetLogger(slog.Default())
				return
			}
			Logger().Debug("concurrent read")
		})
	}
	wg.Wait()
}
