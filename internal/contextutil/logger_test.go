package contextutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestLoggerFromContext(t *testing.T) {
	if got := LoggerFromContext(context.Background()); got != slog.Default() {
		t.Error("LoggerFromContext() without logger should return slog.Default()")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), logger)
	if got := LoggerFromContext(ctx); got != logger {
		t.Error("LoggerFromContext() should return the stored logger")
	}
}

func TestSessionIDFromContext(t *testing.T) {
	if got := SessionIDFromContext(context.Background()); got != "" {
		t.Errorf("SessionIDFromContext() = %q, want empty", got)
	}

	ctx := WithSessionID(context.Background(), "abc")
	if got := SessionIDFromContext(ctx); got != "abc" {
		t.Errorf("SessionIDFromContext() = %q, want abc", got)
	}
}
