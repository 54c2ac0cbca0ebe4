package ctxlog_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/Rafaelius/jsbuild/internal/ctxlog"
)

func TestFromContextReturnsLoggerStoredWithWithLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)
	ctxlog.FromContext(ctx).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("want log line in buffer, got %q", buf.String())
	}
}

func TestFromContextFallsBackToDefaultLogger(t *testing.T) {
	t.Parallel()
	if got := ctxlog.FromContext(context.Background()); got != slog.Default() {
		t.Errorf("want slog.Default(), got %v", got)
	}
}
