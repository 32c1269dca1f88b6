package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	reqLogger := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "req-1")
	ctx := NewContext(context.Background(), reqLogger)

	InfoContext(ctx, "Request completed")
	assert.Contains(t, buf.String(), "request_id=req-1")

	assert.Same(t, Get(), FromContext(context.Background()))
}

func TestExternalServiceResult(t *testing.T) {
	var buf bytes.Buffer
	prev := defaultLogger
	defaultLogger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer func() { defaultLogger = prev }()

	ExternalServiceResult("kafka", "publish", errors.New("broker unavailable"), "messages", 3)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "broker unavailable")

	buf.Reset()
	ExternalServiceResult("smtp", "publish", nil)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "External service call succeeded")
}
