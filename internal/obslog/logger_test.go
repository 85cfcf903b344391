package obslog

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerIncludesCorrelationIDAndLayer(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{
		Writer:    &buf,
		Level:     "debug",
		Layer:     "executor",
		Component: "loader",
	})
	require.NoError(t, err)

	ctx := WithCorrelationID(context.Background(), "abc123")
	logger.Info(ctx, "loaded flow", "path", "/tmp/flow.json")

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &payload))

	require.Equal(t, "executor", payload["layer"])
	require.Equal(t, "loader", payload["component"])
	require.Equal(t, "abc123", payload["correlation_id"])
	require.Equal(t, "/tmp/flow.json", payload["path"])
}

func TestLoggerWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	child := logger.With("component", "executor")
	child.Warn(context.Background(), "step failed", "step_id", "build")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload))
	require.Equal(t, "executor", payload["component"])
	require.Equal(t, "build", payload["step_id"])
}

func TestNoOpLoggerDiscards(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	noop := NewNoOpLogger()
	noop.Info(context.Background(), "hello")
	require.Zero(t, buf.Len())
	require.Same(t, noop, noop.With("key", "value"))

	base.Info(context.Background(), "emitted")
	require.NotZero(t, buf.Len())
}
