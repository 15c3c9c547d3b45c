package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/futuremech/fmweb/pkg/core/log"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	buf := &bytes.Buffer{}
	require.NoError(t, log.Setup(buf, level, "json"))
	return buf
}

func TestScopedAttributes(t *testing.T) {
	buf := capture(t, "info")
	ctx := log.With(context.Background(), slog.String("request_id", "r-1"))
	ctx = log.With(ctx, log.ID("user", 7))
	log.Info(ctx, "checked out", slog.Int("items", 2))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	assert.Equal(t, "checked out", rec["msg"])
	assert.Equal(t, "r-1", rec["request_id"])
	assert.EqualValues(t, 7, rec["user"])
	assert.EqualValues(t, 2, rec["items"])
	src, _ := rec["source"].(map[string]any)
	assert.Contains(t, src["file"], "log_test.go", "caller of log.Info")
}

func TestSetupLevel(t *testing.T) {
	buf := capture(t, "warn")
	log.Info(context.Background(), "dropped")
	assert.Zero(t, buf.Len())
	log.Warn(context.Background(), "kept", log.Err("err", nil))
	assert.Contains(t, buf.String(), `"err":"no-error"`)
}

func TestSetupRejectsUnknownSettings(t *testing.T) {
	assert.Error(t, log.Setup(&bytes.Buffer{}, "loud", "json"))
	assert.Error(t, log.Setup(&bytes.Buffer{}, "info", "xml"))
}

func TestEmailIsMasked(t *testing.T) {
	assert.Equal(t, "j***@example.com", log.Email("to", "jane@example.com").Value.String())
	assert.Equal(t, "***", log.Email("to", "broken").Value.String())
}
