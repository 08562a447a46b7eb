package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/postboard/internal/logger"
)

func TestCtxAttrsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, "json", slog.LevelInfo)

	ctx := logger.Ctx(context.Background(), slog.String("run_id", "abc"))
	ctx = logger.Ctx(ctx, slog.Int("batch", 3))
	l.InfoContext(ctx, "inserted batch")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "inserted batch", rec["msg"])
	assert.Equal(t, "abc", rec["run_id"])
	assert.EqualValues(t, 3, rec["batch"])
}

func TestCtxSiblingsDoNotShareAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, "json", slog.LevelInfo)

	parent := logger.Ctx(context.Background(), slog.String("a", "1"))
	left := logger.Ctx(parent, slog.String("side", "left"))
	_ = logger.Ctx(parent, slog.String("side", "right"))

	l.InfoContext(left, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "left", rec["side"])
}

func TestWithAttrsKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, "json", slog.LevelInfo).With("component", "ingest")

	l.InfoContext(logger.Ctx(context.Background(), slog.String("run_id", "x")), "hi")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ingest", rec["component"])
	assert.Equal(t, "x", rec["run_id"])
}
