package hybridscan

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_LogSearch(t *testing.T) {
	ctx := context.Background()
	l, buf := newBufferLogger(slog.LevelDebug)

	l.LogSearch(ctx, 2, 10, 7, time.Millisecond, nil)
	l.LogSearch(ctx, 6, 10, 0, 0, errors.New("boom"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "search completed", lines[0]["msg"])
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.EqualValues(t, 7, lines[0]["hits"])
	assert.Equal(t, "search failed", lines[1]["msg"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestLogger_Levels(t *testing.T) {
	ctx := context.Background()
	l, buf := newBufferLogger(slog.LevelInfo)

	l.LogSearch(ctx, 1, 1, 1, time.Millisecond, nil) // debug, dropped
	l.LogSegmentLoad(ctx, "a", 128, 3, nil)
	l.WithSegment("b").LogWrite(ctx, "b", 3, 256, nil)
	l.LogDelete(ctx, 42, errors.New("missing"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "segment loaded", lines[0]["msg"])
	assert.EqualValues(t, 128, lines[0]["bytes"])
	assert.Equal(t, "segment written", lines[1]["msg"])
	assert.Equal(t, "b", lines[1]["segment"])
	assert.Equal(t, "delete failed", lines[2]["msg"])
	assert.EqualValues(t, 42, lines[2]["pk"])
}

func TestNoopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NoopLogger().LogSearch(context.Background(), 1, 1, 1, time.Second, errors.New("x"))
	})
}

func TestApplyOptions(t *testing.T) {
	o := applyOptions(nil)
	assert.Equal(t, DefaultWindowSize, o.windowSize)
	assert.Equal(t, CompressionZSTD, o.compression)
	assert.Equal(t, "segments/", o.segmentPrefix)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)

	o = applyOptions([]Option{
		WithWindowSize(128),
		WithConcurrency(2),
		WithMetricsCollector(nil),
		WithLogger(nil),
		WithSegmentPrefix("idx/"),
		nil,
	})
	assert.Equal(t, 128, o.windowSize)
	assert.Equal(t, 2, o.concurrency)
	assert.NotNil(t, o.logger)
	assert.Equal(t, "idx/", o.segmentPrefix)
}
