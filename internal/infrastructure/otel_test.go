package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeOTel_MetricsTextfile(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "covercli-test", ServiceVersion: "test"}, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordOperationMetrics(ctx, metrics, "cover-loss", 150*time.Millisecond, 12, nil)
	RecordOperationMetrics(ctx, metrics, "merge", time.Second, 0, errors.New("boom"))
	RecordUnmatchedKeys(ctx, metrics, "merge", "left", 2)

	path := filepath.Join(t.TempDir(), "metrics", "covercli.prom")
	require.NoError(t, providers.WriteMetricsFile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "covercli_operations")
	assert.Contains(t, text, "covercli_rows_written")
	assert.Contains(t, text, "covercli_unmatched_keys")
	assert.Contains(t, text, `operation="cover-loss"`)
	assert.Contains(t, text, `status="failure"`)
}

func TestInitializeOTel_Tracing(t *testing.T) {
	var buf bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "covercli-test", EnableTracing: true, TraceWriter: &buf}, nil)
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "operation.merge")
	RecordError(ctx, errors.New("missing column"))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "operation.merge")
	assert.Contains(t, buf.String(), "missing column")
}

func TestWriteMetricsFile_Disabled(t *testing.T) {
	providers, err := InitializeOTel(nil, nil)
	require.NoError(t, err)
	assert.NoError(t, providers.WriteMetricsFile(""))
	assert.Nil(t, providers.TracerProvider)
}
