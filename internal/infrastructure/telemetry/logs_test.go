package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/generatordok/backend/internal/infrastructure/telemetry"
)

type recordingExporter struct {
	mu     sync.Mutex
	bodies []string
	levels []log.Severity
}

func (e *recordingExporter) Export(ctx context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
		e.levels = append(e.levels, r.Severity())
	}
	return nil
}

func (e *recordingExporter) Shutdown(ctx context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(ctx context.Context) error { return nil }

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{ServiceName: "generatordok-test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base))
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestLoggerProvider_BridgeWritesBoth(t *testing.T) {
	original := global.GetLoggerProvider()
	t.Cleanup(func() { global.SetLoggerProvider(original) })

	ctx := context.Background()
	exporter := &recordingExporter{}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:     true,
		ServiceName: "generatordok-test",
	}, zap.NewNop(), telemetry.WithLogProcessor(sdklog.NewSimpleProcessor(exporter)))
	require.NoError(t, err)
	require.True(t, lp.IsEnabled())

	core, logs := observer.New(zapcore.InfoLevel)
	bridged := lp.Bridge(zap.New(core))

	bridged.Debug("below level")
	bridged.Info("export completed", zap.String("doc_type", "receipt"))
	bridged.Warn("export failed")
	require.NoError(t, lp.ForceFlush(ctx))

	assert.Equal(t, 2, logs.Len())

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	assert.Equal(t, []string{"export completed", "export failed"}, exporter.bodies)
	assert.Equal(t, []log.Severity{log.SeverityInfo, log.SeverityWarn}, exporter.levels)

	require.NoError(t, lp.Shutdown(ctx))
}
