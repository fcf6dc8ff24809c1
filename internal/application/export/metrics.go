package export

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/generatordok/backend/internal/domain/document"
	"github.com/generatordok/backend/internal/infrastructure/telemetry"
)

const meterName = "generatordok/export"

// Instrument names
const (
	MetricResults       = "export.results"
	MetricDuration      = "export.duration"
	MetricStageDuration = "export.stage.duration"
)

const (
	stageCapture = "capture"
	stageWrite   = "write"
	stageStore   = "store"
)

type pipelineMetrics struct {
	results       *telemetry.Counter
	duration      *telemetry.Histogram
	stageDuration *telemetry.Histogram
}

func newPipelineMetrics(meter metric.Meter) (*pipelineMetrics, error) {
	results, err := telemetry.NewCounter(meter, MetricResults,
		"Export attempts by document type and outcome", "{export}")
	if err != nil {
		return nil, err
	}
	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        MetricDuration,
		Description: "Time from capture start to a stored PDF or a failure",
		Unit:        "s",
		Boundaries:  telemetry.ExportDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	stageDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        MetricStageDuration,
		Description: "Time spent in each export stage",
		Unit:        "s",
		Boundaries:  telemetry.ExportDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &pipelineMetrics{results: results, duration: duration, stageDuration: stageDuration}, nil
}

// result counts one export. Empty surfaces never start, so they carry no
// duration.
func (m *pipelineMetrics) result(ctx context.Context, t document.DocType, outcome Outcome, d time.Duration) {
	if m == nil {
		return
	}
	docType := telemetry.AttrDocType.String(t.String())
	m.results.Inc(ctx, docType, telemetry.AttrOutcome.String(string(outcome)))
	if outcome != OutcomeEmptySurface {
		m.duration.RecordDuration(ctx, d, docType, telemetry.AttrOutcome.String(string(outcome)))
	}
}

func (m *pipelineMetrics) stage(ctx context.Context, t document.DocType, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.RecordDuration(ctx, d,
		telemetry.AttrDocType.String(t.String()),
		telemetry.AttrExportStage.String(stage))
}
