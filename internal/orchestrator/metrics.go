package orchestrator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records run and phase timings. All instruments come from the
// global meter provider, a no-op unless the host process installs one.
type Metrics struct {
	runDuration   metric.Float64Histogram
	phaseDuration metric.Float64Histogram
	runsTotal     metric.Int64Counter
}

func NewMetrics() *Metrics {
	meter := otel.Meter("github.com/fyrsmithlabs/assessd/internal/orchestrator")

	runDuration, _ := meter.Float64Histogram(
		"assessd.run.duration_seconds",
		metric.WithDescription("Wall-clock duration of one assessment run"),
		metric.WithUnit("s"),
	)
	phaseDuration, _ := meter.Float64Histogram(
		"assessd.run.phase_duration_seconds",
		metric.WithDescription("Wall-clock duration of one lifecycle phase"),
		metric.WithUnit("s"),
	)
	runsTotal, _ := meter.Int64Counter(
		"assessd.runs_total",
		metric.WithDescription("Completed assessment runs by final state"),
	)

	return &Metrics{
		runDuration:   runDuration,
		phaseDuration: phaseDuration,
		runsTotal:     runsTotal,
	}
}

func (m *Metrics) RecordRun(ctx context.Context, state State, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("state", string(state)))
	m.runDuration.Record(ctx, elapsed.Seconds(), attrs)
	m.runsTotal.Add(ctx, 1, attrs)
}

func (m *Metrics) RecordPhase(ctx context.Context, phase Phase, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.String("phase", phase.Name)))
}
