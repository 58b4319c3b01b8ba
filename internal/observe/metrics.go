// Package observe provides the visualizer's OpenTelemetry metrics.
//
// Instruments are created from a [metric.MeterProvider] by [NewMetrics]. The
// application installs a Prometheus exporter bridge with [InitProvider] so
// the numbers can be scraped from /metrics. Tests should build their own
// provider with a manual reader rather than relying on the global one.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope name used for all govis metrics.
const meterName = "github.com/tejashwikalptaru/govis"

// Frame sources recorded on govis.frames.rendered.
const (
	SourceAnalyser  = "analyser"
	SourceSimulated = "simulated"
)

// Metrics holds all OpenTelemetry instruments of the visualizer.
// All fields are safe for concurrent use.
type Metrics struct {
	// FramesRendered counts painted frames. Use with attribute:
	//   attribute.String("mode", ...), attribute.String("source", ...)
	FramesRendered metric.Int64Counter

	// FramesSimulated counts frames produced by the simulated generator.
	FramesSimulated metric.Int64Counter

	// SamplerErrors counts failed samples. Use with attribute:
	//   attribute.String("kind", ...)
	SamplerErrors metric.Int64Counter

	// RenderDuration tracks time spent planning and rasterizing one frame.
	RenderDuration metric.Float64Histogram

	// FallbackActive is 1 while the driver is drawing simulated data.
	FallbackActive metric.Int64UpDownCounter
}

// renderBuckets are histogram boundaries (in seconds) around a 60 Hz frame budget.
var renderBuckets = []float64{
	0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066,
}

// NewMetrics creates all instruments using the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FramesRendered, err = m.Int64Counter("govis.frames.rendered",
		metric.WithDescription("Total frames painted by render mode and data source."),
	); err != nil {
		return nil, err
	}
	if met.FramesSimulated, err = m.Int64Counter("govis.frames.simulated",
		metric.WithDescription("Total frames synthesized because sampling failed."),
	); err != nil {
		return nil, err
	}
	if met.SamplerErrors, err = m.Int64Counter("govis.sampler.errors",
		metric.WithDescription("Total sampler failures by kind."),
	); err != nil {
		return nil, err
	}
	if met.RenderDuration, err = m.Float64Histogram("govis.render.duration",
		metric.WithDescription("Time spent painting one frame."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(renderBuckets...),
	); err != nil {
		return nil, err
	}
	if met.FallbackActive, err = m.Int64UpDownCounter("govis.fallback.active",
		metric.WithDescription("1 while simulated frames are being drawn."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a package level instance created from the global
// meter provider on first use. If the global provider cannot create the
// instruments, the instance records nothing.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = metricsOrNoop(otel.GetMeterProvider())
	})
	return defaultMetrics
}

// metricsOrNoop builds instruments from mp, falling back to no-op instruments
// when mp fails.
func metricsOrNoop(mp metric.MeterProvider) *Metrics {
	m, err := NewMetrics(mp)
	if err == nil {
		return m
	}
	otel.Handle(err)
	m, _ = NewMetrics(noop.NewMeterProvider())
	return m
}

// RecordFrame records one painted frame and how long painting took.
func (m *Metrics) RecordFrame(ctx context.Context, mode, source string, d time.Duration) {
	m.FramesRendered.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("source", source),
	))
	if source == SourceSimulated {
		m.FramesSimulated.Add(ctx, 1)
	}
	m.RenderDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("mode", mode)))
}

// RecordSamplerError counts a failed sample.
func (m *Metrics) RecordSamplerError(ctx context.Context, kind string) {
	m.SamplerErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// SetFallback moves the fallback gauge when the driver enters or leaves it.
func (m *Metrics) SetFallback(ctx context.Context, active bool) {
	if active {
		m.FallbackActive.Add(ctx, 1)
		return
	}
	m.FallbackActive.Add(ctx, -1)
}
