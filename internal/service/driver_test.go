package service

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/tejashwikalptaru/govis/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/govis/internal/adapter/scheduler/manual"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/logger"
	"github.com/tejashwikalptaru/govis/internal/observe"
	"github.com/tejashwikalptaru/govis/internal/ports"
	"github.com/tejashwikalptaru/govis/internal/visualizer"
)

type playingFlag struct{ atomic.Bool }

func (p *playingFlag) IsPlaying() bool { return p.Load() }

type scriptedSampler struct {
	mu    sync.Mutex
	frame domain.AmplitudeFrame
	err   error
	calls int
}

func (s *scriptedSampler) Sample() (domain.AmplitudeFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.frame, nil
}

func (s *scriptedSampler) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type countingGenerator struct {
	calls int
	times []time.Time
}

func (g *countingGenerator) Simulate(now time.Time) domain.AmplitudeFrame {
	g.calls++
	g.times = append(g.times, now)
	return make(domain.AmplitudeFrame, SimulatedBins)
}

type paintCall struct {
	frame domain.AmplitudeFrame
	mode  domain.RenderMode
}

type recordingRenderer struct {
	paints []paintCall
}

func (r *recordingRenderer) Paint(_ *image.RGBA, frame domain.AmplitudeFrame, mode domain.RenderMode) {
	r.paints = append(r.paints, paintCall{frame: frame, mode: mode})
}

type fakeSurface struct {
	img      *image.RGBA
	presents int
}

func (s *fakeSurface) Image() *image.RGBA { return s.img }
func (s *fakeSurface) Present()           { s.presents++ }

type graphSpy struct {
	err   error
	calls int
}

func (g *graphSpy) EnsureGraph() error {
	g.calls++
	return g.err
}

// lateScheduler hands out handles whose Cancel does nothing, to model a
// callback that was already in flight when the driver stopped.
type lateScheduler struct {
	fns []func(time.Time)
}

type noopHandle struct{}

func (noopHandle) Cancel() {}

func (l *lateScheduler) Schedule(fn func(time.Time)) ports.TickHandle {
	l.fns = append(l.fns, fn)
	return noopHandle{}
}

type driverFixture struct {
	driver    *DriverService
	playing   *playingFlag
	sampler   *scriptedSampler
	generator *countingGenerator
	renderer  *recordingRenderer
	surface   *fakeSurface
	scheduler *manual.Scheduler
	graph     *graphSpy
	bus       *eventbus.SyncEventBus
	reader    *sdkmetric.ManualReader
}

func newDriverFixture(t *testing.T) *driverFixture {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observe.NewMetrics(mp)
	require.NoError(t, err)

	f := &driverFixture{
		playing:   &playingFlag{},
		sampler:   &scriptedSampler{frame: domain.AmplitudeFrame{255, 0, 128}},
		generator: &countingGenerator{},
		renderer:  &recordingRenderer{},
		surface:   &fakeSurface{img: image.NewRGBA(image.Rect(0, 0, 300, 150))},
		scheduler: manual.New(),
		graph:     &graphSpy{},
		bus:       eventbus.NewSyncEventBus(logger.NewTestLogger()),
		reader:    reader,
	}
	t.Cleanup(func() { _ = f.bus.Close() })

	f.driver = NewDriverService(logger.NewTestLogger(), DriverDependencies{
		Playback:  f.playing,
		Graph:     f.graph,
		Sampler:   f.sampler,
		Generator: f.generator,
		Renderer:  f.renderer,
		Surface:   f.surface,
		Scheduler: f.scheduler,
		Bus:       f.bus,
		Metrics:   metrics,
	})
	return f
}

func (f *driverFixture) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestDriver_StartSchedulesOneTick(t *testing.T) {
	f := newDriverFixture(t)

	assert.Equal(t, domain.DriverIdle, f.driver.State())
	assert.Equal(t, domain.ModeBars, f.driver.Mode())

	f.driver.Start()
	f.driver.Start()

	assert.Equal(t, domain.DriverRunning, f.driver.State())
	assert.Equal(t, 1, f.scheduler.Pending())
	assert.Equal(t, 2, f.graph.calls, "graph is retried on every start")
}

func TestDriver_TickPaintsSampledFrame(t *testing.T) {
	f := newDriverFixture(t)
	f.playing.Store(true)

	f.driver.Start()
	require.Equal(t, 1, f.scheduler.Fire(time.Now()))

	require.Len(t, f.renderer.paints, 1)
	assert.Equal(t, domain.AmplitudeFrame{255, 0, 128}, f.renderer.paints[0].frame)
	assert.Equal(t, domain.ModeBars, f.renderer.paints[0].mode)
	assert.Equal(t, 1, f.surface.presents)
	assert.Zero(t, f.generator.calls)
	assert.Equal(t, 1, f.scheduler.Pending(), "next tick is scheduled")
	assert.False(t, f.driver.Simulated())
	assert.Equal(t, int64(1), f.counter(t, "govis.frames.rendered"))
}

func TestDriver_NotPlayingGoesIdle(t *testing.T) {
	f := newDriverFixture(t)

	f.driver.Start()
	f.scheduler.Fire(time.Now())

	assert.Empty(t, f.renderer.paints)
	assert.Zero(t, f.sampler.calls)
	assert.Zero(t, f.surface.presents)
	assert.Zero(t, f.scheduler.Pending())
	assert.Equal(t, domain.DriverIdle, f.driver.State())

	// Starting again after playback resumes works.
	f.playing.Store(true)
	f.driver.Start()
	f.scheduler.Fire(time.Now())
	assert.Len(t, f.renderer.paints, 1)
}

func TestDriver_FallbackExactlyOncePerTick(t *testing.T) {
	f := newDriverFixture(t)
	f.playing.Store(true)
	f.sampler.fail(domain.NewSamplerError(domain.ErrAnalyzerUnavailable, "sample", nil))

	var events []domain.FallbackChangedEvent
	f.bus.Subscribe(domain.EventFallbackChanged, func(e domain.Event) {
		events = append(events, e.(domain.FallbackChangedEvent))
	})

	f.driver.Start()
	now := time.Unix(1000, 0)
	for range 3 {
		f.scheduler.Fire(now)
	}

	assert.Equal(t, 3, f.generator.calls)
	assert.Equal(t, []time.Time{now, now, now}, f.generator.times)
	require.Len(t, f.renderer.paints, 3)
	assert.Len(t, f.renderer.paints[0].frame, SimulatedBins)
	assert.True(t, f.driver.Simulated())

	require.Len(t, events, 1, "only the transition is published")
	assert.True(t, events[0].Active)
	assert.ErrorIs(t, events[0].Cause, domain.ErrAnalyzerUnavailable)

	assert.Equal(t, int64(3), f.counter(t, "govis.sampler.errors"))
	assert.Equal(t, int64(3), f.counter(t, "govis.frames.simulated"))
	assert.Equal(t, int64(1), f.counter(t, "govis.fallback.active"))

	// Recovery switches back.
	f.sampler.fail(nil)
	f.scheduler.Fire(now)
	assert.Equal(t, 3, f.generator.calls)
	assert.False(t, f.driver.Simulated())
	require.Len(t, events, 2)
	assert.False(t, events[1].Active)
	assert.Zero(t, f.counter(t, "govis.fallback.active"))
}

func TestDriver_AllSamplerKindsRecovered(t *testing.T) {
	kinds := []error{domain.ErrAnalyzerUnavailable, domain.ErrSamplingFailed, domain.ErrGraphInit}
	for _, kind := range kinds {
		t.Run(domain.SamplerErrorKind(kind), func(t *testing.T) {
			f := newDriverFixture(t)
			f.playing.Store(true)
			f.sampler.fail(domain.NewSamplerError(kind, "sample", nil))

			f.driver.Start()
			f.scheduler.Fire(time.Now())

			assert.Equal(t, 1, f.generator.calls)
			assert.Len(t, f.renderer.paints, 1)
			assert.Equal(t, domain.DriverRunning, f.driver.State())
		})
	}
}

func TestDriver_SetModeAppliesNextTick(t *testing.T) {
	f := newDriverFixture(t)
	f.playing.Store(true)

	var changed []domain.RenderMode
	f.bus.Subscribe(domain.EventRenderModeChanged, func(e domain.Event) {
		changed = append(changed, e.(domain.RenderModeChangedEvent).Mode)
	})

	f.driver.Start()
	f.scheduler.Fire(time.Now())

	require.NoError(t, f.driver.SetMode(domain.ModeCircle))
	require.NoError(t, f.driver.SetMode(domain.ModeCircle))
	assert.Equal(t, 1, f.scheduler.Pending(), "no restart")

	f.scheduler.Fire(time.Now())

	require.Len(t, f.renderer.paints, 2)
	assert.Equal(t, domain.ModeBars, f.renderer.paints[0].mode)
	assert.Equal(t, domain.ModeCircle, f.renderer.paints[1].mode)
	assert.Equal(t, []domain.RenderMode{domain.ModeCircle}, changed)
}

func TestDriver_SetModeRejectsUnknown(t *testing.T) {
	f := newDriverFixture(t)

	err := f.driver.SetMode("spiral")
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.ModeBars, f.driver.Mode())
}

func TestDriver_SetModeWhileIdle(t *testing.T) {
	f := newDriverFixture(t)
	f.playing.Store(true)

	require.NoError(t, f.driver.SetMode(domain.ModeWave))
	assert.Equal(t, domain.DriverIdle, f.driver.State())

	f.driver.Start()
	f.scheduler.Fire(time.Now())
	require.Len(t, f.renderer.paints, 1)
	assert.Equal(t, domain.ModeWave, f.renderer.paints[0].mode)
}

func TestDriver_StopCancelsPendingTick(t *testing.T) {
	f := newDriverFixture(t)
	f.playing.Store(true)

	f.driver.Start()
	f.driver.Stop()
	f.driver.Stop()

	assert.Equal(t, domain.DriverIdle, f.driver.State())
	assert.Equal(t, 1, f.scheduler.Cancelled())
	assert.Zero(t, f.scheduler.Fire(time.Now()))
	assert.Empty(t, f.renderer.paints)
}

func TestDriver_LateTickAfterStopIgnored(t *testing.T) {
	f := newDriverFixture(t)
	f.playing.Store(true)
	late := &lateScheduler{}
	f.driver.deps.Scheduler = late

	f.driver.Start()
	f.driver.Stop()
	f.driver.Start()
	require.Len(t, late.fns, 2)

	// The first callback belongs to the stopped run.
	late.fns[0](time.Now())
	assert.Empty(t, f.renderer.paints)
	assert.Len(t, late.fns, 2, "a stale tick does not reschedule")

	late.fns[1](time.Now())
	assert.Len(t, f.renderer.paints, 1)
	assert.Len(t, late.fns, 3)
}

func TestDriver_NoSurfaceNoPaint(t *testing.T) {
	f := newDriverFixture(t)
	f.playing.Store(true)
	f.surface.img = nil

	f.driver.Start()
	f.scheduler.Fire(time.Now())

	assert.Empty(t, f.renderer.paints)
	assert.Equal(t, 1, f.scheduler.Pending(), "loop keeps running")
}

func TestDriver_WithRealEngine(t *testing.T) {
	f := newDriverFixture(t)
	f.playing.Store(true)
	f.driver.deps.Renderer = visualizer.NewEngine()

	f.driver.Start()
	f.scheduler.Fire(time.Now())

	// First bar of the [255, 0, 128] frame.
	assert.Equal(t, uint8(195), f.surface.img.RGBAAt(10, 100).R)
}

func TestDriver_DefaultsInvalidInitialMode(t *testing.T) {
	d := NewDriverService(logger.NewTestLogger(), DriverDependencies{
		Mode:    "nope",
		Metrics: nil,
	})
	assert.Equal(t, domain.DefaultRenderMode, d.Mode())
}
