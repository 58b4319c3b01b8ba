package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/observe"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// DriverDependencies are the collaborators of the animation driver.
// Graph and Metrics are optional.
type DriverDependencies struct {
	Playback  ports.PlaybackSignal
	Graph     ports.AnalysisGraph
	Sampler   ports.SpectrumSampler
	Generator ports.SignalGenerator
	Renderer  ports.FrameRenderer
	Surface   ports.Surface
	Scheduler ports.Scheduler
	Bus       ports.EventBus
	Metrics   *observe.Metrics

	// Mode is the initial render mode. Defaults to domain.DefaultRenderMode.
	Mode domain.RenderMode
}

// DriverService is the per-frame animation loop.
//
// While running it keeps exactly one tick scheduled. Every tick checks the
// playback signal, schedules its successor, samples the spectrum (falling back
// to the simulated generator on any sampler error) and paints one frame with
// the mode current at that moment.
//
// Sampler errors never leave the driver. They are counted, and logged only
// when the driver switches between real and simulated data.
type DriverService struct {
	logger *slog.Logger
	deps   DriverDependencies

	// frameMu serializes ticks so two frames never paint the surface at once.
	frameMu sync.Mutex

	mu         sync.Mutex
	state      domain.DriverState
	mode       domain.RenderMode
	handle     ports.TickHandle
	generation uint64
	fallback   bool
}

// NewDriverService creates an idle driver.
func NewDriverService(logger *slog.Logger, deps DriverDependencies) *DriverService {
	if deps.Metrics == nil {
		deps.Metrics = observe.DefaultMetrics()
	}
	mode := deps.Mode
	if !mode.IsValid() {
		mode = domain.DefaultRenderMode
	}

	logger.Debug("animation driver initialized", slog.String("mode", mode.String()))

	return &DriverService{
		logger: logger,
		deps:   deps,
		state:  domain.DriverIdle,
		mode:   mode,
	}
}

// Start begins the frame loop. Calling Start while running is a no-op apart
// from retrying the analysis graph, so a graph that failed before gets
// another chance every time playback resumes.
func (d *DriverService) Start() {
	if d.deps.Graph != nil {
		if err := d.deps.Graph.EnsureGraph(); err != nil {
			d.logger.Debug("analysis graph unavailable", slog.Any("error", err))
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == domain.DriverRunning {
		return
	}

	d.state = domain.DriverRunning
	d.generation++
	d.scheduleLocked()

	d.logger.Debug("animation started", slog.Uint64("generation", d.generation))
}

// Stop cancels the pending tick. The surface keeps its last frame.
func (d *DriverService) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == domain.DriverIdle {
		return
	}

	d.idleLocked()
	d.logger.Debug("animation stopped")
}

// SetMode selects the render mode used from the next tick on.
func (d *DriverService) SetMode(mode domain.RenderMode) error {
	if !mode.IsValid() {
		return domain.NewValidationError("render_mode", mode, "must be one of bars, wave, circle")
	}

	d.mu.Lock()
	if d.mode == mode {
		d.mu.Unlock()
		return nil
	}
	d.mode = mode
	d.mu.Unlock()

	d.logger.Debug("render mode changed", slog.String("mode", mode.String()))
	if d.deps.Bus != nil {
		d.deps.Bus.Publish(domain.NewRenderModeChangedEvent(mode))
	}
	return nil
}

// Mode returns the current render mode.
func (d *DriverService) Mode() domain.RenderMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// State returns whether a frame is scheduled.
func (d *DriverService) State() domain.DriverState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Simulated reports whether the last frame was drawn from simulated data.
func (d *DriverService) Simulated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fallback
}

// scheduleLocked arranges the next tick for the current generation.
// Caller must hold d.mu.
func (d *DriverService) scheduleLocked() {
	gen := d.generation
	d.handle = d.deps.Scheduler.Schedule(func(now time.Time) {
		d.tick(gen, now)
	})
}

// idleLocked cancels the pending tick and invalidates any tick already in flight.
// Caller must hold d.mu.
func (d *DriverService) idleLocked() {
	d.generation++
	if d.handle != nil {
		d.handle.Cancel()
		d.handle = nil
	}
	d.state = domain.DriverIdle
}

// tick renders one frame. Ticks from an earlier generation are ignored.
func (d *DriverService) tick(gen uint64, now time.Time) {
	d.frameMu.Lock()
	defer d.frameMu.Unlock()

	d.mu.Lock()
	if gen != d.generation || d.state != domain.DriverRunning {
		d.mu.Unlock()
		return
	}

	if !d.deps.Playback.IsPlaying() {
		d.handle = nil
		d.generation++
		d.state = domain.DriverIdle
		d.mu.Unlock()
		d.logger.Debug("playback not active, animation idle")
		return
	}

	d.scheduleLocked()
	mode := d.mode
	d.mu.Unlock()

	ctx := context.Background()
	source := observe.SourceAnalyser

	frame, err := d.deps.Sampler.Sample()
	if err != nil {
		d.deps.Metrics.RecordSamplerError(ctx, domain.SamplerErrorKind(err))
		frame = d.deps.Generator.Simulate(now)
		source = observe.SourceSimulated
	}
	d.updateFallback(ctx, err)

	img := d.deps.Surface.Image()
	if img == nil {
		return
	}

	start := time.Now()
	d.deps.Renderer.Paint(img, frame, mode)
	d.deps.Surface.Present()
	d.deps.Metrics.RecordFrame(ctx, mode.String(), source, time.Since(start))
}

// updateFallback records a switch between analysed and simulated frames.
func (d *DriverService) updateFallback(ctx context.Context, sampleErr error) {
	active := sampleErr != nil

	d.mu.Lock()
	changed := d.fallback != active
	d.fallback = active
	d.mu.Unlock()

	if !changed {
		return
	}

	if active {
		d.logger.Debug("sampling failed, drawing simulated spectrum",
			slog.String("kind", domain.SamplerErrorKind(sampleErr)),
			slog.Any("error", sampleErr))
	} else {
		d.logger.Debug("sampling recovered, drawing analysed spectrum")
	}

	d.deps.Metrics.SetFallback(ctx, active)
	if d.deps.Bus != nil {
		d.deps.Bus.Publish(domain.NewFallbackChangedEvent(active, sampleErr))
	}
}

// Verify that DriverService implements the expected interface patterns
var _ interface {
	Start()
	Stop()
	SetMode(domain.RenderMode) error
	Mode() domain.RenderMode
	State() domain.DriverState
} = (*DriverService)(nil)
