// Package fyne provides Fyne UI adapter implementations.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
	"github.com/tejashwikalptaru/govis/internal/service"
)

// volumeStep is the change applied by the volume keys, in percent.
const volumeStep = 5

// Presenter implements the Presenter pattern (MVP architecture).
// It coordinates between services and the UI, handling all event-driven updates.
//
// Responsibilities:
// - Start the visualizer when playback starts and stop it when playback ends
// - Map domain events to UI updates
// - Translate UI commands to service method calls
//
// Thread-safety: All operations are thread-safe via sync.RWMutex.
type Presenter struct {
	// Dependencies
	logger *slog.Logger

	// Services (injected)
	playbackService   *service.PlaybackService
	preferenceService *service.PreferenceService
	driver            *service.DriverService

	eventBus ports.EventBus
	view     ports.UI

	subscriptions []domain.SubscriptionID

	// Concurrency control
	mu           sync.RWMutex
	shutdownOnce sync.Once
}

// NewPresenter creates a new presenter and syncs the view with the current state.
func NewPresenter(
	logger *slog.Logger,
	playbackService *service.PlaybackService,
	preferenceService *service.PreferenceService,
	driver *service.DriverService,
	eventBus ports.EventBus,
	view ports.UI,
) *Presenter {
	p := &Presenter{
		logger:            logger,
		playbackService:   playbackService,
		preferenceService: preferenceService,
		driver:            driver,
		eventBus:          eventBus,
		view:              view,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		// Playback events
		domain.EventTrackLoaded:     p.onTrackLoaded,
		domain.EventPlaybackStarted: p.onPlaybackStarted,
		domain.EventPlaybackPaused:  p.onPlaybackPaused,
		domain.EventPlaybackStopped: p.onPlaybackStopped,
		domain.EventTrackError:      p.onTrackError,

		// Visualizer events
		domain.EventRenderModeChanged: p.onRenderModeChanged,
		domain.EventFallbackChanged:   p.onFallbackChanged,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for eventType, handler := range subscriptions {
		p.subscriptions = append(p.subscriptions, p.eventBus.Subscribe(eventType, handler))
	}
}

// syncInitialState synchronizes the UI with the current application state.
func (p *Presenter) syncInitialState() {
	p.view.SetRenderMode(p.driver.Mode())
	p.view.SetPlayState(p.playbackService.Status() == domain.StatusPlaying)
	p.view.SetSimulated(p.driver.Simulated())
	if track, ok := p.playbackService.Track(); ok {
		p.view.SetTrackInfo(track)
	}
}

// Event handlers

func (p *Presenter) onTrackLoaded(event domain.Event) {
	e, ok := event.(domain.TrackLoadedEvent)
	if !ok {
		return
	}
	p.view.SetTrackInfo(e.Track)
}

func (p *Presenter) onPlaybackStarted(domain.Event) {
	p.view.SetPlayState(true)
	p.driver.Start()
}

func (p *Presenter) onPlaybackPaused(domain.Event) {
	p.view.SetPlayState(false)
	p.driver.Stop()
}

func (p *Presenter) onPlaybackStopped(domain.Event) {
	p.view.SetPlayState(false)
	p.driver.Stop()
}

func (p *Presenter) onTrackError(event domain.Event) {
	e, ok := event.(domain.TrackErrorEvent)
	if !ok {
		return
	}
	p.view.ShowError(e.Error)
}

func (p *Presenter) onRenderModeChanged(event domain.Event) {
	e, ok := event.(domain.RenderModeChangedEvent)
	if !ok {
		return
	}
	p.view.SetRenderMode(e.Mode)
}

func (p *Presenter) onFallbackChanged(event domain.Event) {
	e, ok := event.(domain.FallbackChangedEvent)
	if !ok {
		return
	}
	p.view.SetSimulated(e.Active)
}

// UI Command handlers (called by UI)

// OnPlayClicked toggles between play and pause.
func (p *Presenter) OnPlayClicked() {
	if err := p.playbackService.TogglePlay(); err != nil {
		p.logger.Error("play/pause failed", slog.Any("error", err))
		p.view.ShowError(err)
	}
}

// OnStopClicked handles the stop button click.
func (p *Presenter) OnStopClicked() {
	if err := p.playbackService.Stop(); err != nil {
		p.logger.Error("stop failed", slog.Any("error", err))
		p.view.ShowError(err)
	}
}

// OnFileOpened loads the file and starts playing it.
func (p *Presenter) OnFileOpened(filePath string) {
	// Load failures are reported through the track error event
	if err := p.playbackService.Load(filePath); err != nil {
		p.logger.Warn("open failed", slog.String("file_path", filePath), slog.Any("error", err))
		return
	}
	if err := p.playbackService.Play(); err != nil {
		p.logger.Warn("play after open failed", slog.Any("error", err))
	}
}

// OnModeSelected switches the visualizer mode.
func (p *Presenter) OnModeSelected(mode domain.RenderMode) {
	if err := p.driver.SetMode(mode); err != nil {
		p.logger.Warn("invalid render mode", slog.String("mode", string(mode)))
		p.view.ShowError(err)
	}
}

// OnVolumeChanged handles volume slider changes (0 to 100).
func (p *Presenter) OnVolumeChanged(volume float64) {
	normalized := min(max(volume, 0), 100) / 100.0
	if err := p.playbackService.SetVolume(normalized); err != nil {
		p.logger.Error("volume change failed", slog.Any("error", err))
		p.view.ShowError(err)
		return
	}
	if err := p.preferenceService.SetVolume(normalized); err != nil {
		p.logger.Warn("failed to save volume", slog.Any("error", err))
	}
}

// OnVolumeStep nudges the volume up or down by one step and returns the new
// value (0 to 100).
func (p *Presenter) OnVolumeStep(up bool) float64 {
	current := p.playbackService.Volume() * 100
	if up {
		current += volumeStep
	} else {
		current -= volumeStep
	}
	current = min(max(current, 0), 100)
	p.OnVolumeChanged(current)
	return p.playbackService.Volume() * 100
}

// Volume returns the current volume (0 to 100).
func (p *Presenter) Volume() float64 {
	return p.playbackService.Volume() * 100
}

// Shutdown unsubscribes from the bus and stops the visualizer.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		ids := p.subscriptions
		p.subscriptions = nil
		p.mu.Unlock()

		for _, id := range ids {
			p.eventBus.Unsubscribe(id)
		}
		p.driver.Stop()
	})
}
