package service

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// defaultVolume is used until a saved volume is loaded.
const defaultVolume = 0.8

// PreferenceService keeps the user's visualizer mode and volume across runs.
//
// It listens for render mode changes on the bus and persists them, so the
// driver does not need to know about storage.
// All operations are thread-safe via sync.RWMutex.
type PreferenceService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.PreferencesRepository
	bus        ports.EventBus

	// Cached preferences
	mode   domain.RenderMode
	volume float64

	subscription domain.SubscriptionID
	mu           sync.RWMutex
}

// NewPreferenceService creates a preference service and loads the saved values.
func NewPreferenceService(
	logger *slog.Logger,
	repository ports.PreferencesRepository,
	bus ports.EventBus,
) *PreferenceService {
	s := &PreferenceService{
		logger:     logger,
		repository: repository,
		bus:        bus,
		mode:       domain.DefaultRenderMode,
		volume:     defaultVolume,
	}

	s.load()
	s.subscription = bus.Subscribe(domain.EventRenderModeChanged, s.onRenderModeChanged)

	logger.Debug("preference service initialized",
		slog.String("mode", s.mode.String()),
		slog.Float64("volume", s.volume))

	return s
}

func (s *PreferenceService) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode, err := s.repository.LoadRenderMode(); err == nil && mode.IsValid() {
		s.mode = mode
	} else if err != nil {
		s.logger.Warn("failed to load render mode", slog.Any("error", err))
	}

	if volume, err := s.repository.LoadVolume(); err == nil && volume >= 0 && volume <= 1 {
		s.volume = volume
	} else if err != nil {
		s.logger.Warn("failed to load volume", slog.Any("error", err))
	}
}

func (s *PreferenceService) onRenderModeChanged(event domain.Event) {
	e, ok := event.(domain.RenderModeChangedEvent)
	if !ok {
		return
	}
	if err := s.SetRenderMode(e.Mode); err != nil {
		s.logger.Warn("failed to save render mode", slog.Any("error", err))
	}
}

// RenderMode returns the saved render mode.
func (s *PreferenceService) RenderMode() domain.RenderMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetRenderMode saves the render mode.
func (s *PreferenceService) SetRenderMode(mode domain.RenderMode) error {
	if err := s.repository.SaveRenderMode(mode); err != nil {
		return domain.NewServiceError("Preference", "SetRenderMode", "failed to save render mode", err)
	}

	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	return nil
}

// Volume returns the saved volume (0.0 to 1.0).
func (s *PreferenceService) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// SetVolume saves the volume (0.0 to 1.0).
func (s *PreferenceService) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return domain.ErrInvalidVolume
	}
	if err := s.repository.SaveVolume(volume); err != nil {
		return domain.NewServiceError("Preference", "SetVolume", "failed to save volume", err)
	}

	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()
	return nil
}

// ResetToDefaults clears the stored preferences.
func (s *PreferenceService) ResetToDefaults() error {
	if err := s.repository.Clear(); err != nil {
		return domain.NewServiceError("Preference", "ResetToDefaults", "failed to clear preferences", err)
	}

	s.mu.Lock()
	s.mode = domain.DefaultRenderMode
	s.volume = defaultVolume
	s.mu.Unlock()
	return nil
}

// Shutdown stops listening for mode changes.
func (s *PreferenceService) Shutdown() error {
	s.bus.Unsubscribe(s.subscription)
	return nil
}

// Verify that PreferenceService implements the expected interface patterns
var _ interface {
	RenderMode() domain.RenderMode
	SetRenderMode(domain.RenderMode) error
	Volume() float64
	SetVolume(float64) error
	ResetToDefaults() error
	Shutdown() error
} = (*PreferenceService)(nil)
