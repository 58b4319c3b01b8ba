// Package memory provides repositories backed by the Fyne preferences store.
package memory

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Preference keys.
const (
	keyRenderMode = "visualizer.mode"
	keyVolume     = "player.volume"
)

// DefaultVolume is returned when no volume was saved.
const DefaultVolume = 0.8

// PreferencesRepository implements ports.PreferencesRepository on top of
// fyne.Preferences.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferencesRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewPreferencesRepository creates a repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewPreferencesRepository(prefs fyne.Preferences) *PreferencesRepository {
	return &PreferencesRepository{prefs: prefs}
}

// SaveRenderMode persists the selected visualizer mode.
func (r *PreferencesRepository) SaveRenderMode(mode domain.RenderMode) error {
	if !mode.IsValid() {
		return domain.NewValidationError("render_mode", mode, "must be one of bars, wave, circle")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyRenderMode, mode.String())
	return nil
}

// LoadRenderMode returns the saved mode, or the default when nothing usable was saved.
func (r *PreferencesRepository) LoadRenderMode() (domain.RenderMode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mode, err := domain.ParseRenderMode(r.prefs.StringWithFallback(keyRenderMode, domain.DefaultRenderMode.String()))
	if err != nil {
		return domain.DefaultRenderMode, nil
	}
	return mode, nil
}

// SaveVolume persists the volume level.
func (r *PreferencesRepository) SaveVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return domain.ErrInvalidVolume
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetFloat(keyVolume, volume)
	return nil
}

// LoadVolume retrieves the saved volume level.
func (r *PreferencesRepository) LoadVolume() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.FloatWithFallback(keyVolume, DefaultVolume), nil
}

// Clear removes all saved preferences.
func (r *PreferencesRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyRenderMode)
	r.prefs.RemoveValue(keyVolume)
	return nil
}

// Verify that PreferencesRepository implements the interface
var _ ports.PreferencesRepository = (*PreferencesRepository)(nil)
