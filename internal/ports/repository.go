// Package ports define repository interfaces for data persistence abstraction.
package ports

import (
	"github.com/tejashwikalptaru/govis/internal/domain"
)

// PreferencesRepository handles the persistence of user preferences.
// This abstracts the Fyne preferences storage.
//
// Thread-safety: Implementations must be thread-safe.
type PreferencesRepository interface {
	// SaveRenderMode persists the selected visualizer mode.
	//
	// Returns an error if the mode is invalid or saving fails.
	SaveRenderMode(mode domain.RenderMode) error

	// LoadRenderMode retrieves the saved visualizer mode.
	// If nothing (or something unrecognised) was saved, returns domain.DefaultRenderMode.
	LoadRenderMode() (domain.RenderMode, error)

	// SaveVolume persists the volume level.
	SaveVolume(volume float64) error

	// LoadVolume retrieves the saved volume level.
	// If no volume was saved, returns 0.8 as default.
	LoadVolume() (float64, error)

	// Clear removes all saved preferences.
	Clear() error
}
