// Package ports define the UI interface for view abstraction.
// This interface allows the presenter to update the UI without depending on Fyne directly.
package ports

import (
	"github.com/tejashwikalptaru/govis/internal/domain"
)

// UI is the interface for the player window.
//
// The presenter receives events from the event bus and calls these methods to
// update the window accordingly.
//
// Thread-safety: implementations marshal calls onto the UI thread themselves.
type UI interface {
	// SetTrackInfo updates the displayed track name.
	SetTrackInfo(track domain.TrackInfo)

	// SetPlayState switches the play/pause button between its two states.
	SetPlayState(playing bool)

	// SetRenderMode highlights the button of the active visualizer mode.
	SetRenderMode(mode domain.RenderMode)

	// SetSimulated toggles the indicator shown while the visualizer draws simulated data.
	SetSimulated(active bool)

	// ShowError displays a non-fatal error to the user.
	ShowError(err error)
}
