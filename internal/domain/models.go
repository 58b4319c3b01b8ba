// Package domain contains the core visualizer models with no external dependencies.
// This package defines the values that flow between the sampler, the simulated
// generator, the render engine and the animation driver.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// AmplitudeFrame is one magnitude spectrum sampled (or simulated) for a single tick.
// Each entry is a frequency bin magnitude in the range 0-255, lowest frequency first.
//
// Frames are ephemeral: they are produced every tick and never persisted.
// The length depends on the producer (128 bins for a 256-point analyser,
// 64 bins for the simulated generator), so consumers must not assume a fixed size.
type AmplitudeFrame []uint8

// Len returns the number of bins in the frame.
func (f AmplitudeFrame) Len() int {
	return len(f)
}

// Clone returns an independent copy of the frame.
func (f AmplitudeFrame) Clone() AmplitudeFrame {
	if f == nil {
		return nil
	}
	out := make(AmplitudeFrame, len(f))
	copy(out, f)
	return out
}

// RenderMode selects the visual style used to paint a frame.
type RenderMode string

// Available render modes.
const (
	ModeBars   RenderMode = "bars"
	ModeWave   RenderMode = "wave"
	ModeCircle RenderMode = "circle"
)

// DefaultRenderMode is the mode used before the user picks one.
const DefaultRenderMode = ModeBars

// IsValid reports whether m is a recognised render mode.
func (m RenderMode) IsValid() bool {
	switch m {
	case ModeBars, ModeWave, ModeCircle:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (m RenderMode) String() string {
	return string(m)
}

// ParseRenderMode converts a user supplied name into a RenderMode.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseRenderMode(s string) (RenderMode, error) {
	m := RenderMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", NewValidationError("render_mode", s, "must be one of bars, wave, circle")
	}
	return m, nil
}

// ModeInfo contains display information about a render mode.
type ModeInfo struct {
	Mode RenderMode
	Name string
}

// RenderModes returns all render modes in the order they are offered to the user.
func RenderModes() []ModeInfo {
	return []ModeInfo{
		{ModeBars, "Bars"},
		{ModeWave, "Wave"},
		{ModeCircle, "Circle"},
	}
}

// DriverState is the state of the animation driver.
type DriverState int

const (
	// DriverIdle means no frame is scheduled.
	DriverIdle DriverState = iota

	// DriverRunning means exactly one frame is scheduled on the frame clock.
	DriverRunning
)

// String returns a human-readable representation of the driver state.
func (s DriverState) String() string {
	switch s {
	case DriverIdle:
		return "idle"
	case DriverRunning:
		return "running"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// PlaybackStatus represents the state of the host audio output.
type PlaybackStatus int

const (
	// StatusStopped indicates nothing is playing and the position is reset.
	StatusStopped PlaybackStatus = iota

	// StatusPlaying indicates audio is being played.
	StatusPlaying

	// StatusPaused indicates playback is suspended at the current position.
	StatusPaused
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// TrackInfo describes the track currently loaded into the audio output.
type TrackInfo struct {
	// FilePath is the path the track was loaded from
	FilePath string

	// Title is the song title (from tags or the file name)
	Title string

	// Artist is the performing artist, empty when unknown
	Artist string

	// Format is the lower-case file extension without the dot (mp3, wav, ogg, flac)
	Format string

	// SampleRate is the decoded sample rate in Hz
	SampleRate int

	// Duration is the total length of the track
	Duration time.Duration
}

// DisplayName returns "Artist - Title", or just the title when the artist is unknown.
func (t TrackInfo) DisplayName() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}
