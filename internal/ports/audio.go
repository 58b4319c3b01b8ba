// Package ports define interfaces for dependency inversion.
// These interfaces allow the visualizer core to remain independent of external frameworks.
package ports

import (
	"github.com/tejashwikalptaru/govis/internal/domain"
)

// PlaybackSignal reports whether the host player is currently playing.
// The animation driver reads it at the start of every tick.
type PlaybackSignal interface {
	IsPlaying() bool
}

// SampleTap receives decoded audio downstream of the output, as mono float32
// samples in the range [-1, 1]. It is the analysis end of the audio graph.
//
// WriteSamples may be called from the audio goroutine; implementations must be
// safe for concurrent use with whatever reads the collected samples.
type SampleTap interface {
	WriteSamples(samples []float32)
}

// AudioOutput is the host audio element: it plays one loaded track at a time and
// can route the audio it plays through a single analysis tap.
//
// Implementations must be thread-safe as they may be called from multiple goroutines.
type AudioOutput interface {
	PlaybackSignal

	// Load decodes the header of the file at path and makes it the current track.
	// Any previously loaded track is stopped first.
	//
	// Returns information about the loaded track, or an error if loading fails.
	Load(path string) (domain.TrackInfo, error)

	// Play starts or resumes playback of the current track.
	//
	// Returns domain.ErrNoTrackLoaded when nothing is loaded.
	Play() error

	// Pause suspends playback, keeping the position.
	Pause() error

	// Stop halts playback and rewinds to the beginning of the track.
	Stop() error

	// Status returns the current playback status.
	Status() domain.PlaybackStatus

	// SetVolume sets the output volume from 0.0 (silent) to 1.0 (full volume).
	SetVolume(volume float64) error

	// SampleRate returns the rate in Hz of the samples delivered to the tap.
	SampleRate() int

	// AttachTap connects tap as the analysis node of this output.
	// An output has exactly one source node, so a second call fails with
	// domain.ErrSourceAlreadyConnected. The tap stays attached across Load calls.
	AttachTap(tap SampleTap) error

	// Close releases all resources held by the output.
	Close() error
}
