// Package mock provides an in-memory implementation of ports.AudioOutput.
// It is used for tests and for running the visualizer without a sound card.
package mock

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// DefaultSampleRate is the rate reported when none is configured.
const DefaultSampleRate = 44100

var supportedFormats = map[string]bool{
	"mp3":  true,
	"wav":  true,
	"ogg":  true,
	"flac": true,
}

// Output simulates the host audio element without producing sound.
// Audio is pushed through Feed instead of being decoded.
//
// Thread-safety: This implementation is thread-safe.
type Output struct {
	mu sync.RWMutex

	sampleRate int
	track      *domain.TrackInfo
	status     domain.PlaybackStatus
	volume     float64
	tap        ports.SampleTap
	attaches   int
	closed     bool

	// Behavior configuration (for testing error scenarios)
	failLoad   bool
	failPlay   bool
	failAttach bool
}

// NewOutput creates a mock output running at DefaultSampleRate.
func NewOutput() *Output {
	return &Output{
		sampleRate: DefaultSampleRate,
		volume:     1.0,
	}
}

// SetSampleRate changes the rate reported by SampleRate.
func (m *Output) SetSampleRate(rate int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sampleRate = rate
}

// SetFailLoad configures the mock to fail loading tracks (for testing).
func (m *Output) SetFailLoad(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = fail
}

// SetFailPlay configures the mock to fail playback (for testing).
func (m *Output) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// SetFailAttach configures the mock to refuse taps (for testing).
func (m *Output) SetFailAttach(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAttach = fail
}

// Load makes path the current track. The file is not opened.
func (m *Output) Load(path string) (domain.TrackInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domain.TrackInfo{}, domain.ErrNotInitialized
	}
	if path == "" {
		return domain.TrackInfo{}, domain.ErrInvalidFilePath
	}
	if m.failLoad {
		return domain.TrackInfo{}, domain.NewAudioEngineError("load", path, "mock load failed", domain.ErrPlaybackFailed)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !supportedFormats[format] {
		return domain.TrackInfo{}, domain.NewAudioEngineError("load", path, "unsupported format", domain.ErrUnsupportedFormat)
	}

	base := filepath.Base(path)
	m.track = &domain.TrackInfo{
		FilePath:   path,
		Title:      strings.TrimSuffix(base, filepath.Ext(base)),
		Format:     format,
		SampleRate: m.sampleRate,
	}
	m.status = domain.StatusStopped

	return *m.track, nil
}

// Play starts or resumes the current track.
func (m *Output) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.track == nil {
		return domain.ErrNoTrackLoaded
	}
	if m.failPlay {
		return domain.NewAudioEngineError("play", m.track.FilePath, "mock play failed", domain.ErrPlaybackFailed)
	}
	m.status = domain.StatusPlaying
	return nil
}

// Pause suspends the current track.
func (m *Output) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.track == nil {
		return domain.ErrNoTrackLoaded
	}
	if m.status == domain.StatusPlaying {
		m.status = domain.StatusPaused
	}
	return nil
}

// Stop halts the current track.
func (m *Output) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.track == nil {
		return domain.ErrNoTrackLoaded
	}
	m.status = domain.StatusStopped
	return nil
}

// Finish simulates the current track reaching its end.
func (m *Output) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = domain.StatusStopped
}

// Status returns the playback status.
func (m *Output) Status() domain.PlaybackStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// IsPlaying implements ports.PlaybackSignal.
func (m *Output) IsPlaying() bool {
	return m.Status() == domain.StatusPlaying
}

// SetVolume sets the output volume.
func (m *Output) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return domain.ErrInvalidVolume
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
	return nil
}

// Volume returns the output volume.
func (m *Output) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// SampleRate returns the configured sample rate.
func (m *Output) SampleRate() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sampleRate
}

// AttachTap connects tap. Only one tap can ever be attached.
func (m *Output) AttachTap(tap ports.SampleTap) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attaches++
	if m.failAttach {
		return domain.NewAudioEngineError("attach", "", "mock attach failed", nil)
	}
	if m.tap != nil {
		return domain.ErrSourceAlreadyConnected
	}
	m.tap = tap
	return nil
}

// AttachCount returns how many times AttachTap was called.
func (m *Output) AttachCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attaches
}

// Feed pushes samples through the output. They reach the tap only while playing.
func (m *Output) Feed(samples []float32) {
	m.mu.RLock()
	tap, playing := m.tap, m.status == domain.StatusPlaying
	m.mu.RUnlock()

	if tap != nil && playing {
		tap.WriteSamples(samples)
	}
}

// Close releases the output. Later loads fail.
func (m *Output) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.track = nil
	m.status = domain.StatusStopped
	return nil
}

// Verify interface implementation at compile time.
var _ ports.AudioOutput = (*Output)(nil)
