// Package dsp provides the real-time frequency analyser that sits between the
// audio output and the visualizer.
//
// The analyser keeps the most recent fftSize samples, applies a Blackman window,
// runs a real FFT and converts smoothed magnitudes to bytes on a decibel scale,
// the same pipeline a browser AnalyserNode uses for getByteFrequencyData.
package dsp

import (
	"errors"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// ErrClosed is returned when reading from an analyser after Close.
var ErrClosed = errors.New("analyser closed")

// Analyser limits.
const (
	MinFFTSize = 32
	MaxFFTSize = 32768
)

// Config configures an Analyser.
type Config struct {
	// FFTSize is the window length in samples. Must be a power of two.
	FFTSize int

	// Smoothing is the time constant (0..1) blending each frame with the previous one.
	Smoothing float64

	// MinDecibels maps to byte value 0.
	MinDecibels float64

	// MaxDecibels maps to byte value 255.
	MaxDecibels float64
}

// DefaultConfig returns the analyser settings used by the player:
// 256-point FFT (128 bins), 0.8 smoothing and a [-100, -30] dB range.
func DefaultConfig() Config {
	return Config{
		FFTSize:     256,
		Smoothing:   0.8,
		MinDecibels: -100,
		MaxDecibels: -30,
	}
}

// Validate checks that the configuration describes a usable analyser.
func (c Config) Validate() error {
	var errs []error
	if c.FFTSize < MinFFTSize || c.FFTSize > MaxFFTSize || c.FFTSize&(c.FFTSize-1) != 0 {
		errs = append(errs, domain.NewValidationError("fft_size", c.FFTSize, "must be a power of two between 32 and 32768"))
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		errs = append(errs, domain.NewValidationError("smoothing", c.Smoothing, "must be between 0 and 1"))
	}
	if c.MinDecibels >= c.MaxDecibels {
		errs = append(errs, domain.NewValidationError("min_db", c.MinDecibels, "must be lower than max_db"))
	}
	return errors.Join(errs...)
}

// Analyser turns a stream of samples into byte frequency data.
//
// WriteSamples is called from the audio goroutine and FrequencyData from the
// frame goroutine; both are safe for concurrent use.
type Analyser struct {
	cfg    Config
	input  *RingBuffer
	window []float64

	mu       sync.Mutex
	scratch  []float64
	smoothed []float64
	closed   bool
}

// NewAnalyser creates an analyser with the given configuration.
func NewAnalyser(cfg Config) (*Analyser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Analyser{
		cfg:      cfg,
		input:    NewRingBuffer(cfg.FFTSize),
		window:   window.Blackman(cfg.FFTSize),
		scratch:  make([]float64, cfg.FFTSize),
		smoothed: make([]float64, cfg.FFTSize/2),
	}, nil
}

// FrequencyBinCount returns the number of bins produced per frame (half the FFT size).
func (a *Analyser) FrequencyBinCount() int {
	return a.cfg.FFTSize / 2
}

// WriteSamples implements ports.SampleTap.
func (a *Analyser) WriteSamples(samples []float32) {
	a.input.Write(samples)
}

// FrequencyData analyses the most recent window and returns one byte per bin.
func (a *Analyser) FrequencyData() (domain.AmplitudeFrame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, ErrClosed
	}

	a.input.ReadInto(a.scratch)
	for i := range a.scratch {
		a.scratch[i] *= a.window[i]
	}

	spectrum := fft.FFTReal(a.scratch)

	n := float64(a.cfg.FFTSize)
	tau := a.cfg.Smoothing
	dbRange := a.cfg.MaxDecibels - a.cfg.MinDecibels

	frame := make(domain.AmplitudeFrame, len(a.smoothed))
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / n
		if math.IsNaN(mag) || math.IsInf(mag, 0) {
			mag = 0
		}
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
		frame[k] = toByte(a.smoothed[k], a.cfg.MinDecibels, dbRange)
	}

	return frame, nil
}

// toByte maps a linear magnitude onto 0..255 across the configured decibel range.
func toByte(mag, minDB, dbRange float64) uint8 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := 255 * (db - minDB) / dbRange
	if scaled <= 0 {
		return 0
	}
	if scaled >= 255 {
		return 255
	}
	return uint8(scaled)
}

// Reset clears collected samples and smoothing history.
func (a *Analyser) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.input.Clear()
	clear(a.smoothed)
}

// Close makes subsequent FrequencyData calls fail with ErrClosed.
func (a *Analyser) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
}

// Verify interface implementation at compile time.
var _ ports.SampleTap = (*Analyser)(nil)
var _ ports.AnalyserNode = (*Analyser)(nil)
