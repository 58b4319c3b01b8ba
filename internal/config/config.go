// Package config loads the govis YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/dsp"
	"github.com/tejashwikalptaru/govis/internal/logger"
)

// Config is the top-level configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Audio      AudioConfig      `yaml:"audio"`
	Analyser   AnalyserConfig   `yaml:"analyser"`
	Visualizer VisualizerConfig `yaml:"visualizer"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// AudioConfig configures the sound output.
type AudioConfig struct {
	// UseMock plays nothing and feeds no samples; the visualizer then runs on
	// simulated data.
	UseMock    bool `yaml:"use_mock"`
	SampleRate int  `yaml:"sample_rate"`
}

// AnalyserConfig mirrors dsp.Config.
type AnalyserConfig struct {
	FFTSize     int     `yaml:"fft_size"`
	Smoothing   float64 `yaml:"smoothing"`
	MinDecibels float64 `yaml:"min_db"`
	MaxDecibels float64 `yaml:"max_db"`
}

// VisualizerConfig configures the render loop.
type VisualizerConfig struct {
	// Mode is the render mode used when no preference is stored.
	Mode domain.RenderMode `yaml:"mode"`

	// Clock selects the frame clock: "display" follows the window's animation
	// loop, "timer" ticks at FrameRate independently of it.
	Clock string `yaml:"clock"`

	// FrameRate is the tick rate of the timer clock in frames per second.
	FrameRate int `yaml:"frame_rate"`
}

// Frame clocks.
const (
	ClockDisplay = "display"
	ClockTimer   = "timer"
)

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// ListenAddr serves /metrics when set, e.g. "127.0.0.1:9464".
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	a := dsp.DefaultConfig()
	return &Config{
		Log:   LogConfig{Level: "info", Format: "text"},
		Audio: AudioConfig{SampleRate: 44100},
		Analyser: AnalyserConfig{
			FFTSize:     a.FFTSize,
			Smoothing:   a.Smoothing,
			MinDecibels: a.MinDecibels,
			MaxDecibels: a.MaxDecibels,
		},
		Visualizer: VisualizerConfig{
			Mode:      domain.DefaultRenderMode,
			Clock:     ClockDisplay,
			FrameRate: 60,
		},
	}
}

// Load reads the YAML configuration file at path on top of Default.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Keys missing from the document keep their default values.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q is invalid; valid values: text, json", c.Log.Format))
	}

	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %d is out of range [8000, 192000]", c.Audio.SampleRate))
	}

	if err := c.AnalyserConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("analyser: %w", err))
	}

	if !c.Visualizer.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("visualizer.mode %q is invalid; valid values: bars, wave, circle", c.Visualizer.Mode))
	}
	if c.Visualizer.Clock != ClockDisplay && c.Visualizer.Clock != ClockTimer {
		errs = append(errs, fmt.Errorf("visualizer.clock %q is invalid; valid values: display, timer", c.Visualizer.Clock))
	}
	if c.Visualizer.FrameRate < 1 || c.Visualizer.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("visualizer.frame_rate %d is out of range [1, 240]", c.Visualizer.FrameRate))
	}

	return errors.Join(errs...)
}

// AnalyserConfig converts the analyser section to a dsp.Config.
func (c *Config) AnalyserConfig() dsp.Config {
	return dsp.Config{
		FFTSize:     c.Analyser.FFTSize,
		Smoothing:   c.Analyser.Smoothing,
		MinDecibels: c.Analyser.MinDecibels,
		MaxDecibels: c.Analyser.MaxDecibels,
	}
}

// FrameInterval returns the delay between ticks of the timer clock.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Visualizer.FrameRate)
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}
