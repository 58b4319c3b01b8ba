// Package speaker plays audio files on the system sound device through oto and
// routes every played sample to the analysis tap.
package speaker

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Config configures the sound device.
type Config struct {
	// SampleRate is the device rate in Hz. Tracks are resampled to it.
	SampleRate int

	// BufferSize is the device buffer length. Zero lets oto choose.
	BufferSize time.Duration
}

// DefaultConfig returns 44.1 kHz with the driver's default buffer.
func DefaultConfig() Config {
	return Config{SampleRate: 44100}
}

var (
	globalCtx  *oto.Context
	ctxOnce    sync.Once
	ctxInitErr error
	ctxRate    int
)

// initContext creates the process-wide oto context. oto allows only one.
func initContext(cfg Config) (*oto.Context, int, error) {
	ctxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   cfg.SampleRate,
			ChannelCount: outputChannels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   cfg.BufferSize,
		}
		var ready chan struct{}
		globalCtx, ready, ctxInitErr = oto.NewContext(op)
		if ctxInitErr == nil {
			<-ready
			ctxRate = cfg.SampleRate
		}
	})
	return globalCtx, ctxRate, ctxInitErr
}

// tapRef lets the audio goroutine read the tap without taking Output.mu.
type tapRef struct {
	tap ports.SampleTap
}

// Output is the oto-backed ports.AudioOutput.
//
// Thread-safety: This implementation is thread-safe.
type Output struct {
	mu     sync.RWMutex
	logger *slog.Logger

	ctx  *oto.Context
	rate int

	track  *domain.TrackInfo
	file   *os.File
	stream *pcmStream
	player *oto.Player
	status domain.PlaybackStatus
	rewind bool // the next Play starts from the beginning
	volume float64
	closed bool

	tap atomic.Pointer[tapRef]
}

// NewOutput opens the sound device.
func NewOutput(logger *slog.Logger, cfg Config) (*Output, error) {
	if cfg.SampleRate <= 0 {
		return nil, domain.NewValidationError("sample_rate", cfg.SampleRate, "must be positive")
	}

	ctx, rate, err := initContext(cfg)
	if err != nil {
		return nil, domain.NewAudioEngineError("init", "", "failed to open sound device", err)
	}
	if rate != cfg.SampleRate {
		logger.Warn("sound device already open at a different rate",
			slog.Int("requested", cfg.SampleRate),
			slog.Int("actual", rate))
	}

	logger.Info("sound device opened", slog.Int("sample_rate", rate))

	return &Output{
		logger: logger,
		ctx:    ctx,
		rate:   rate,
		volume: 1.0,
	}, nil
}

// Load opens the file at path and makes it the current track.
func (o *Output) Load(path string) (domain.TrackInfo, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return domain.TrackInfo{}, domain.ErrNotInitialized
	}
	if path == "" {
		return domain.TrackInfo{}, domain.ErrInvalidFilePath
	}

	file, err := openFile(path)
	if err != nil {
		return domain.TrackInfo{}, err
	}

	info := readTrackInfo(path, file)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return domain.TrackInfo{}, domain.NewAudioEngineError("load", path, "failed to rewind file", err)
	}

	dec, err := newDecoder(info.Format, file)
	if err != nil {
		_ = file.Close()
		return domain.TrackInfo{}, domain.NewAudioEngineError("load", path, "failed to decode file", err)
	}

	o.releaseLocked()

	info.SampleRate = dec.SampleRate()
	if frameBytes := int64(dec.ChannelCount()) * 2; dec.Length() > 0 && dec.SampleRate() > 0 {
		seconds := float64(dec.Length()/frameBytes) / float64(dec.SampleRate())
		info.Duration = time.Duration(seconds * float64(time.Second))
	}

	o.track = &info
	o.startLocked(file, dec)
	o.status = domain.StatusStopped
	o.rewind = false

	o.logger.Debug("track opened",
		slog.String("file_path", path),
		slog.Int("sample_rate", info.SampleRate),
		slog.Int("channels", dec.ChannelCount()))

	return info, nil
}

// openFile checks the format of path and opens it.
func openFile(path string) (*os.File, error) {
	switch formatOf(path) {
	case "mp3", "wav", "ogg", "flac":
	default:
		return nil, domain.NewAudioEngineError("load", path, "unsupported format", domain.ErrUnsupportedFormat)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewAudioEngineError("load", path, "failed to open file", err)
	}
	return file, nil
}

// openTrack opens path and builds the decoder for its format.
func openTrack(path string) (*os.File, decoder, error) {
	file, err := openFile(path)
	if err != nil {
		return nil, nil, err
	}

	dec, err := newDecoder(formatOf(path), file)
	if err != nil {
		_ = file.Close()
		return nil, nil, domain.NewAudioEngineError("load", path, "failed to decode file", err)
	}
	return file, dec, nil
}

// startLocked creates a fresh player over dec.
func (o *Output) startLocked(file *os.File, dec decoder) {
	o.file = file
	o.stream = newPCMStream(dec, o.rate, o.deliver)
	o.player = o.ctx.NewPlayer(o.stream)
	o.player.SetVolume(o.volume)
}

// releaseLocked closes the current player and file.
func (o *Output) releaseLocked() {
	if o.player != nil {
		o.player.Pause()
		if err := o.player.Close(); err != nil {
			o.logger.Warn("failed to close player", slog.Any("error", err))
		}
		o.player = nil
	}
	if o.file != nil {
		_ = o.file.Close()
		o.file = nil
	}
	o.stream = nil
}

// deliver is called from the audio goroutine with the samples just played.
func (o *Output) deliver(samples []float32) {
	if ref := o.tap.Load(); ref != nil {
		ref.tap.WriteSamples(samples)
	}
}

// finishedLocked reports whether the current track played to its end.
func (o *Output) finishedLocked() bool {
	return o.status == domain.StatusPlaying && o.player != nil && !o.player.IsPlaying()
}

// Play starts or resumes playback, rewinding a stopped or finished track.
func (o *Output) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.track == nil {
		return domain.ErrNoTrackLoaded
	}

	if o.rewind || o.finishedLocked() {
		path := o.track.FilePath
		o.releaseLocked()
		file, dec, err := openTrack(path)
		if err != nil {
			o.status = domain.StatusStopped
			return domain.NewAudioEngineError("play", path, "failed to reopen track", err)
		}
		o.startLocked(file, dec)
		o.rewind = false
	}

	o.player.Play()
	if err := o.player.Err(); err != nil {
		return domain.NewAudioEngineError("play", o.track.FilePath, "playback failed", fmt.Errorf("%w: %w", domain.ErrPlaybackFailed, err))
	}
	o.status = domain.StatusPlaying
	return nil
}

// Pause suspends playback.
func (o *Output) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.track == nil {
		return domain.ErrNoTrackLoaded
	}
	if o.status == domain.StatusPlaying && !o.finishedLocked() {
		o.player.Pause()
		o.status = domain.StatusPaused
	}
	return nil
}

// Stop halts playback; the next Play starts from the beginning.
func (o *Output) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.track == nil {
		return domain.ErrNoTrackLoaded
	}
	if o.player != nil {
		o.player.Pause()
	}
	o.status = domain.StatusStopped
	o.rewind = true
	return nil
}

// Status returns the playback status. A track that ran out reports stopped.
func (o *Output) Status() domain.PlaybackStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.finishedLocked() {
		return domain.StatusStopped
	}
	return o.status
}

// IsPlaying implements ports.PlaybackSignal.
func (o *Output) IsPlaying() bool {
	return o.Status() == domain.StatusPlaying
}

// SetVolume sets the output volume.
func (o *Output) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return domain.ErrInvalidVolume
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.volume = volume
	if o.player != nil {
		o.player.SetVolume(volume)
	}
	return nil
}

// SampleRate returns the device rate, which is the rate the tap receives.
func (o *Output) SampleRate() int {
	return o.rate
}

// AttachTap connects tap. Only one tap can ever be attached.
func (o *Output) AttachTap(tap ports.SampleTap) error {
	if tap == nil {
		return domain.NewValidationError("tap", nil, "must not be nil")
	}
	if !o.tap.CompareAndSwap(nil, &tapRef{tap: tap}) {
		return domain.ErrSourceAlreadyConnected
	}
	return nil
}

// Close stops playback and releases the current track.
// The sound device stays open for the life of the process.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.releaseLocked()
	o.track = nil
	o.status = domain.StatusStopped
	o.closed = true
	return nil
}

// Verify interface implementation at compile time.
var _ ports.AudioOutput = (*Output)(nil)
