// Package service provides the application logic of the visualizer player.
package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// PlaybackService orchestrates the host audio element.
// It owns the current track and volume and publishes playback events that the
// visualizer driver follows.
// All operations are thread-safe via sync.RWMutex.
type PlaybackService struct {
	// Dependencies (injected)
	logger *slog.Logger
	output ports.AudioOutput
	bus    ports.EventBus

	// State
	track        *domain.TrackInfo
	volume       float64
	pollInterval time.Duration

	// Concurrency control
	mu             sync.RWMutex
	stopMonitor    chan struct{}
	monitorRunning bool
	monitorWg      sync.WaitGroup // WaitGroup to wait for the monitor goroutine to exit
	manualStop     bool           // True if the user explicitly stopped playback
	hasPlayed      bool           // True if the current track has been played
}

// NewPlaybackService creates a new playback service and starts watching for
// tracks that end on their own.
func NewPlaybackService(
	logger *slog.Logger,
	output ports.AudioOutput,
	bus ports.EventBus,
) *PlaybackService {
	service := &PlaybackService{
		logger:       logger,
		output:       output,
		bus:          bus,
		volume:       defaultVolume,
		pollInterval: 100 * time.Millisecond,
		stopMonitor:  make(chan struct{}),
	}

	logger.Debug("playback service initialized")

	service.startMonitor()

	return service
}

// Load makes the file at path the current track.
// Any playing track is stopped first.
func (s *PlaybackService) Load(path string) error {
	s.mu.Lock()

	s.logger.Debug("loading track", slog.String("file_path", path))

	wasPlaying := s.track != nil && s.output.Status() != domain.StatusStopped
	var previous domain.TrackInfo
	if s.track != nil {
		previous = *s.track
	}

	info, err := s.output.Load(path)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("failed to load track", slog.Any("error", err))
		s.bus.Publish(domain.NewTrackErrorEvent(path, err))
		return err
	}

	if err := s.output.SetVolume(s.volume); err != nil {
		s.logger.Warn("failed to apply volume to new track", slog.Any("error", err))
	}

	s.track = &info
	s.manualStop = false
	s.hasPlayed = false
	s.mu.Unlock()

	if wasPlaying {
		s.bus.Publish(domain.NewPlaybackStoppedEvent(previous, false))
	}
	s.bus.Publish(domain.NewTrackLoadedEvent(info))

	s.logger.Info("track loaded",
		slog.String("title", info.DisplayName()),
		slog.String("format", info.Format))

	return nil
}

// Play starts or resumes playback of the current track.
func (s *PlaybackService) Play() error {
	s.mu.Lock()

	if s.track == nil {
		s.mu.Unlock()
		return domain.ErrNoTrackLoaded
	}

	if s.output.Status() == domain.StatusPlaying {
		s.mu.Unlock()
		return nil
	}

	if err := s.output.Play(); err != nil {
		track := *s.track
		s.mu.Unlock()
		s.bus.Publish(domain.NewTrackErrorEvent(track.FilePath, err))
		return err
	}

	s.manualStop = false
	s.hasPlayed = true
	track := *s.track
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaybackStartedEvent(track))
	return nil
}

// Pause suspends playback of the current track.
func (s *PlaybackService) Pause() error {
	s.mu.Lock()

	if s.track == nil {
		s.mu.Unlock()
		return domain.ErrNoTrackLoaded
	}

	if s.output.Status() != domain.StatusPlaying {
		s.mu.Unlock()
		return nil
	}

	if err := s.output.Pause(); err != nil {
		s.mu.Unlock()
		return err
	}

	track := *s.track
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaybackPausedEvent(track))
	return nil
}

// TogglePlay pauses a playing track and plays a paused or stopped one.
func (s *PlaybackService) TogglePlay() error {
	if s.Status() == domain.StatusPlaying {
		return s.Pause()
	}
	return s.Play()
}

// Stop halts playback and rewinds the current track.
func (s *PlaybackService) Stop() error {
	s.mu.Lock()

	if s.track == nil {
		s.mu.Unlock()
		return nil
	}

	wasActive := s.output.Status() != domain.StatusStopped
	if err := s.output.Stop(); err != nil {
		s.mu.Unlock()
		return err
	}

	s.manualStop = true
	s.hasPlayed = false
	track := *s.track
	s.mu.Unlock()

	if wasActive {
		s.bus.Publish(domain.NewPlaybackStoppedEvent(track, false))
	}
	return nil
}

// SetVolume sets the output volume (0.0 to 1.0).
func (s *PlaybackService) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return domain.ErrInvalidVolume
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.output.SetVolume(volume); err != nil {
		return err
	}
	s.volume = volume
	return nil
}

// Volume returns the current volume.
func (s *PlaybackService) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// Track returns the loaded track, if any.
func (s *PlaybackService) Track() (domain.TrackInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.track == nil {
		return domain.TrackInfo{}, false
	}
	return *s.track, true
}

// Status returns the playback status of the output.
func (s *PlaybackService) Status() domain.PlaybackStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.track == nil {
		return domain.StatusStopped
	}
	return s.output.Status()
}

// Shutdown stops the monitor and the current track.
func (s *PlaybackService) Shutdown() error {
	s.mu.Lock()
	if s.monitorRunning {
		close(s.stopMonitor)
		s.monitorRunning = false
	}
	// Release lock before waiting for goroutine to exit (to avoid deadlock)
	s.mu.Unlock()

	s.monitorWg.Wait()

	return s.Stop()
}

// startMonitor starts a goroutine that notices when a track ends on its own.
func (s *PlaybackService) startMonitor() {
	s.mu.Lock()
	if s.monitorRunning {
		s.mu.Unlock()
		return
	}
	s.monitorRunning = true
	s.monitorWg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.monitorWg.Done()
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopMonitor:
				return

			case <-ticker.C:
				s.checkFinished()
			}
		}
	}()
}

// checkFinished publishes a finished PlaybackStoppedEvent once per natural end.
func (s *PlaybackService) checkFinished() {
	s.mu.Lock()

	if s.track == nil || !s.hasPlayed || s.manualStop {
		s.mu.Unlock()
		return
	}
	if s.output.Status() != domain.StatusStopped {
		s.mu.Unlock()
		return
	}

	s.hasPlayed = false
	track := *s.track
	s.mu.Unlock()

	s.logger.Debug("track finished", slog.String("title", track.DisplayName()))
	s.bus.Publish(domain.NewPlaybackStoppedEvent(track, true))
}

// Verify that PlaybackService implements the expected interface patterns
var _ interface {
	Load(string) error
	Play() error
	Pause() error
	TogglePlay() error
	Stop() error
	SetVolume(float64) error
	Volume() float64
	Track() (domain.TrackInfo, bool)
	Status() domain.PlaybackStatus
	Shutdown() error
} = (*PlaybackService)(nil)
