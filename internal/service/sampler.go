package service

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// AnalyserFactory builds the analyser node for an output running at sampleRate Hz.
type AnalyserFactory func(sampleRate int) (ports.AnalyserNode, error)

// SamplerService reads one amplitude frame per tick from an analyser node
// attached downstream of the audio output.
//
// The analysis graph is built lazily by EnsureGraph. It is created at most once
// per process and bound to the output, not to the track, so loading a new song
// keeps feeding the same analyser. Listen resets it on every track change so
// the previous song's smoothing history does not carry over.
type SamplerService struct {
	logger      *slog.Logger
	output      ports.AudioOutput
	newAnalyser AnalyserFactory

	mu           sync.Mutex
	analyser     ports.AnalyserNode
	connected    bool
	bus          ports.EventBus
	subscription domain.SubscriptionID
}

// NewSamplerService creates a sampler for output. No graph is built until EnsureGraph.
func NewSamplerService(logger *slog.Logger, output ports.AudioOutput, newAnalyser AnalyserFactory) *SamplerService {
	return &SamplerService{
		logger:      logger,
		output:      output,
		newAnalyser: newAnalyser,
	}
}

// EnsureGraph builds the analyser and connects it to the output once.
// Later calls are no-ops. On failure the graph stays unbuilt, Sample keeps
// reporting domain.ErrAnalyzerUnavailable, and the next call tries again.
func (s *SamplerService) EnsureGraph() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	if s.analyser == nil {
		analyser, err := s.newAnalyser(s.output.SampleRate())
		if err != nil {
			s.logger.Warn("failed to create analyser", slog.Any("error", err))
			return domain.NewSamplerError(domain.ErrGraphInit, "create analyser", err)
		}
		s.analyser = analyser
	}

	if err := s.output.AttachTap(s.analyser); err != nil {
		s.logger.Warn("failed to connect analyser", slog.Any("error", err))
		return domain.NewSamplerError(domain.ErrGraphInit, "connect", err)
	}

	s.connected = true
	s.logger.Debug("analysis graph connected",
		slog.Int("bins", s.analyser.FrequencyBinCount()),
		slog.Int("sample_rate", s.output.SampleRate()))

	return nil
}

// Connected reports whether the analysis graph has been built.
func (s *SamplerService) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Sample returns the current spectrum. It has no effect on playback.
func (s *SamplerService) Sample() (frame domain.AmplitudeFrame, err error) {
	s.mu.Lock()
	analyser, connected := s.analyser, s.connected
	s.mu.Unlock()

	if !connected {
		return nil, domain.NewSamplerError(domain.ErrAnalyzerUnavailable, "sample", nil)
	}

	defer func() {
		if r := recover(); r != nil {
			frame = nil
			err = domain.NewSamplerError(domain.ErrSamplingFailed, "sample", fmt.Errorf("analyser panic: %v", r))
		}
	}()

	frame, err = analyser.FrequencyData()
	if err != nil {
		return nil, domain.NewSamplerError(domain.ErrSamplingFailed, "sample", err)
	}
	return frame, nil
}

// Listen resets the analyser whenever bus reports a newly loaded track.
// Calling Listen again replaces the previous subscription.
func (s *SamplerService) Listen(bus ports.EventBus) {
	s.mu.Lock()
	prevBus, prev := s.bus, s.subscription
	s.bus = bus
	s.mu.Unlock()

	if prevBus != nil {
		prevBus.Unsubscribe(prev)
	}

	id := bus.Subscribe(domain.EventTrackLoaded, func(domain.Event) {
		s.Reset()
	})

	s.mu.Lock()
	s.subscription = id
	s.mu.Unlock()
}

// Reset clears the analyser's sample window and smoothing history.
// It does nothing before the graph is built.
func (s *SamplerService) Reset() {
	s.mu.Lock()
	analyser := s.analyser
	s.mu.Unlock()

	if analyser != nil {
		analyser.Reset()
		s.logger.Debug("analyser reset")
	}
}

// Shutdown stops listening for track changes and closes the analyser.
// Sample fails with domain.ErrSamplingFailed afterwards.
func (s *SamplerService) Shutdown() error {
	s.mu.Lock()
	bus, id, analyser := s.bus, s.subscription, s.analyser
	s.bus = nil
	s.mu.Unlock()

	if bus != nil {
		bus.Unsubscribe(id)
	}
	if analyser != nil {
		analyser.Close()
	}
	return nil
}

// Verify interface implementation at compile time.
var _ ports.SpectrumSampler = (*SamplerService)(nil)
var _ ports.AnalysisGraph = (*SamplerService)(nil)
