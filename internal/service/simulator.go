package service

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

const (
	// SimulatedBins is the length of every simulated frame.
	SimulatedBins = 64

	simPhaseStep = 0.2
	simAmplitude = 100.0
	simOffset    = 100.0
	simJitter    = 50.0
)

// SimulatorService synthesizes a moving spectrum when no real analysis is available.
// Each bin follows a sine wave of wall clock seconds, phase shifted per bin,
// plus uniform jitter.
type SimulatorService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatorService creates a generator. A nil rng uses a randomly seeded source.
func NewSimulatorService(rng *rand.Rand) *SimulatorService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SimulatorService{rng: rng}
}

// Simulate returns a 64 bin frame for instant now. It never fails.
func (s *SimulatorService) Simulate(now time.Time) domain.AmplitudeFrame {
	seconds := float64(now.UnixMilli()) / 1000

	s.mu.Lock()
	defer s.mu.Unlock()

	frame := make(domain.AmplitudeFrame, SimulatedBins)
	for i := range frame {
		v := math.Sin(seconds+float64(i)*simPhaseStep)*simAmplitude + simOffset + s.rng.Float64()*simJitter
		frame[i] = clampLevel(v)
	}
	return frame
}

// clampLevel truncates v into a byte, saturating outside [0, 255].
func clampLevel(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// Verify interface implementation at compile time.
var _ ports.SignalGenerator = (*SimulatorService)(nil)
