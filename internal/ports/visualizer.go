package ports

import (
	"image"
	"time"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

// SpectrumSampler produces one AmplitudeFrame per call from a live analyser.
//
// Errors are *domain.SamplerError values whose kind is one of
// domain.ErrAnalyzerUnavailable, domain.ErrSamplingFailed or domain.ErrGraphInit.
type SpectrumSampler interface {
	Sample() (domain.AmplitudeFrame, error)
}

// AnalysisGraph is the lazily built chain from the audio output to the analyser.
type AnalysisGraph interface {
	// EnsureGraph builds and connects the graph if that has not happened yet.
	EnsureGraph() error
}

// SignalGenerator synthesizes a plausible AmplitudeFrame for the given instant.
// It never fails.
type SignalGenerator interface {
	Simulate(now time.Time) domain.AmplitudeFrame
}

// FrameRenderer paints exactly one frame onto an RGBA surface.
type FrameRenderer interface {
	Paint(img *image.RGBA, frame domain.AmplitudeFrame, mode domain.RenderMode)
}

// Surface is the 2D raster target owned by the host.
// The image returned by Image keeps its content between frames; the host may
// replace it with a new buffer when the viewport is resized.
type Surface interface {
	// Image returns the current backing image, or nil when the surface has no area.
	Image() *image.RGBA

	// Present asks the host to show the current image.
	Present()
}

// TickHandle identifies one scheduled tick.
type TickHandle interface {
	// Cancel prevents the tick from firing. Cancelling an already fired or
	// cancelled tick is a no-op.
	Cancel()
}

// Scheduler is the frame clock. Each call to Schedule arranges for fn to be
// called once, on the next display refresh opportunity, with the frame time.
// fn is never called from inside Schedule itself.
type Scheduler interface {
	Schedule(fn func(now time.Time)) TickHandle
}

// AnalyserNode is the analysis end of the audio graph: it collects samples as a
// SampleTap and exposes the current magnitude spectrum as bytes.
type AnalyserNode interface {
	SampleTap

	// FrequencyBinCount returns the number of bins in every frame.
	FrequencyBinCount() int

	// FrequencyData returns the current spectrum, one byte per bin.
	FrequencyData() (domain.AmplitudeFrame, error)

	// Reset drops collected samples and smoothing history.
	Reset()

	// Close makes later FrequencyData calls fail.
	Close()
}
