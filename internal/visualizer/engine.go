package visualizer

import (
	"image"

	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Fade overlay painted at the start of every frame. Its low alpha leaves a
// trail of the previous frames on a persistent surface.
var fadeColor = rgba(0, 0, 0, 0.1)

// planner produces the mode specific operations for one frame.
type planner func(frame domain.AmplitudeFrame, w, h float64) []Op

var planners = map[domain.RenderMode]planner{
	domain.ModeBars:   planBars,
	domain.ModeWave:   planWave,
	domain.ModeCircle: planCircle,
}

// Plan returns the draw operations for one frame on a w×h surface.
//
// The first operation is always the full surface fade. An empty frame plans
// only the fade, and a surface without area plans nothing. Unknown modes are
// drawn as bars. Plan is deterministic: equal inputs give equal results.
func Plan(frame domain.AmplitudeFrame, mode domain.RenderMode, w, h int) []Op {
	if w <= 0 || h <= 0 {
		return nil
	}

	fw, fh := float64(w), float64(h)
	ops := []Op{FillRect{Rect: Rect{W: fw, H: fh}, Color: fadeColor}}
	if len(frame) == 0 {
		return ops
	}

	plan, ok := planners[mode]
	if !ok {
		plan = planners[domain.DefaultRenderMode]
	}
	return append(ops, plan(frame, fw, fh)...)
}

// Engine paints frames onto RGBA surfaces.
type Engine struct{}

// NewEngine creates a render engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Paint plans the frame for the image size and rasterizes it onto img.
// A nil image is ignored.
func (e *Engine) Paint(img *image.RGBA, frame domain.AmplitudeFrame, mode domain.RenderMode) {
	if img == nil {
		return
	}
	b := img.Bounds()
	Rasterize(img, Plan(frame, mode, b.Dx(), b.Dy()))
}

// Verify interface implementation at compile time.
var _ ports.FrameRenderer = (*Engine)(nil)
