package visualizer

import "github.com/tejashwikalptaru/govis/internal/domain"

const (
	barWidthFactor  = 2.5
	barHeightFactor = 0.7
	barGap          = 1.0
)

// planBars draws one bar per bin, anchored at the bottom edge.
// Bars are wider than an even split of the surface, so higher bins run off the
// right edge and are clipped.
func planBars(frame domain.AmplitudeFrame, w, h float64) []Op {
	barWidth := w / float64(len(frame)) * barWidthFactor
	ops := make([]Op, 0, len(frame))

	x := 0.0
	for _, v := range frame {
		level := float64(v) / 255
		barHeight := level * h * barHeightFactor

		ops = append(ops, FillRect{
			Rect:  Rect{X: x, Y: h - barHeight, W: barWidth, H: barHeight},
			Color: rgba(45+level*150, 96+level*150, 92, 1),
		})
		x += barWidth + barGap
	}
	return ops
}
