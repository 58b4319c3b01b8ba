package visualizer

import (
	"math"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

const (
	circleRadius   = 80.0
	circleMaxAmp   = 100.0
	circleStroke   = 2.0
	circleRingSize = 2.0
)

var (
	circleGradient = Gradient{
		From: rgba(45, 96, 92, 0.8),
		To:   rgba(195, 246, 234, 0.8),
	}
	circleRingColor = rgba(45, 96, 92, 0.3)
)

// planCircle draws radial segments around the surface centre, one per bin,
// followed by the reference ring.
func planCircle(frame domain.AmplitudeFrame, w, h float64) []Op {
	cx, cy := w/2, h/2
	n := float64(len(frame))
	ops := make([]Op, 0, len(frame)+1)

	for i, v := range frame {
		angle := float64(i) / n * 2 * math.Pi
		amp := float64(v) / 255 * circleMaxAmp
		cos, sin := math.Cos(angle), math.Sin(angle)

		ops = append(ops, StrokeLine{
			From:     Point{X: cx + cos*circleRadius, Y: cy + sin*circleRadius},
			To:       Point{X: cx + cos*(circleRadius+amp), Y: cy + sin*(circleRadius+amp)},
			Width:    circleStroke,
			Gradient: circleGradient,
		})
	}

	return append(ops, StrokeCircle{
		Center: Point{X: cx, Y: cy},
		Radius: circleRadius,
		Width:  circleRingSize,
		Color:  circleRingColor,
	})
}
