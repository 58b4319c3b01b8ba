package visualizer

import "github.com/tejashwikalptaru/govis/internal/domain"

var waveColor = rgba(195, 246, 234, 0.8)

const waveWidth = 2.0

// planWave draws a single polyline across the surface. Louder bins sit lower,
// since y grows downwards.
func planWave(frame domain.AmplitudeFrame, w, h float64) []Op {
	slice := w / float64(len(frame))
	points := make([]Point, len(frame))
	for i, v := range frame {
		points[i] = Point{
			X: float64(i) * slice,
			Y: float64(v) / 255 * h,
		}
	}
	return []Op{StrokePolyline{Points: points, Width: waveWidth, Color: waveColor}}
}
