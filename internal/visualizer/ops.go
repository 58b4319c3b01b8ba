// Package visualizer turns amplitude frames into drawing on an RGBA surface.
//
// Rendering happens in two steps. Plan is a pure function from a frame, a mode
// and a surface size to a list of draw operations; Rasterize executes those
// operations onto an image. Paint does both.
package visualizer

import "image/color"

// Point is a position in surface coordinates, origin at the top left.
type Point struct {
	X, Y float64
}

// Rect is an axis aligned rectangle in surface coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Gradient is a two stop linear gradient running along a stroke.
type Gradient struct {
	From color.NRGBA
	To   color.NRGBA
}

// At returns the gradient colour at position t in [0, 1].
func (g Gradient) At(t float64) color.NRGBA {
	lerp := func(a, b uint8) uint8 {
		return uint8(clampByte(float64(a) + (float64(b)-float64(a))*t))
	}
	return color.NRGBA{
		R: lerp(g.From.R, g.To.R),
		G: lerp(g.From.G, g.To.G),
		B: lerp(g.From.B, g.To.B),
		A: lerp(g.From.A, g.To.A),
	}
}

// Op is a single draw operation.
type Op interface {
	isOp()
}

// FillRect fills a rectangle with a colour, blending over what is below.
type FillRect struct {
	Rect  Rect
	Color color.NRGBA
}

// StrokePolyline strokes connected line segments through Points.
type StrokePolyline struct {
	Points []Point
	Width  float64
	Color  color.NRGBA
}

// StrokeLine strokes one segment coloured by a gradient from From to To.
type StrokeLine struct {
	From     Point
	To       Point
	Width    float64
	Gradient Gradient
}

// StrokeCircle strokes a circle outline.
type StrokeCircle struct {
	Center Point
	Radius float64
	Width  float64
	Color  color.NRGBA
}

func (FillRect) isOp()       {}
func (StrokePolyline) isOp() {}
func (StrokeLine) isOp()     {}
func (StrokeCircle) isOp()   {}

// rgba builds a colour from CSS style components: 0..255 channels and a 0..1 alpha.
func rgba(r, g, b, a float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(clampByte(r)),
		G: uint8(clampByte(g)),
		B: uint8(clampByte(b)),
		A: uint8(clampByte(a * 255)),
	}
}

// clampByte rounds v to the nearest integer in [0, 255].
func clampByte(v float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return float64(int(v + 0.5))
}
