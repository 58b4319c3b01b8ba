package visualizer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// gradientSteps is the number of solid pieces a gradient stroke is split into.
const gradientSteps = 8

// Rasterize executes ops in order onto img. Every operation is composited
// source-over, so translucent fills keep part of the previous content.
// Anything outside the image bounds is clipped.
func Rasterize(img *image.RGBA, ops []Op) {
	if img == nil || len(ops) == 0 {
		return
	}

	b := img.Bounds()
	r := &rasterizer{
		img:    img,
		dasher: rasterx.NewDasher(b.Dx(), b.Dy(), rasterx.NewScannerGV(b.Dx(), b.Dy(), img, b)),
	}

	for _, op := range ops {
		switch o := op.(type) {
		case FillRect:
			r.fillRect(o.Rect, o.Color)
		case StrokePolyline:
			r.stroke(o.Points, o.Width, o.Color)
		case StrokeLine:
			r.strokeGradient(o.From, o.To, o.Width, o.Gradient)
		case StrokeCircle:
			r.strokeCircle(o.Center, o.Radius, o.Width, o.Color)
		}
	}
}

type rasterizer struct {
	img    *image.RGBA
	dasher *rasterx.Dasher
}

func (r *rasterizer) fillRect(rect Rect, col color.NRGBA) {
	if rect.Empty() || col.A == 0 {
		return
	}
	area := image.Rect(
		int(math.Round(rect.X)),
		int(math.Round(rect.Y)),
		int(math.Round(rect.X+rect.W)),
		int(math.Round(rect.Y+rect.H)),
	).Add(r.img.Bounds().Min).Intersect(r.img.Bounds())
	if area.Empty() {
		return
	}
	draw.Draw(r.img, area, image.NewUniform(col), image.Point{}, draw.Over)
}

// begin resets the path and stroke settings for the next shape.
func (r *rasterizer) begin(width float64, col color.Color) {
	r.dasher.Clear()
	r.dasher.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(10*64),
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, nil, 0)
	r.dasher.SetColor(col)
}

func (r *rasterizer) stroke(points []Point, width float64, col color.NRGBA) {
	if len(points) < 2 || width <= 0 || col.A == 0 {
		return
	}
	r.begin(width, col)
	r.dasher.Start(rasterx.ToFixedP(points[0].X, points[0].Y))
	for _, p := range points[1:] {
		r.dasher.Line(rasterx.ToFixedP(p.X, p.Y))
	}
	r.dasher.Stop(false)
	r.dasher.Draw()
}

// strokeGradient approximates a linear gradient stroke with butt capped pieces
// that share their end points, so neighbouring pieces do not overlap.
func (r *rasterizer) strokeGradient(from, to Point, width float64, g Gradient) {
	dx, dy := to.X-from.X, to.Y-from.Y
	if dx == 0 && dy == 0 {
		return
	}
	for i := range gradientSteps {
		t0 := float64(i) / gradientSteps
		t1 := float64(i+1) / gradientSteps
		r.stroke([]Point{
			{X: from.X + dx*t0, Y: from.Y + dy*t0},
			{X: from.X + dx*t1, Y: from.Y + dy*t1},
		}, width, g.At((t0+t1)/2))
	}
}

func (r *rasterizer) strokeCircle(center Point, radius, width float64, col color.NRGBA) {
	if radius <= 0 || width <= 0 || col.A == 0 {
		return
	}
	r.begin(width, col)
	rasterx.AddCircle(center.X, center.Y, radius, r.dasher)
	r.dasher.Draw()
}
