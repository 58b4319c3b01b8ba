// Package widgets provides custom Fyne widgets for the govis player.
package widgets

import (
	"image"
	"slices"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/govis/internal/ports"
)

// Surface is the visualizer drawing area.
//
// The frame loop paints into a back buffer that keeps its pixels between
// frames, so the fade overlay leaves trails. Present publishes a copy of it to
// the raster. When the raster is laid out at a new pixel size the back buffer
// is reallocated on the next Image call.
type Surface struct {
	widget.BaseWidget

	raster *canvas.Raster

	// back is only touched by the frame loop.
	back *image.RGBA

	mu    sync.Mutex
	want  image.Point // last pixel size requested by the raster
	front *image.RGBA
}

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	s := &Surface{}
	s.raster = canvas.NewRaster(s.draw)
	s.ExtendBaseWidget(s)
	return s
}

// CreateRenderer implements fyne.Widget.
func (s *Surface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.raster)
}

// MinSize returns a minimal size so the widget expands to fill available space.
func (s *Surface) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

// Image implements ports.Surface.
func (s *Surface) Image() *image.RGBA {
	s.mu.Lock()
	want := s.want
	s.mu.Unlock()

	if want.X <= 0 || want.Y <= 0 {
		return nil
	}
	if s.back == nil || s.back.Rect.Size() != want {
		s.back = image.NewRGBA(image.Rectangle{Max: want})
	}
	return s.back
}

// Present implements ports.Surface. It copies the back buffer to the raster.
func (s *Surface) Present() {
	if s.back == nil {
		return
	}

	front := &image.RGBA{
		Pix:    slices.Clone(s.back.Pix),
		Stride: s.back.Stride,
		Rect:   s.back.Rect,
	}

	s.mu.Lock()
	s.front = front
	s.mu.Unlock()

	fyne.Do(s.raster.Refresh)
}

// PixelSize returns the pixel size last requested by the raster.
func (s *Surface) PixelSize() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.want
}

// draw is the raster generator.
func (s *Surface) draw(w, h int) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.want = image.Pt(w, h)
	if s.front != nil && s.front.Rect.Size() == s.want {
		return s.front
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Verify interface implementation at compile time.
var _ ports.Surface = (*Surface)(nil)
