package widgets

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurface_NoAreaBeforeLayout(t *testing.T) {
	s := NewSurface()
	assert.Nil(t, s.Image())
}

func TestSurface_BufferPersistsBetweenFrames(t *testing.T) {
	test.NewTempApp(t)
	s := NewSurface()
	s.draw(40, 20)

	img := s.Image()
	require.NotNil(t, img)
	assert.Equal(t, image.Pt(40, 20), img.Rect.Size())

	img.Set(3, 4, color.RGBA{R: 200, A: 255})
	assert.Same(t, img, s.Image())
	assert.Equal(t, uint8(200), s.Image().RGBAAt(3, 4).R)
}

func TestSurface_PresentShowsCopy(t *testing.T) {
	test.NewTempApp(t)
	s := NewSurface()
	s.draw(8, 8)

	img := s.Image()
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	s.Present()

	// Painting after Present does not alter the presented frame
	img.Set(1, 1, color.RGBA{B: 255, A: 255})

	shown, ok := s.draw(8, 8).(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, shown.RGBAAt(1, 1))
}

func TestSurface_ResizeReallocates(t *testing.T) {
	test.NewTempApp(t)
	s := NewSurface()
	s.draw(8, 8)
	first := s.Image()
	s.Present()

	blank, ok := s.draw(16, 4).(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, image.Pt(16, 4), blank.Rect.Size())

	second := s.Image()
	assert.NotSame(t, first, second)
	assert.Equal(t, image.Pt(16, 4), second.Rect.Size())
	assert.Equal(t, image.Pt(16, 4), s.PixelSize())
}

func TestSurface_WidgetRefreshBeforeFirstFrame(t *testing.T) {
	test.NewTempApp(t)
	s := NewSurface()
	w := test.NewWindow(s)
	defer w.Close()

	assert.NotPanics(t, s.Refresh)

	shown, ok := s.draw(4, 4).(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{}, shown.RGBAAt(0, 0))
}

func TestSurface_WidgetRefreshWhilePainting(t *testing.T) {
	test.NewTempApp(t)
	s := NewSurface()
	s.draw(16, 16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 200 {
			img := s.Image()
			if img == nil {
				continue
			}
			img.Set(i%16, i%16, color.RGBA{R: uint8(i), A: 255})
			s.Present()
		}
	}()

	for range 200 {
		s.Refresh()
	}
	wg.Wait()

	_, ok := s.draw(16, 16).(*image.RGBA)
	assert.True(t, ok)
}
