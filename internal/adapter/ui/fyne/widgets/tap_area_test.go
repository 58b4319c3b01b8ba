package widgets

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestTapArea_ForwardsTaps(t *testing.T) {
	test.NewTempApp(t)

	taps := 0
	var menuAt *fyne.Position
	area := NewTapArea(canvas.NewRectangle(nil), func() { taps++ }, func(pos fyne.Position) {
		menuAt = &pos
	})

	test.Tap(area)
	assert.Equal(t, 1, taps)
	assert.Nil(t, menuAt)

	test.TapSecondary(area)
	assert.Equal(t, 1, taps)
	assert.NotNil(t, menuAt)
}

func TestTapArea_NilCallbacks(t *testing.T) {
	test.NewTempApp(t)
	area := NewTapArea(canvas.NewRectangle(nil), nil, nil)

	assert.NotPanics(t, func() {
		test.Tap(area)
		test.TapSecondary(area)
	})
}
