package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// TapArea wraps content and forwards primary and secondary (right-click)
// taps on it. The player uses it over the visualizer: a tap toggles playback
// and a right-click opens the mode menu.
type TapArea struct {
	widget.BaseWidget

	content        fyne.CanvasObject
	onTap          func()
	onSecondaryTap func(fyne.Position)
}

// NewTapArea creates a tap area around content. Either callback may be nil.
func NewTapArea(content fyne.CanvasObject, onTap func(), onSecondaryTap func(fyne.Position)) *TapArea {
	t := &TapArea{
		content:        content,
		onTap:          onTap,
		onSecondaryTap: onSecondaryTap,
	}
	t.ExtendBaseWidget(t)
	return t
}

// CreateRenderer implements fyne.Widget.
func (t *TapArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.content)
}

// Tapped implements fyne.Tappable.
func (t *TapArea) Tapped(*fyne.PointEvent) {
	if t.onTap != nil {
		t.onTap()
	}
}

// TappedSecondary implements fyne.SecondaryTappable. The callback receives
// the absolute position of the click.
func (t *TapArea) TappedSecondary(pe *fyne.PointEvent) {
	if t.onSecondaryTap != nil {
		t.onSecondaryTap(pe.AbsolutePosition)
	}
}

var _ fyne.Tappable = (*TapArea)(nil)
var _ fyne.SecondaryTappable = (*TapArea)(nil)
