package fyne

import (
	"log/slog"
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/govis/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/ports"
	"github.com/tejashwikalptaru/govis/res"
)

// Window defaults.
const (
	APPNAME = "govis"
	WIDTH   = 640
	HEIGHT  = 420
)

const simulatedLabel = "simulated"

// MainWindow is the main UI window implementing the ports.UI interface.
// It handles all UI rendering and user interactions.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	logger *slog.Logger

	// UI components
	surface      *widgets.Surface
	openButton   *widget.Button
	playButton   *widget.Button
	stopButton   *widget.Button
	modeSelect   *widget.RadioGroup
	volumeSlider *widget.Slider
	songInfo     *widget.Label
	sourceInfo   *widget.Label

	// modeNames maps the radio labels to modes.
	modeNames map[string]domain.RenderMode

	// Lifecycle management
	closeOnce sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates a new main window.
func NewMainWindow(app fyneapp.App, logger *slog.Logger) *MainWindow {
	w := &MainWindow{
		app:       app,
		logger:    logger,
		modeNames: make(map[string]domain.RenderMode),
	}

	w.window = app.NewWindow(APPNAME)
	w.buildUI()
	w.window.Resize(fyneapp.NewSize(WIDTH, HEIGHT))

	return w
}

// Surface returns the visualizer drawing area.
func (w *MainWindow) Surface() *widgets.Surface {
	return w.surface
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
	w.addShortcuts()
	w.volumeSlider.SetValue(presenter.Volume())
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	w.surface = widgets.NewSurface()

	w.openButton = widget.NewButtonWithIcon("", theme.FolderOpenIcon(), nil)
	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	w.stopButton = widget.NewButtonWithIcon("", theme.MediaStopIcon(), nil)

	names := make([]string, 0, len(domain.RenderModes()))
	for _, m := range domain.RenderModes() {
		names = append(names, m.Name)
		w.modeNames[m.Name] = m.Mode
	}
	w.modeSelect = widget.NewRadioGroup(names, nil)
	w.modeSelect.Horizontal = true
	w.modeSelect.Required = true

	w.songInfo = widget.NewLabel("No track loaded")
	w.songInfo.Truncation = fyneapp.TextTruncateEllipsis
	w.songInfo.TextStyle = fyneapp.TextStyle{Bold: true}

	w.sourceInfo = widget.NewLabel("")
	w.sourceInfo.TextStyle = fyneapp.TextStyle{Italic: true}

	w.volumeSlider = widget.NewSlider(0, 100)
	volumeHolder := container.NewBorder(nil, nil, widget.NewIcon(theme.VolumeUpIcon()), nil, w.volumeSlider)

	buttons := container.NewHBox(w.openButton, w.playButton, w.stopButton, w.modeSelect)
	controls := container.NewVBox(
		container.NewBorder(nil, nil, nil, w.sourceInfo, w.songInfo),
		container.NewBorder(nil, nil, buttons, nil, volumeHolder),
	)

	display := widgets.NewTapArea(w.surface, w.handleSurfaceTap, w.showModeMenu)
	w.window.SetContent(container.NewBorder(nil, container.NewPadded(controls), nil, nil, display))
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// wirePresenterHandlers connects UI events to presenter handlers.
func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}

	w.openButton.OnTapped = w.handleOpenFile
	w.playButton.OnTapped = w.presenter.OnPlayClicked
	w.stopButton.OnTapped = w.presenter.OnStopClicked

	w.modeSelect.OnChanged = func(name string) {
		if mode, ok := w.modeNames[name]; ok {
			w.presenter.OnModeSelected(mode)
		}
	}

	w.volumeSlider.OnChangeEnded = w.presenter.OnVolumeChanged
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	openFile := fyneapp.NewMenuItem("Open", w.handleOpenFile)
	about := fyneapp.NewMenuItem("About", w.showAbout)

	return []*fyneapp.Menu{
		fyneapp.NewMenu("File", openFile),
		fyneapp.NewMenu("Visualizer", w.modeMenuItems()...),
		fyneapp.NewMenu("Help", about),
	}
}

// modeMenuItems returns one menu item per render mode.
func (w *MainWindow) modeMenuItems() []*fyneapp.MenuItem {
	items := make([]*fyneapp.MenuItem, 0, len(domain.RenderModes()))
	for _, m := range domain.RenderModes() {
		mode := m.Mode
		items = append(items, fyneapp.NewMenuItem(m.Name, func() {
			if w.presenter != nil {
				w.presenter.OnModeSelected(mode)
			}
		}))
	}
	return items
}

// showModeMenu pops the mode menu up at pos, used on right-click over the visualizer.
func (w *MainWindow) showModeMenu(pos fyneapp.Position) {
	menu := fyneapp.NewMenu("", w.modeMenuItems()...)
	widget.ShowPopUpMenuAtPosition(menu, w.window.Canvas(), pos)
}

func (w *MainWindow) handleSurfaceTap() {
	if w.presenter != nil {
		w.presenter.OnPlayClicked()
	}
}

func (w *MainWindow) showAbout() {
	content := widget.NewRichTextFromMarkdown(res.AboutContent)
	content.Wrapping = fyneapp.TextWrapWord
	dialog.ShowCustom("About "+APPNAME, "Close", content, w.window)
}

// handleOpenFile handles the "Open" action.
func (w *MainWindow) handleOpenFile() {
	if w.presenter == nil {
		return
	}

	NewFileDialog(w.window, w.presenter.OnFileOpened, w.logger).Show()
}

// addShortcuts adds keyboard shortcuts: space toggles playback, 1 to 3 pick
// the visualizer mode, up and down change the volume.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().SetOnTypedKey(w.handleKey)
}

func (w *MainWindow) handleKey(ev *fyneapp.KeyEvent) {
	if w.presenter == nil {
		return
	}

	modes := domain.RenderModes()
	switch ev.Name {
	case fyneapp.KeySpace:
		w.presenter.OnPlayClicked()
	case fyneapp.Key1:
		w.presenter.OnModeSelected(modes[0].Mode)
	case fyneapp.Key2:
		w.presenter.OnModeSelected(modes[1].Mode)
	case fyneapp.Key3:
		w.presenter.OnModeSelected(modes[2].Mode)
	case fyneapp.KeyUp:
		w.volumeSlider.SetValue(w.presenter.OnVolumeStep(true))
	case fyneapp.KeyDown:
		w.volumeSlider.SetValue(w.presenter.OnVolumeStep(false))
	}
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close closes the window.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.window.Close()
	})
}

// SetOnClosed registers fn to run when the window is closed.
func (w *MainWindow) SetOnClosed(fn func()) {
	w.window.SetOnClosed(fn)
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// ports.UI implementation

// SetTrackInfo updates the displayed track name.
func (w *MainWindow) SetTrackInfo(track domain.TrackInfo) {
	fyneapp.Do(func() {
		w.songInfo.SetText(track.DisplayName())
	})
}

// SetPlayState updates the play/pause button state.
func (w *MainWindow) SetPlayState(playing bool) {
	fyneapp.Do(func() {
		if playing {
			w.playButton.SetIcon(theme.MediaPauseIcon())
		} else {
			w.playButton.SetIcon(theme.MediaPlayIcon())
		}
	})
}

// SetRenderMode selects the radio button of mode.
func (w *MainWindow) SetRenderMode(mode domain.RenderMode) {
	fyneapp.Do(func() {
		for name, m := range w.modeNames {
			if m == mode && w.modeSelect.Selected != name {
				w.modeSelect.SetSelected(name)
			}
		}
	})
}

// SetSimulated shows or hides the simulated data indicator.
func (w *MainWindow) SetSimulated(active bool) {
	fyneapp.Do(func() {
		if active {
			w.sourceInfo.SetText(simulatedLabel)
		} else {
			w.sourceInfo.SetText("")
		}
	})
}

// ShowError displays a non-fatal error to the user.
func (w *MainWindow) ShowError(err error) {
	if err == nil {
		return
	}
	fyneapp.Do(func() {
		dialog.ShowError(err, w.window)
	})
}

// Verify ports.UI implementation
var _ ports.UI = (*MainWindow)(nil)
