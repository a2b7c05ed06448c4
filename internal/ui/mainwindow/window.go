// Package mainwindow implements the timer window with the ambient sound mixer.
package mainwindow

import (
	"fmt"
	"image/color"

	"pomodoro/internal/audio"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/logging"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
)

// AppTitle is appended to the remaining time in the window title.
const AppTitle = "Pomodoro Timer"

var textColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Engine is the timer surface the window drives.
type Engine interface {
	Snapshot() timer.State
	Subscribe(buffer int) <-chan timer.Event
	ToggleRunning()
	Reset()
	SetMode(mode model.Mode) error
}

// Mixer is the ambient sound surface the window drives.
type Mixer interface {
	Sounds() []audio.Sound
	Theme() audio.Theme
	Subscribe(buffer int) <-chan []audio.Sound
	Toggle(id string) error
	SetVolume(id string, volume float64) error
}

// Config contains window options and callbacks.
type Config struct {
	Logger *log.Logger
	// HideOnClose hides the window instead of quitting, for use with a tray icon.
	HideOnClose   bool
	OnSettings    func()
	OnStateChange func(timer.State)
}

// Window manages the timer UI.
type Window struct {
	app            fyne.App
	window         fyne.Window
	engine         Engine
	mixer          Mixer
	config         Config
	background     *canvas.LinearGradient
	modeLabel      *canvas.Text
	clock          *canvas.Text
	progress       *widget.ProgressBar
	modeButtons    map[model.Mode]*widget.Button
	toggleButton   *widget.Button
	resetButton    *widget.Button
	settingsButton *widget.Button
	completedLabel *widget.Label
	soundChecks    map[string]*widget.Check
	soundSliders   map[string]*widget.Slider
}

// New creates the timer window.
func New(app fyne.App, engine Engine, mixer Mixer, config Config) *Window {
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}

	window := app.NewWindow(AppTitle)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	theme := mixer.Theme()
	background := canvas.NewLinearGradient(theme.Primary, theme.Accent, 135)

	modeLabel := canvas.NewText("", textColor)
	modeLabel.Alignment = fyne.TextAlignCenter
	modeLabel.TextStyle = fyne.TextStyle{Bold: true}
	modeLabel.TextSize = 18

	clock := canvas.NewText("--:--", textColor)
	clock.Alignment = fyne.TextAlignCenter
	clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clock.TextSize = 72

	view := &Window{
		app:            app,
		window:         window,
		engine:         engine,
		mixer:          mixer,
		config:         config,
		background:     background,
		modeLabel:      modeLabel,
		clock:          clock,
		progress:       widget.NewProgressBar(),
		modeButtons:    make(map[model.Mode]*widget.Button, len(model.Modes)),
		completedLabel: widget.NewLabel(""),
		soundChecks:    make(map[string]*widget.Check),
		soundSliders:   make(map[string]*widget.Slider),
	}
	view.progress.TextFormatter = func() string { return "" }
	view.completedLabel.Alignment = fyne.TextAlignCenter

	modeRow := container.NewGridWithColumns(len(model.Modes))
	for _, mode := range model.Modes {
		button := widget.NewButton(mode.Label(), func() {
			if err := engine.SetMode(mode); err != nil {
				view.config.Logger.Warn("set mode", "mode", mode, "err", err)
			}
		})
		view.modeButtons[mode] = button
		modeRow.Add(button)
	}

	view.toggleButton = widget.NewButton("Start", engine.ToggleRunning)
	view.toggleButton.Importance = widget.HighImportance
	view.resetButton = widget.NewButton("Reset", engine.Reset)
	view.settingsButton = widget.NewButton("Settings", func() {
		if view.config.OnSettings != nil {
			view.config.OnSettings()
		}
	})
	controls := container.NewHBox(layout.NewSpacer(), view.toggleButton, view.resetButton, view.settingsButton, layout.NewSpacer())

	timerPanel := container.NewVBox(
		modeRow,
		modeLabel,
		clock,
		view.progress,
		controls,
		view.completedLabel,
	)

	content := container.NewBorder(timerPanel, nil, nil, nil, container.NewVScroll(view.buildMixer()))
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.Resize(fyne.NewSize(460, 640))

	window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		view.handleKey(event.Name, window.Canvas().Focused() != nil)
	})
	if config.HideOnClose {
		window.SetCloseIntercept(window.Hide)
	}

	view.renderState(engine.Snapshot())
	view.renderSounds(mixer.Sounds())
	return view
}

// Bind forwards engine and mixer updates to the UI until their channels close.
func (view *Window) Bind() {
	events := view.engine.Subscribe(16)
	go func() {
		for event := range events {
			state := event.State
			fyne.Do(func() {
				view.renderState(state)
			})
		}
	}()

	sounds := view.mixer.Subscribe(8)
	go func() {
		for snapshot := range sounds {
			fyne.Do(func() {
				view.renderSounds(snapshot)
			})
		}
	}()
}

// Window returns the underlying Fyne window.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// CompletedText returns the completed counter caption.
func CompletedText(count int) string {
	if count == 1 {
		return "1 pomodoro completed"
	}
	return fmt.Sprintf("%d pomodoros completed", count)
}

// Title returns the window title for state.
func Title(state timer.State) string {
	return fmt.Sprintf("%s - %s", state.Clock(), AppTitle)
}

func (view *Window) buildMixer() fyne.CanvasObject {
	rows := container.NewVBox(widget.NewLabelWithStyle("Ambient sounds", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, sound := range view.mixer.Sounds() {
		id := sound.ID
		check := widget.NewCheck(sound.Name, func(bool) {
			view.toggleSound(id)
		})
		slider := widget.NewSlider(0, 1)
		slider.Step = 0.01
		slider.Value = sound.Volume
		slider.OnChanged = func(volume float64) {
			if err := view.mixer.SetVolume(id, volume); err != nil {
				view.config.Logger.Warn("set volume", "sound", id, "err", err)
			}
		}
		view.soundChecks[id] = check
		view.soundSliders[id] = slider
		rows.Add(container.NewBorder(nil, nil, check, nil, slider))
	}
	return rows
}

// toggleSound runs off the UI goroutine because the first play of a track downloads it.
func (view *Window) toggleSound(id string) {
	go func() {
		if err := view.mixer.Toggle(id); err != nil {
			view.config.Logger.Warn("toggle sound", "sound", id, "err", err)
		}
	}()
}

// handleKey maps space to start/pause and R to reset. Keys are ignored while a widget has focus.
func (view *Window) handleKey(name fyne.KeyName, focused bool) bool {
	if focused {
		return false
	}
	switch name {
	case fyne.KeySpace:
		view.engine.ToggleRunning()
	case fyne.KeyR:
		view.engine.Reset()
	default:
		return false
	}
	return true
}

func (view *Window) renderState(state timer.State) {
	view.window.SetTitle(Title(state))
	view.modeLabel.Text = state.Mode.Label()
	view.modeLabel.Refresh()
	view.clock.Text = state.Clock()
	view.clock.Refresh()
	view.progress.SetValue(state.Progress())

	for mode, button := range view.modeButtons {
		importance := widget.MediumImportance
		if mode == state.Mode {
			importance = widget.HighImportance
		}
		if button.Importance != importance {
			button.Importance = importance
			button.Refresh()
		}
	}

	if state.IsRunning {
		view.toggleButton.SetText("Pause")
	} else {
		view.toggleButton.SetText("Start")
	}
	// A finished countdown needs a reset or mode switch before it can start again.
	if state.Finished() && !state.IsRunning {
		view.toggleButton.Disable()
	} else {
		view.toggleButton.Enable()
	}
	view.completedLabel.SetText(CompletedText(state.CompletedPomodoros))

	if view.config.OnStateChange != nil {
		view.config.OnStateChange(state)
	}
}

// renderSounds updates widgets in place so their change callbacks do not fire.
func (view *Window) renderSounds(sounds []audio.Sound) {
	for _, sound := range sounds {
		if check, ok := view.soundChecks[sound.ID]; ok && check.Checked != sound.IsPlaying {
			check.Checked = sound.IsPlaying
			check.Refresh()
		}
		if slider, ok := view.soundSliders[sound.ID]; ok && slider.Value != sound.Volume {
			slider.Value = sound.Volume
			slider.Refresh()
		}
	}

	theme := audio.DefaultTheme
	for _, sound := range sounds {
		if sound.IsPlaying {
			theme = audio.ThemeFor(sound.ID)
			break
		}
	}
	view.background.StartColor = theme.Primary
	view.background.EndColor = theme.Accent
	view.background.Refresh()
}
