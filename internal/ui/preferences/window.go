// Package preferences implements the settings window.
package preferences

import (
	"pomodoro/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the settings UI.
type Window struct {
	window       fyne.Window
	settings     model.Settings
	onSave       func(model.Settings)
	work         *widget.Entry
	shortBreak   *widget.Entry
	longBreak    *widget.Entry
	autoSequence *widget.Check
	bellSound    *widget.Check
	saveButton   *widget.Button
	cancelButton *widget.Button
}

// New creates a settings window. onSave receives the coerced settings.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("Pomodoro Settings")

	work := widget.NewEntry()
	shortBreak := widget.NewEntry()
	longBreak := widget.NewEntry()
	autoSequence := widget.NewCheck("Auto-start next session", nil)
	bellSound := widget.NewCheck("Play bell when a session ends", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.New(layout.NewFormLayout(),
			widget.NewLabel("Focus (min)"), work,
			widget.NewLabel("Short break (min)"), shortBreak,
			widget.NewLabel("Long break (min)"), longBreak,
		),
		widget.NewLabelWithStyle("Behaviour", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		autoSequence,
		bellSound,
	)

	saveButton := widget.NewButton("Save", nil)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 300))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:       window,
		onSave:       onSave,
		work:         work,
		shortBreak:   shortBreak,
		longBreak:    longBreak,
		autoSequence: autoSequence,
		bellSound:    bellSound,
		saveButton:   saveButton,
		cancelButton: cancelButton,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the settings window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	form := FormFrom(settings)
	prefs.work.SetText(form.WorkMinutes)
	prefs.shortBreak.SetText(form.ShortBreakMinutes)
	prefs.longBreak.SetText(form.LongBreakMinutes)
	prefs.autoSequence.SetChecked(form.AutoSequence)
	prefs.bellSound.SetChecked(form.BellSound)
}

func (prefs *Window) form() Form {
	return Form{
		WorkMinutes:       prefs.work.Text,
		ShortBreakMinutes: prefs.shortBreak.Text,
		LongBreakMinutes:  prefs.longBreak.Text,
		AutoSequence:      prefs.autoSequence.Checked,
		BellSound:         prefs.bellSound.Checked,
	}
}

func (prefs *Window) handleSave() {
	settings := prefs.form().Apply(prefs.settings)
	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}
