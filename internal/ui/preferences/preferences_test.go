package preferences

import (
	"testing"

	"pomodoro/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"25", 1500},
		{" 5 ", 300},
		{"1.5", 90},
		{"0", 60},
		{"-3", 60},
		{"0.2", 60},
		{"abc", 60},
		{"", 60},
		{"NaN", 60},
		{"Inf", 60},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseMinutes(tc.text), "text %q", tc.text)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "25", FormatMinutes(1500))
	assert.Equal(t, "1.5", FormatMinutes(90))
	assert.Equal(t, "0.5", FormatMinutes(30))
}

func TestFormRoundTrip(t *testing.T) {
	settings := model.DefaultSettings()
	form := FormFrom(settings)
	assert.Equal(t, "25", form.WorkMinutes)
	assert.Equal(t, "5", form.ShortBreakMinutes)
	assert.Equal(t, "15", form.LongBreakMinutes)
	assert.Equal(t, settings, form.Apply(settings))

	form.WorkMinutes = "50"
	form.ShortBreakMinutes = "oops"
	form.AutoSequence = false
	updated := form.Apply(settings)
	assert.Equal(t, 3000, updated.Work)
	assert.Equal(t, 60, updated.ShortBreak)
	assert.False(t, updated.AutoSequence)
	assert.True(t, updated.BellSound)
	assert.NoError(t, updated.Validate())
}

func TestWindowSave(t *testing.T) {
	app := test.NewTempApp(t)

	var saved []model.Settings
	prefs := New(app, model.DefaultSettings(), func(settings model.Settings) {
		saved = append(saved, settings)
	})
	prefs.Show()

	prefs.work.SetText("45")
	prefs.longBreak.SetText("0")
	prefs.bellSound.SetChecked(false)
	test.Tap(prefs.saveButton)

	require.Len(t, saved, 1)
	assert.Equal(t, 2700, saved[0].Work)
	assert.Equal(t, 300, saved[0].ShortBreak)
	assert.Equal(t, 60, saved[0].LongBreak)
	assert.True(t, saved[0].AutoSequence)
	assert.False(t, saved[0].BellSound)
	assert.Equal(t, "1", prefs.longBreak.Text)
}

func TestWindowCancelRestoresValues(t *testing.T) {
	app := test.NewTempApp(t)

	saves := 0
	prefs := New(app, model.DefaultSettings(), func(model.Settings) { saves++ })
	prefs.work.SetText("99")
	prefs.autoSequence.SetChecked(false)
	test.Tap(prefs.cancelButton)

	assert.Zero(t, saves)
	assert.Equal(t, "25", prefs.work.Text)
	assert.True(t, prefs.autoSequence.Checked)
}
