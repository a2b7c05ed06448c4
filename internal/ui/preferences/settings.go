package preferences

import (
	"math"
	"strconv"
	"strings"

	"pomodoro/internal/core/model"
)

// minimumSeconds is the shortest interval the form accepts: one minute.
const minimumSeconds = 60

// Form holds settings in the units shown to the user.
type Form struct {
	WorkMinutes       string
	ShortBreakMinutes string
	LongBreakMinutes  string
	AutoSequence      bool
	BellSound         bool
}

// FormFrom converts settings to form values.
func FormFrom(settings model.Settings) Form {
	return Form{
		WorkMinutes:       FormatMinutes(settings.Work),
		ShortBreakMinutes: FormatMinutes(settings.ShortBreak),
		LongBreakMinutes:  FormatMinutes(settings.LongBreak),
		AutoSequence:      settings.AutoSequence,
		BellSound:         settings.BellSound,
	}
}

// Apply returns base with the form values applied.
func (form Form) Apply(base model.Settings) model.Settings {
	settings := base
	settings.Work = ParseMinutes(form.WorkMinutes)
	settings.ShortBreak = ParseMinutes(form.ShortBreakMinutes)
	settings.LongBreak = ParseMinutes(form.LongBreakMinutes)
	settings.AutoSequence = form.AutoSequence
	settings.BellSound = form.BellSound
	return settings.Normalize()
}

// FormatMinutes renders seconds as minutes, with a fraction only when needed.
func FormatMinutes(seconds int) string {
	return strconv.FormatFloat(float64(seconds)/60, 'f', -1, 64)
}

// ParseMinutes converts minutes text to seconds.
// Text that is not a number, or is under a minute, becomes one minute.
func ParseMinutes(text string) int {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return minimumSeconds
	}
	seconds := math.Round(minutes * 60)
	if seconds < minimumSeconds {
		return minimumSeconds
	}
	if seconds > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(seconds)
}
