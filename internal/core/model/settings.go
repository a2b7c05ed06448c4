package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDuration indicates a non-positive interval duration.
var ErrInvalidDuration = errors.New("duration must be at least one second")

// ErrUnknownMode indicates a mode outside work, short break and long break.
var ErrUnknownMode = errors.New("unknown timer mode")

// Mode is one of the three interval kinds.
type Mode string

const (
	ModeWork       Mode = "work"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeWork, ModeShortBreak, ModeLongBreak}

// ParseMode converts a mode name to a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeWork, ModeShortBreak, ModeLongBreak:
		return Mode(value), nil
	}
	return "", fmt.Errorf("parse mode %q: %w", value, ErrUnknownMode)
}

// Label returns a human readable mode name.
func (mode Mode) Label() string {
	switch mode {
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Focus"
	}
}

// IsBreak reports whether mode is one of the break modes.
func (mode Mode) IsBreak() bool {
	return mode == ModeShortBreak || mode == ModeLongBreak
}

// Settings holds interval durations in seconds and sequencing flags.
type Settings struct {
	Work         int  `json:"work"`
	ShortBreak   int  `json:"shortBreak"`
	LongBreak    int  `json:"longBreak"`
	AutoSequence bool `json:"autoSequence"`
	BellSound    bool `json:"bellSound"`
}

// DefaultSettings returns the compiled-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Work:         25 * 60,
		ShortBreak:   5 * 60,
		LongBreak:    15 * 60,
		AutoSequence: true,
		BellSound:    true,
	}
}

// Seconds returns the configured duration of mode in seconds.
func (settings Settings) Seconds(mode Mode) int {
	switch mode {
	case ModeShortBreak:
		return settings.ShortBreak
	case ModeLongBreak:
		return settings.LongBreak
	default:
		return settings.Work
	}
}

// Duration returns the configured duration of mode.
func (settings Settings) Duration(mode Mode) time.Duration {
	return time.Duration(settings.Seconds(mode)) * time.Second
}

// Validate rejects settings with a non-positive duration.
func (settings Settings) Validate() error {
	for _, mode := range Modes {
		if settings.Seconds(mode) <= 0 {
			return fmt.Errorf("%s: %w", mode, ErrInvalidDuration)
		}
	}
	return nil
}

// Normalize coerces every non-positive duration to one second.
func (settings Settings) Normalize() Settings {
	if settings.Work <= 0 {
		settings.Work = 1
	}
	if settings.ShortBreak <= 0 {
		settings.ShortBreak = 1
	}
	if settings.LongBreak <= 0 {
		settings.LongBreak = 1
	}
	return settings
}
