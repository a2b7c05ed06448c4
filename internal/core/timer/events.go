package timer

import (
	"fmt"
	"time"

	"pomodoro/internal/core/model"
)

// EventType defines the type of Engine event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventComplete    EventType = "complete"
	EventSettings    EventType = "settings"
)

// State is a snapshot of the engine for display.
type State struct {
	Mode               model.Mode
	TimeLeft           int
	IsRunning          bool
	CompletedPomodoros int
	Settings           model.Settings
}

// Remaining returns TimeLeft as a duration.
func (state State) Remaining() time.Duration {
	return time.Duration(state.TimeLeft) * time.Second
}

// Finished reports whether the countdown reached zero.
func (state State) Finished() bool {
	return state.TimeLeft == 0
}

// Progress returns the elapsed fraction of the current interval in [0,1].
func (state State) Progress() float64 {
	total := state.Settings.Seconds(state.Mode)
	if total <= 0 {
		return 1
	}
	progress := float64(total-state.TimeLeft) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Clock formats TimeLeft as MM:SS.
func (state State) Clock() string {
	return FormatClock(state.TimeLeft)
}

// FormatClock formats seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Event represents an Engine update for observers.
type Event struct {
	Type  EventType
	State State
	// CompletedMode is the mode that just finished, set on EventComplete.
	CompletedMode model.Mode
	At            time.Time
}
