// Package notify delivers completion notifications.
package notify

import (
	"sync"

	"pomodoro/internal/core/timer"

	"fyne.io/fyne/v2"
)

// Desktop sends OS notifications through the Fyne app.
// Fyne has no permission prompt, so a request is granted unless notifications are disabled.
type Desktop struct {
	mu      sync.Mutex
	app     fyne.App
	enabled bool
	state   timer.PermissionState
}

// NewDesktop creates a notifier backed by app.
func NewDesktop(app fyne.App, enabled bool) *Desktop {
	state := timer.PermissionUndetermined
	if !enabled {
		state = timer.PermissionDenied
	}
	return &Desktop{app: app, enabled: enabled, state: state}
}

// PermissionState reports the current permission.
func (desktop *Desktop) PermissionState() timer.PermissionState {
	desktop.mu.Lock()
	defer desktop.mu.Unlock()
	return desktop.state
}

// RequestPermission grants permission once when notifications are enabled.
func (desktop *Desktop) RequestPermission() {
	desktop.mu.Lock()
	defer desktop.mu.Unlock()
	if desktop.state == timer.PermissionUndetermined && desktop.enabled {
		desktop.state = timer.PermissionGranted
	}
}

// Notify shows an OS notification when permission is granted.
func (desktop *Desktop) Notify(title, body string) {
	if desktop.PermissionState() != timer.PermissionGranted {
		return
	}
	notification := fyne.NewNotification(title, body)
	fyne.Do(func() {
		desktop.app.SendNotification(notification)
	})
}
