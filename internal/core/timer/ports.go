package timer

import "pomodoro/internal/core/model"

// PermissionState is the platform's notification permission.
type PermissionState string

const (
	PermissionGranted      PermissionState = "granted"
	PermissionDenied       PermissionState = "denied"
	PermissionUndetermined PermissionState = "undetermined"
)

// Notifier delivers local notifications.
type Notifier interface {
	PermissionState() PermissionState
	// RequestPermission asks the platform for permission. It is idempotent.
	RequestPermission()
	// Notify shows a notification; it does nothing unless permission is granted.
	Notify(title, body string)
}

// Bell plays the completion chime.
type Bell interface {
	PlayCompletionChime() error
}

// Persister stores the values that outlive the process.
type Persister interface {
	SaveSettings(settings model.Settings) error
	SaveCompleted(count int) error
}

type noopNotifier struct{}

func (noopNotifier) PermissionState() PermissionState { return PermissionDenied }
func (noopNotifier) RequestPermission()               {}
func (noopNotifier) Notify(string, string)            {}

type noopBell struct{}

func (noopBell) PlayCompletionChime() error { return nil }

type noopPersister struct{}

func (noopPersister) SaveSettings(model.Settings) error { return nil }
func (noopPersister) SaveCompleted(int) error           { return nil }
