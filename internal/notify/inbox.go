package notify

import (
	"sync"
	"time"

	"pomodoro/internal/core/timer"
)

// Message is a notification delivered to an in-app inbox.
type Message struct {
	Title string
	Body  string
	At    time.Time
}

// Inbox queues notifications for frontends that render them themselves, such as the terminal UI.
type Inbox struct {
	mu       sync.Mutex
	state    timer.PermissionState
	messages chan Message
}

// NewInbox creates an inbox holding up to buffer undelivered messages.
func NewInbox(buffer int, enabled bool) *Inbox {
	if buffer <= 0 {
		buffer = 1
	}
	state := timer.PermissionUndetermined
	if !enabled {
		state = timer.PermissionDenied
	}
	return &Inbox{state: state, messages: make(chan Message, buffer)}
}

// Messages returns the delivery channel.
func (inbox *Inbox) Messages() <-chan Message {
	return inbox.messages
}

// PermissionState reports the current permission.
func (inbox *Inbox) PermissionState() timer.PermissionState {
	inbox.mu.Lock()
	defer inbox.mu.Unlock()
	return inbox.state
}

// RequestPermission grants permission unless it was denied.
func (inbox *Inbox) RequestPermission() {
	inbox.mu.Lock()
	defer inbox.mu.Unlock()
	if inbox.state == timer.PermissionUndetermined {
		inbox.state = timer.PermissionGranted
	}
}

// Notify queues a message, dropping it when the inbox is full.
func (inbox *Inbox) Notify(title, body string) {
	if inbox.PermissionState() != timer.PermissionGranted {
		return
	}
	select {
	case inbox.messages <- Message{Title: title, Body: body, At: time.Now()}:
	default:
	}
}
