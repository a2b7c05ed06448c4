// Package timer implements the focus/break countdown state machine.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pomodoro/internal/core/model"
	"pomodoro/internal/logging"

	"github.com/charmbracelet/log"
)

// NotificationTitle is the title of every completion notification.
const NotificationTitle = "Pomodoro Timer"

// Notification bodies per completed mode.
const (
	WorkCompleteBody  = "Work session complete! Take a break."
	BreakCompleteBody = "Break is over! Time to focus."
)

// LongBreakEvery is the number of work completions between long breaks.
const LongBreakEvery = 4

// Config contains runtime options and collaborators for Engine.
type Config struct {
	TickInterval time.Duration
	Logger       *log.Logger
	Notifier     Notifier
	Bell         Bell
	Persister    Persister
}

// Engine is a state machine that counts down focus and break intervals.
type Engine struct {
	mu           sync.Mutex
	options      Config
	settings     model.Settings
	mode         model.Mode
	timeLeft     int
	running      bool
	completed    int
	hasCompleted bool
	tickGen      uint64
	cancelTick   context.CancelFunc
	events       []chan Event
	closed       bool
	async        sync.WaitGroup
}

// New creates an Engine in work mode, paused, with the full work duration left.
func New(settings model.Settings, completed int, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Logger == nil {
		options.Logger = logging.Discard()
	}
	if options.Notifier == nil {
		options.Notifier = noopNotifier{}
	}
	if options.Bell == nil {
		options.Bell = noopBell{}
	}
	if options.Persister == nil {
		options.Persister = noopPersister{}
	}
	if completed < 0 {
		completed = 0
	}
	settings = settings.Normalize()

	return &Engine{
		options:   options,
		settings:  settings,
		mode:      model.ModeWork,
		timeLeft:  settings.Seconds(model.ModeWork),
		completed: completed,
	}
}

// Subscribe registers a new observer channel. Slow observers miss events rather than block the engine.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Snapshot returns the current state.
func (engine *Engine) Snapshot() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.stateLocked()
}

// Start resumes the countdown. It does nothing when no time is left.
func (engine *Engine) Start() bool {
	engine.mu.Lock()
	if engine.closed || engine.timeLeft <= 0 {
		engine.mu.Unlock()
		return false
	}
	if !engine.running {
		engine.running = true
		engine.startTickLocked()
		engine.emitStateLocked(EventStateChange)
	}
	notifier := engine.options.Notifier
	engine.mu.Unlock()

	if notifier.PermissionState() == PermissionUndetermined {
		engine.goAsync(notifier.RequestPermission)
	}
	return true
}

// Pause freezes the countdown without touching the time left.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.running {
		return
	}
	engine.running = false
	engine.stopTickLocked()
	engine.emitStateLocked(EventStateChange)
}

// ToggleRunning pauses a running countdown or starts a paused one.
func (engine *Engine) ToggleRunning() {
	engine.mu.Lock()
	running := engine.running
	engine.mu.Unlock()

	if running {
		engine.Pause()
		return
	}
	engine.Start()
}

// Reset stops the countdown and restores the full duration of the current mode.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.enterModeLocked(engine.mode)
	engine.emitStateLocked(EventStateChange)
}

// SetMode stops the countdown and switches to mode with its full duration.
func (engine *Engine) SetMode(mode model.Mode) error {
	if _, err := model.ParseMode(string(mode)); err != nil {
		return err
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.enterModeLocked(mode)
	engine.emitStateLocked(EventStateChange)
	return nil
}

// UpdateSettings replaces the settings and persists them.
// A paused engine picks up the new duration of its current mode immediately;
// a running one keeps counting and applies it on the next reset, mode switch or completion.
func (engine *Engine) UpdateSettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.settings = settings
	if !engine.running {
		engine.timeLeft = settings.Seconds(engine.mode)
		engine.hasCompleted = false
	}
	if err := engine.options.Persister.SaveSettings(settings); err != nil {
		engine.options.Logger.Warn("persist settings", "err", err)
	}
	engine.emitStateLocked(EventSettings)
	return nil
}

// ResetCompleted sets the completed pomodoro counter back to zero.
func (engine *Engine) ResetCompleted() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.completed = 0
	if err := engine.options.Persister.SaveCompleted(0); err != nil {
		engine.options.Logger.Warn("persist completed count", "err", err)
	}
	engine.emitStateLocked(EventStateChange)
}

// Close stops ticking and closes observer channels.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.running = false
	engine.stopTickLocked()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) run(ctx context.Context, generation uint64) {
	ticker := time.NewTicker(engine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			engine.tick(generation)
		}
	}
}

// tick advances the countdown by one second. Ticks from a stale registration are dropped.
func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if generation != engine.tickGen || !engine.running || engine.timeLeft <= 0 {
		return
	}

	engine.timeLeft--
	engine.emitStateLocked(EventTick)
	if engine.timeLeft == 0 && !engine.hasCompleted {
		engine.completeLocked()
	}
}

func (engine *Engine) completeLocked() {
	engine.hasCompleted = true
	engine.running = false
	engine.stopTickLocked()

	finished := engine.mode
	logger := engine.options.Logger
	logger.Info("interval complete", "mode", finished)

	if engine.settings.BellSound {
		bell := engine.options.Bell
		engine.goAsync(func() {
			if err := bell.PlayCompletionChime(); err != nil {
				logger.Warn("play completion chime", "err", err)
			}
		})
	}

	notifier := engine.options.Notifier
	if notifier.PermissionState() == PermissionGranted {
		body := BreakCompleteBody
		if finished == model.ModeWork {
			body = WorkCompleteBody
		}
		engine.goAsync(func() {
			notifier.Notify(NotificationTitle, body)
		})
	}

	if finished == model.ModeWork {
		engine.completed++
		if err := engine.options.Persister.SaveCompleted(engine.completed); err != nil {
			logger.Warn("persist completed count", "err", err)
		}
	}

	engine.emitLocked(Event{
		Type:          EventComplete,
		State:         engine.stateLocked(),
		CompletedMode: finished,
		At:            time.Now(),
	})

	if !engine.settings.AutoSequence {
		return
	}
	next := model.ModeWork
	if finished == model.ModeWork {
		next = model.ModeShortBreak
		if engine.completed%LongBreakEvery == 0 {
			next = model.ModeLongBreak
		}
	}
	engine.enterModeLocked(next)
	engine.emitStateLocked(EventStateChange)
}

func (engine *Engine) enterModeLocked(mode model.Mode) {
	engine.running = false
	engine.stopTickLocked()
	engine.mode = mode
	engine.timeLeft = engine.settings.Seconds(mode)
	engine.hasCompleted = false
}

func (engine *Engine) startTickLocked() {
	if engine.cancelTick != nil {
		return
	}
	engine.tickGen++
	ctx, cancel := context.WithCancel(context.Background())
	engine.cancelTick = cancel
	go engine.run(ctx, engine.tickGen)
}

func (engine *Engine) stopTickLocked() {
	if engine.cancelTick == nil {
		return
	}
	engine.cancelTick()
	engine.cancelTick = nil
	engine.tickGen++
}

func (engine *Engine) goAsync(fn func()) {
	engine.async.Add(1)
	go func() {
		defer engine.async.Done()
		fn()
	}()
}

func (engine *Engine) stateLocked() State {
	return State{
		Mode:               engine.mode,
		TimeLeft:           engine.timeLeft,
		IsRunning:          engine.running,
		CompletedPomodoros: engine.completed,
		Settings:           engine.settings,
	}
}

func (engine *Engine) emitStateLocked(eventType EventType) {
	engine.emitLocked(Event{
		Type:  eventType,
		State: engine.stateLocked(),
		At:    time.Now(),
	})
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
