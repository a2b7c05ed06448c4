package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"pomodoro/internal/logging"

	"github.com/charmbracelet/log"
)

// ErrUnknownSound indicates an id that is not in the catalog.
var ErrUnknownSound = errors.New("unknown sound")

// Source plays loopable tracks addressed by id.
type Source interface {
	// Load prepares id for playback. It may block on I/O and is safe to repeat.
	Load(id string) error
	// Play starts looped playback of id from its current position.
	Play(id string, volume float64) error
	Pause(id string)
	// Rewind seeks id back to the start.
	Rewind(id string)
	SetVolume(id string, volume float64)
}

// Sound is the display state of one ambient track.
type Sound struct {
	ID        string
	Name      string
	Volume    float64
	IsPlaying bool
}

// Controller owns the ambient tracks and keeps at most one of them playing.
type Controller struct {
	mu     sync.Mutex
	source Source
	logger *log.Logger
	sounds []Sound
	events []chan []Sound
	closed bool
	// loading is the index of the track whose start request is in flight, or -1.
	loading int
	// requestGen increments on every start request, cancellation and StopAll.
	requestGen uint64
}

// NewController creates a controller with every catalog track stopped at DefaultVolume.
func NewController(catalog []TrackInfo, source Source, logger *log.Logger) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	sounds := make([]Sound, 0, len(catalog))
	for _, track := range catalog {
		sounds = append(sounds, Sound{ID: track.ID, Name: track.Name, Volume: DefaultVolume})
	}
	return &Controller{source: source, logger: logger, sounds: sounds, loading: -1}
}

// Sounds returns a snapshot of every track.
func (controller *Controller) Sounds() []Sound {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.snapshotLocked()
}

// Active returns the playing track, if any.
func (controller *Controller) Active() (Sound, bool) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	for _, sound := range controller.sounds {
		if sound.IsPlaying {
			return sound, true
		}
	}
	return Sound{}, false
}

// Theme returns the theme of the playing track or DefaultTheme.
func (controller *Controller) Theme() Theme {
	if sound, ok := controller.Active(); ok {
		return ThemeFor(sound.ID)
	}
	return DefaultTheme
}

// Subscribe registers an observer that receives a snapshot after every change.
func (controller *Controller) Subscribe(buffer int) <-chan []Sound {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan []Sound, buffer)
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		close(ch)
		return ch
	}
	controller.events = append(controller.events, ch)
	return ch
}

// Toggle stops id if it is playing; otherwise it stops every other track and starts id.
// Toggling id again while its start is still loading cancels that start.
// A start that is overtaken by another start or StopAll while loading is dropped.
// Playback failures are logged and leave id stopped.
func (controller *Controller) Toggle(id string) error {
	controller.mu.Lock()
	index := controller.indexLocked(id)
	if index < 0 {
		controller.mu.Unlock()
		return fmt.Errorf("toggle %q: %w", id, ErrUnknownSound)
	}
	if controller.sounds[index].IsPlaying {
		controller.stopLocked(index)
		controller.emitLocked()
		controller.mu.Unlock()
		return nil
	}
	if controller.loading == index {
		controller.cancelLoadingLocked()
		controller.emitLocked()
		controller.mu.Unlock()
		return nil
	}
	controller.requestGen++
	request := controller.requestGen
	controller.loading = index
	controller.mu.Unlock()

	// Loading may download and decode, so it runs without the lock.
	loadErr := controller.source.Load(id)

	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.requestGen != request {
		return nil
	}
	controller.loading = -1
	if loadErr != nil {
		controller.logger.Warn("load ambient track", "sound", id, "err", loadErr)
		controller.emitLocked()
		return nil
	}
	for i := range controller.sounds {
		if i != index {
			controller.stopLocked(i)
		}
	}
	if err := controller.source.Play(id, controller.sounds[index].Volume); err != nil {
		controller.logger.Warn("play ambient track", "sound", id, "err", err)
		controller.sounds[index].IsPlaying = false
	} else {
		controller.sounds[index].IsPlaying = true
	}
	controller.emitLocked()
	return nil
}

// Loading reports the track whose start is waiting on its download, if any.
func (controller *Controller) Loading() (string, bool) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.loading < 0 {
		return "", false
	}
	return controller.sounds[controller.loading].ID, true
}

// SetVolume clamps volume to [0,1] and applies it to id whether or not it is playing.
func (controller *Controller) SetVolume(id string, volume float64) error {
	volume = ClampVolume(volume)

	controller.mu.Lock()
	defer controller.mu.Unlock()
	index := controller.indexLocked(id)
	if index < 0 {
		return fmt.Errorf("set volume %q: %w", id, ErrUnknownSound)
	}
	controller.sounds[index].Volume = volume
	controller.source.SetVolume(id, volume)
	controller.emitLocked()
	return nil
}

// StopAll stops and rewinds every track.
func (controller *Controller) StopAll() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.cancelLoadingLocked()
	for i := range controller.sounds {
		controller.stopLocked(i)
	}
	controller.emitLocked()
}

// Close stops every track and closes observer channels.
func (controller *Controller) Close() {
	controller.StopAll()

	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return
	}
	controller.closed = true
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// ClampVolume limits volume to [0,1]; NaN becomes 0.
func ClampVolume(volume float64) float64 {
	if math.IsNaN(volume) || volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}

func (controller *Controller) cancelLoadingLocked() {
	controller.requestGen++
	controller.loading = -1
}

func (controller *Controller) stopLocked(index int) {
	id := controller.sounds[index].ID
	controller.source.Pause(id)
	controller.source.Rewind(id)
	controller.sounds[index].IsPlaying = false
}

func (controller *Controller) indexLocked(id string) int {
	for i, sound := range controller.sounds {
		if sound.ID == id {
			return i
		}
	}
	return -1
}

func (controller *Controller) snapshotLocked() []Sound {
	snapshot := make([]Sound, len(controller.sounds))
	copy(snapshot, controller.sounds)
	return snapshot
}

func (controller *Controller) emitLocked() {
	if len(controller.events) == 0 {
		return
	}
	snapshot := controller.snapshotLocked()
	for _, ch := range controller.events {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
