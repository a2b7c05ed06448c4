// Package tui implements the terminal frontend.
package tui

import (
	"time"

	"pomodoro/internal/audio"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/logging"
	"pomodoro/internal/notify"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// VolumeStep is the volume change per key press.
const VolumeStep = 0.05

// bannerTTL is how long a notification stays on screen.
const bannerTTL = 10 * time.Second

// Engine is the timer surface the terminal UI drives.
type Engine interface {
	Snapshot() timer.State
	Subscribe(buffer int) <-chan timer.Event
	ToggleRunning()
	Reset()
	SetMode(mode model.Mode) error
}

// Mixer is the ambient sound surface the terminal UI drives.
type Mixer interface {
	Sounds() []audio.Sound
	Subscribe(buffer int) <-chan []audio.Sound
	Toggle(id string) error
	SetVolume(id string, volume float64) error
}

type stateMsg timer.State

type soundsMsg []audio.Sound

type soundToggledMsg []audio.Sound

type notificationMsg notify.Message

type channelClosedMsg struct{}

type errMsg struct{ err error }

// Model is the root bubbletea model.
type Model struct {
	engine   Engine
	mixer    Mixer
	logger   *log.Logger
	events   <-chan timer.Event
	sounds   <-chan []audio.Sound
	messages <-chan notify.Message
	keys     keyMap
	help     help.Model
	progress progress.Model
	state    timer.State
	mix      []audio.Sound
	cursor   int
	banner   notify.Message
	err      error
	width    int
	now      func() time.Time
}

// New creates the model. inbox may be nil.
func New(engine Engine, mixer Mixer, inbox *notify.Inbox, logger *log.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	m := Model{
		engine:   engine,
		mixer:    mixer,
		logger:   logger,
		events:   engine.Subscribe(16),
		sounds:   mixer.Subscribe(8),
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		state:    engine.Snapshot(),
		mix:      mixer.Sounds(),
		now:      time.Now,
	}
	if inbox != nil {
		m.messages = inbox.Messages()
	}
	return m
}

// Init starts listening for engine, mixer and notification updates.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForState(m.events), waitForSounds(m.sounds)}
	if m.messages != nil {
		cmds = append(cmds, waitForNotification(m.messages))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = progressWidth(msg.Width)
		return m, nil
	case stateMsg:
		m.state = timer.State(msg)
		return m, waitForState(m.events)
	case soundsMsg:
		m.mix = []audio.Sound(msg)
		return m, waitForSounds(m.sounds)
	case soundToggledMsg:
		m.mix = []audio.Sound(msg)
		return m, nil
	case notificationMsg:
		m.banner = notify.Message(msg)
		return m, waitForNotification(m.messages)
	case errMsg:
		m.err = msg.err
		return m, nil
	case channelClosedMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.engine.ToggleRunning()
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
	case key.Matches(msg, m.keys.Work):
		m.setMode(model.ModeWork)
	case key.Matches(msg, m.keys.ShortBreak):
		m.setMode(model.ModeShortBreak)
	case key.Matches(msg, m.keys.LongBreak):
		m.setMode(model.ModeLongBreak)
	case key.Matches(msg, m.keys.NextSound):
		if len(m.mix) > 0 {
			m.cursor = (m.cursor + 1) % len(m.mix)
		}
	case key.Matches(msg, m.keys.PrevSound):
		if len(m.mix) > 0 {
			m.cursor = (m.cursor - 1 + len(m.mix)) % len(m.mix)
		}
	case key.Matches(msg, m.keys.PlaySound):
		if sound, ok := m.selected(); ok {
			return m, toggleSound(m.mixer, sound.ID)
		}
	case key.Matches(msg, m.keys.VolumeUp):
		m.changeVolume(VolumeStep)
	case key.Matches(msg, m.keys.VolumeDown):
		m.changeVolume(-VolumeStep)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		return m, nil
	}
	m.state = m.engine.Snapshot()
	m.mix = m.mixer.Sounds()
	return m, nil
}

func (m *Model) setMode(mode model.Mode) {
	if err := m.engine.SetMode(mode); err != nil {
		m.err = err
	}
}

func (m *Model) changeVolume(delta float64) {
	sound, ok := m.selected()
	if !ok {
		return
	}
	if err := m.mixer.SetVolume(sound.ID, audio.ClampVolume(sound.Volume+delta)); err != nil {
		m.err = err
	}
}

func (m Model) selected() (audio.Sound, bool) {
	if m.cursor < 0 || m.cursor >= len(m.mix) {
		return audio.Sound{}, false
	}
	return m.mix[m.cursor], true
}

// toggleSound runs as a command because the first play of a track downloads it.
func toggleSound(mixer Mixer, id string) tea.Cmd {
	return func() tea.Msg {
		if err := mixer.Toggle(id); err != nil {
			return errMsg{err: err}
		}
		return soundToggledMsg(mixer.Sounds())
	}
}

func waitForState(events <-chan timer.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return channelClosedMsg{}
		}
		return stateMsg(event.State)
	}
}

func waitForSounds(sounds <-chan []audio.Sound) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-sounds
		if !ok {
			return channelClosedMsg{}
		}
		return soundsMsg(snapshot)
	}
}

func waitForNotification(messages <-chan notify.Message) tea.Cmd {
	return func() tea.Msg {
		message, ok := <-messages
		if !ok {
			return channelClosedMsg{}
		}
		return notificationMsg(message)
	}
}

func progressWidth(width int) int {
	const maxWidth = 60
	width -= 8
	if width > maxWidth {
		return maxWidth
	}
	if width < 10 {
		return 10
	}
	return width
}
