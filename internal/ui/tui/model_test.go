package tui

import (
	"testing"
	"time"

	"pomodoro/internal/audio"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/notify"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, inbox *notify.Inbox) (Model, *timer.Engine, *audio.Controller) {
	t.Helper()
	engine := timer.New(model.DefaultSettings(), 0, timer.Config{TickInterval: time.Hour})
	t.Cleanup(engine.Close)
	controller := audio.NewController(audio.DefaultCatalog(), audio.MuteSource{}, nil)
	t.Cleanup(controller.Close)
	return New(engine, controller, inbox, nil), engine, controller
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func TestSpaceTogglesAndRResets(t *testing.T) {
	m, engine, _ := newModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, engine.Snapshot().IsRunning)
	assert.True(t, m.state.IsRunning)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, engine.Snapshot().IsRunning)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, runes("r"))
	state := engine.Snapshot()
	assert.False(t, state.IsRunning)
	assert.Equal(t, 1500, state.TimeLeft)
	assert.Equal(t, state, m.state)
}

func TestModeKeys(t *testing.T) {
	m, engine, _ := newModel(t, nil)

	m, _ = update(t, m, runes("2"))
	assert.Equal(t, model.ModeShortBreak, engine.Snapshot().Mode)
	assert.Equal(t, 300, m.state.TimeLeft)

	m, _ = update(t, m, runes("3"))
	assert.Equal(t, model.ModeLongBreak, m.state.Mode)

	m, _ = update(t, m, runes("1"))
	assert.Equal(t, model.ModeWork, m.state.Mode)
	assert.Contains(t, m.View(), "25:00")
}

func TestSoundCursorToggleAndVolume(t *testing.T) {
	m, _, controller := newModel(t, nil)
	count := len(controller.Sounds())

	m, _ = update(t, m, runes("s"))
	assert.Equal(t, 1, m.cursor)
	m, _ = update(t, m, runes("S"))
	m, _ = update(t, m, runes("S"))
	assert.Equal(t, count-1, m.cursor)
	m, _ = update(t, m, runes("s"))
	assert.Equal(t, 0, m.cursor)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	active, ok := controller.Active()
	require.True(t, ok)
	assert.Equal(t, "rain", active.ID)
	assert.True(t, m.mix[0].IsPlaying)

	m, _ = update(t, m, runes("+"))
	assert.InDelta(t, audio.DefaultVolume+VolumeStep, controller.Sounds()[0].Volume, 1e-9)
	for i := 0; i < 30; i++ {
		m, _ = update(t, m, runes("-"))
	}
	assert.Zero(t, controller.Sounds()[0].Volume)
	assert.Zero(t, m.mix[0].Volume)
}

func TestQuit(t *testing.T) {
	m, _, _ := newModel(t, nil)
	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestStateAndNotificationMessages(t *testing.T) {
	inbox := notify.NewInbox(1, true)
	inbox.RequestPermission()
	m, engine, _ := newModel(t, inbox)
	require.NotNil(t, m.Init())

	engine.Start()
	m, cmd := update(t, m, stateMsg(engine.Snapshot()))
	require.NotNil(t, cmd)
	assert.True(t, m.state.IsRunning)

	now := time.Now()
	m.now = func() time.Time { return now }
	m, _ = update(t, m, notificationMsg(notify.Message{Title: timer.NotificationTitle, Body: timer.WorkCompleteBody, At: now}))
	assert.Contains(t, m.View(), timer.WorkCompleteBody)

	m.now = func() time.Time { return now.Add(time.Minute) }
	assert.NotContains(t, m.View(), timer.WorkCompleteBody)
}

func TestWaitCommandsReportClosedChannels(t *testing.T) {
	events := make(chan timer.Event)
	close(events)
	assert.Equal(t, channelClosedMsg{}, waitForState(events)())

	sounds := make(chan []audio.Sound)
	close(sounds)
	assert.Equal(t, channelClosedMsg{}, waitForSounds(sounds)())
}

func TestWindowSize(t *testing.T) {
	m, _, _ := newModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, 60, m.progress.Width)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 12, Height: 40})
	assert.Equal(t, 10, m.progress.Width)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "1 pomodoro completed", completedText(1))
	assert.Equal(t, "2 pomodoros completed", completedText(2))
	assert.Equal(t, "#2d2d2d", hexColor(audio.DefaultTheme.Primary))
	assert.Equal(t, "█████░░░░░", volumeBar(0.5, 10))
	assert.Equal(t, audio.ThemeFor("fire"), activeTheme([]audio.Sound{{ID: "rain"}, {ID: "fire", IsPlaying: true}}))
}
