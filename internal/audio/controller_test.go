package audio

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"pomodoro/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	playing map[string]bool
	volumes map[string]float64
	rewinds map[string]int
	loadErr map[string]error
	playErr map[string]error
	plays   []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		playing: make(map[string]bool),
		volumes: make(map[string]float64),
		rewinds: make(map[string]int),
		loadErr: make(map[string]error),
		playErr: make(map[string]error),
	}
}

func (source *fakeSource) Load(id string) error {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.loadErr[id]
}

func (source *fakeSource) Play(id string, volume float64) error {
	source.mu.Lock()
	defer source.mu.Unlock()
	if err := source.playErr[id]; err != nil {
		return err
	}
	source.playing[id] = true
	source.volumes[id] = volume
	source.plays = append(source.plays, id)
	return nil
}

func (source *fakeSource) Pause(id string) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.playing[id] = false
}

func (source *fakeSource) Rewind(id string) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.rewinds[id]++
}

func (source *fakeSource) SetVolume(id string, volume float64) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.volumes[id] = volume
}

func (source *fakeSource) playingCount() int {
	source.mu.Lock()
	defer source.mu.Unlock()
	count := 0
	for _, playing := range source.playing {
		if playing {
			count++
		}
	}
	return count
}

// gatedSource blocks every Load until the gate closes.
type gatedSource struct {
	*fakeSource
	started chan string
	gate    chan struct{}
}

func newGatedSource() *gatedSource {
	return &gatedSource{
		fakeSource: newFakeSource(),
		started:    make(chan string, 8),
		gate:       make(chan struct{}),
	}
}

func (source *gatedSource) Load(id string) error {
	source.started <- id
	<-source.gate
	return source.fakeSource.Load(id)
}

// toggleAsync starts Toggle(id) and waits until its Load is blocked on the gate.
func toggleAsync(t *testing.T, controller *Controller, source *gatedSource, id string) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- controller.Toggle(id)
	}()
	select {
	case started := <-source.started:
		require.Equal(t, id, started)
	case <-time.After(time.Second):
		t.Fatalf("load of %s did not start", id)
	}
	return done
}

func waitToggle(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("toggle did not return")
	}
}

func newTestController() (*Controller, *fakeSource) {
	source := newFakeSource()
	return NewController(DefaultCatalog(), source, logging.Discard()), source
}

func playingIDs(sounds []Sound) []string {
	var ids []string
	for _, sound := range sounds {
		if sound.IsPlaying {
			ids = append(ids, sound.ID)
		}
	}
	return ids
}

func TestNewControllerFromCatalog(t *testing.T) {
	controller, _ := newTestController()
	sounds := controller.Sounds()
	require.Len(t, sounds, 6)
	assert.Equal(t, "rain", sounds[0].ID)
	assert.Equal(t, "Ocean Waves", sounds[4].Name)
	for _, sound := range sounds {
		assert.Equal(t, DefaultVolume, sound.Volume)
		assert.False(t, sound.IsPlaying)
	}
	_, ok := controller.Active()
	assert.False(t, ok)
	assert.Equal(t, DefaultTheme, controller.Theme())
}

func TestToggleStartsAndStops(t *testing.T) {
	controller, source := newTestController()

	require.NoError(t, controller.Toggle("rain"))
	assert.Equal(t, []string{"rain"}, playingIDs(controller.Sounds()))
	assert.Equal(t, 0.5, source.volumes["rain"])
	assert.Equal(t, ThemeFor("rain"), controller.Theme())

	require.NoError(t, controller.Toggle("rain"))
	assert.Empty(t, playingIDs(controller.Sounds()))
	assert.Equal(t, 0, source.playingCount())
	assert.GreaterOrEqual(t, source.rewinds["rain"], 1)
}

func TestToggleIsExclusive(t *testing.T) {
	controller, source := newTestController()

	require.NoError(t, controller.Toggle("rain"))
	require.NoError(t, controller.Toggle("fire"))
	assert.Equal(t, []string{"fire"}, playingIDs(controller.Sounds()))
	assert.Equal(t, 1, source.playingCount())
	assert.GreaterOrEqual(t, source.rewinds["rain"], 1)

	active, ok := controller.Active()
	require.True(t, ok)
	assert.Equal(t, "fire", active.ID)
}

func TestToggleRandomSequenceKeepsAtMostOnePlaying(t *testing.T) {
	controller, source := newTestController()
	ids := []string{"rain", "fire", "cafe", "wind", "waves", "forest"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		require.NoError(t, controller.Toggle(ids[rng.Intn(len(ids))]))
		assert.LessOrEqual(t, len(playingIDs(controller.Sounds())), 1)
		assert.LessOrEqual(t, source.playingCount(), 1)
	}
}

func TestToggleUnknown(t *testing.T) {
	controller, _ := newTestController()
	assert.ErrorIs(t, controller.Toggle("thunder"), ErrUnknownSound)
}

func TestTogglePlaybackFailureRollsBack(t *testing.T) {
	controller, source := newTestController()
	require.NoError(t, controller.Toggle("rain"))

	source.playErr["cafe"] = errors.New("blocked by policy")
	require.NoError(t, controller.Toggle("cafe"))
	assert.Empty(t, playingIDs(controller.Sounds()))

	source.loadErr["wind"] = errors.New("offline")
	require.NoError(t, controller.Toggle("wind"))
	assert.Empty(t, playingIDs(controller.Sounds()))
}

func TestToggleDuringLoadCancelsStart(t *testing.T) {
	source := newGatedSource()
	controller := NewController(DefaultCatalog(), source, logging.Discard())

	first := toggleAsync(t, controller, source, "rain")
	loading, ok := controller.Loading()
	require.True(t, ok)
	assert.Equal(t, "rain", loading)

	// The second toggle cancels without loading again.
	require.NoError(t, controller.Toggle("rain"))
	_, ok = controller.Loading()
	assert.False(t, ok)

	close(source.gate)
	waitToggle(t, first)
	assert.Empty(t, playingIDs(controller.Sounds()))
	assert.Equal(t, 0, source.playingCount())
	assert.Empty(t, source.plays)

	require.NoError(t, controller.Toggle("rain"))
	assert.Equal(t, []string{"rain"}, playingIDs(controller.Sounds()))
}

func TestStopAllDuringLoadDropsStart(t *testing.T) {
	source := newGatedSource()
	controller := NewController(DefaultCatalog(), source, logging.Discard())

	pending := toggleAsync(t, controller, source, "rain")
	controller.StopAll()
	close(source.gate)
	waitToggle(t, pending)

	assert.Empty(t, playingIDs(controller.Sounds()))
	assert.Equal(t, 0, source.playingCount())
	_, ok := controller.Loading()
	assert.False(t, ok)
}

func TestLaterStartWinsOverPendingLoad(t *testing.T) {
	source := newGatedSource()
	controller := NewController(DefaultCatalog(), source, logging.Discard())

	rain := toggleAsync(t, controller, source, "rain")
	fire := toggleAsync(t, controller, source, "fire")
	close(source.gate)
	waitToggle(t, rain)
	waitToggle(t, fire)

	assert.Equal(t, []string{"fire"}, playingIDs(controller.Sounds()))
	assert.Equal(t, []string{"fire"}, source.plays)
	assert.Equal(t, 1, source.playingCount())
}

func TestSetVolumeClampsAndIsolates(t *testing.T) {
	controller, source := newTestController()

	require.NoError(t, controller.SetVolume("rain", 0.8))
	require.NoError(t, controller.SetVolume("fire", 1.7))
	require.NoError(t, controller.SetVolume("cafe", -0.2))
	require.NoError(t, controller.SetVolume("wind", math.NaN()))

	volumes := map[string]float64{}
	for _, sound := range controller.Sounds() {
		volumes[sound.ID] = sound.Volume
	}
	assert.Equal(t, 0.8, volumes["rain"])
	assert.Equal(t, 1.0, volumes["fire"])
	assert.Equal(t, 0.0, volumes["cafe"])
	assert.Equal(t, 0.0, volumes["wind"])
	assert.Equal(t, DefaultVolume, volumes["waves"])
	assert.Equal(t, 1.0, source.volumes["fire"])

	require.NoError(t, controller.Toggle("rain"))
	assert.Equal(t, 0.8, source.volumes["rain"])

	assert.ErrorIs(t, controller.SetVolume("thunder", 0.5), ErrUnknownSound)
}

func TestStopAll(t *testing.T) {
	controller, source := newTestController()
	require.NoError(t, controller.Toggle("forest"))

	controller.StopAll()
	assert.Empty(t, playingIDs(controller.Sounds()))
	assert.Equal(t, 0, source.playingCount())
	for _, track := range DefaultCatalog() {
		assert.GreaterOrEqual(t, source.rewinds[track.ID], 1)
	}
}

func TestSubscribeAndClose(t *testing.T) {
	controller, _ := newTestController()
	updates := controller.Subscribe(8)

	require.NoError(t, controller.Toggle("waves"))
	snapshot := <-updates
	assert.Equal(t, []string{"waves"}, playingIDs(snapshot))

	controller.Close()
	for range updates {
	}
	late := controller.Subscribe(1)
	_, open := <-late
	assert.False(t, open)
}

func TestWithOverridesAndThemes(t *testing.T) {
	catalog := WithOverrides(DefaultCatalog(), map[string]string{"rain": "/tmp/rain.ogg", "thunder": "x"})
	assert.Equal(t, "/tmp/rain.ogg", catalog[0].URL)
	assert.Equal(t, DefaultCatalog()[1].URL, catalog[1].URL)
	assert.Len(t, catalog, len(DefaultCatalog()))

	for _, track := range DefaultCatalog() {
		assert.Equal(t, track.ID, ThemeFor(track.ID).Name)
	}
	assert.Equal(t, DefaultTheme, ThemeFor("thunder"))
}
