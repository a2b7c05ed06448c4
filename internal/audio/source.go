package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ErrNotLoaded indicates Play was called before Load succeeded.
var ErrNotLoaded = errors.New("track not loaded")

// OtoSource plays catalog tracks through a Device, one looping oto player per track.
type OtoSource struct {
	mu          sync.Mutex
	device      *Device
	loader      *Loader
	tracks      map[string]TrackInfo
	players     map[string]*oto.Player
	loadTimeout time.Duration
}

// NewOtoSource creates a source for catalog.
func NewOtoSource(device *Device, loader *Loader, catalog []TrackInfo) *OtoSource {
	tracks := make(map[string]TrackInfo, len(catalog))
	for _, track := range catalog {
		tracks[track.ID] = track
	}
	return &OtoSource{
		device:      device,
		loader:      loader,
		tracks:      tracks,
		players:     make(map[string]*oto.Player),
		loadTimeout: 3 * time.Minute,
	}
}

// Load fetches and decodes id once, then creates its player.
func (source *OtoSource) Load(id string) error {
	source.mu.Lock()
	_, loaded := source.players[id]
	track, known := source.tracks[id]
	source.mu.Unlock()
	if loaded {
		return nil
	}
	if !known {
		return fmt.Errorf("load %q: %w", id, ErrUnknownSound)
	}

	ctx, err := source.device.Context()
	if err != nil {
		return err
	}
	loadCtx, cancel := context.WithTimeout(context.Background(), source.loadTimeout)
	defer cancel()
	pcm, err := source.loader.Load(loadCtx, track)
	if err != nil {
		return err
	}

	source.mu.Lock()
	defer source.mu.Unlock()
	if _, ok := source.players[id]; !ok {
		source.players[id] = ctx.NewPlayer(newLoopReader(pcm))
	}
	return nil
}

// Play starts looped playback of id.
func (source *OtoSource) Play(id string, volume float64) error {
	player, err := source.player(id)
	if err != nil {
		return err
	}
	player.SetVolume(ClampVolume(volume))
	player.Play()
	return player.Err()
}

// Pause stops playback of id, keeping its position.
func (source *OtoSource) Pause(id string) {
	if player, err := source.player(id); err == nil {
		player.Pause()
	}
}

// Rewind seeks id back to the start.
func (source *OtoSource) Rewind(id string) {
	if player, err := source.player(id); err == nil {
		_, _ = player.Seek(0, io.SeekStart)
	}
}

// SetVolume applies volume to id if it is loaded.
func (source *OtoSource) SetVolume(id string, volume float64) {
	if player, err := source.player(id); err == nil {
		player.SetVolume(ClampVolume(volume))
	}
}

// Close releases every player.
func (source *OtoSource) Close() error {
	source.mu.Lock()
	defer source.mu.Unlock()
	var errs []error
	for id, player := range source.players {
		player.Pause()
		if err := player.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", id, err))
		}
		delete(source.players, id)
	}
	return errors.Join(errs...)
}

func (source *OtoSource) player(id string) (*oto.Player, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	player, ok := source.players[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotLoaded)
	}
	return player, nil
}

// MuteSource accepts every call and plays nothing. Used when audio output is disabled.
type MuteSource struct{}

func (MuteSource) Load(string) error          { return nil }
func (MuteSource) Play(string, float64) error { return nil }
func (MuteSource) Pause(string)               {}
func (MuteSource) Rewind(string)              {}
func (MuteSource) SetVolume(string, float64)  {}
