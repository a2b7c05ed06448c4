package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"pomodoro/internal/audio"
	"pomodoro/internal/config"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/logging"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"

	"fyne.io/fyne/v2"
	"github.com/charmbracelet/log"
)

const logFileName = "pomodoro.log"

// loadConfig resolves the config directory, reads config.yaml and applies flag overrides.
func (opts *options) loadConfig() (config.Config, error) {
	dir := opts.configDir
	if dir == "" {
		var err error
		dir, err = platform.ConfigDir(appName)
		if err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return cfg, err
	}
	if opts.backend != "" {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(opts.backend))
	}
	if opts.storagePath != "" {
		cfg.Storage.Path = opts.storagePath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.noAudio {
		cfg.Audio.Enabled = false
	}
	return cfg, nil
}

type serviceOptions struct {
	// Preferences enables the preferences backend.
	Preferences fyne.Preferences
	// LogToFile keeps log output off the terminal.
	LogToFile bool
	// Exclusive takes the cross-process lock on the state location.
	Exclusive bool
}

// services bundles what every command needs: config, logger and persisted state.
type services struct {
	cfg       config.Config
	logger    *log.Logger
	logCloser io.Closer
	store     storage.Store
	repo      *storage.Repository
	stateLock *platform.StateLock
}

func openServices(opts *options, serviceOpts serviceOptions) (*services, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logConfig := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if serviceOpts.LogToFile && logConfig.File == "" {
		logConfig.File = filepath.Join(cfg.Dir, logFileName)
	}
	logger, logCloser, err := logging.New(logConfig)
	if err != nil {
		return nil, err
	}

	svc := &services{cfg: cfg, logger: logger, logCloser: logCloser}

	if serviceOpts.Exclusive && cfg.Storage.Backend != storage.BackendMemory {
		stateLock, err := platform.LockState(appName, stateLocation(cfg))
		if err != nil {
			svc.Close()
			return nil, fmt.Errorf("%w: close the running timer first", err)
		}
		svc.stateLock = stateLock
	}

	store, err := storage.Open(storage.Options{
		Backend:     cfg.Storage.Backend,
		Path:        cfg.Storage.Path,
		Dir:         cfg.Dir,
		Preferences: serviceOpts.Preferences,
	})
	if err != nil {
		svc.Close()
		if errors.Is(err, storage.ErrPreferencesUnavailable) {
			return nil, fmt.Errorf("open storage: %w; choose --storage yaml or sqlite", err)
		}
		return nil, fmt.Errorf("open storage: %w", err)
	}
	svc.store = store
	svc.repo = storage.NewRepository(store, logger)

	logger.Debug("services ready", "dir", cfg.Dir, "storage", cfg.Storage.Backend)
	return svc, nil
}

// Close releases the store, the state lock and the log file.
func (svc *services) Close() {
	if svc.store != nil {
		if err := svc.store.Close(); err != nil {
			svc.logger.Warn("close storage", "err", err)
		}
	}
	if err := svc.stateLock.Unlock(); err != nil {
		svc.logger.Warn("release state lock", "err", err)
	}
	if svc.logCloser != nil {
		_ = svc.logCloser.Close()
	}
}

// stateLocation names what the state lock protects: the backend file, or the config dir for preferences.
func stateLocation(cfg config.Config) string {
	if cfg.Storage.Path != "" {
		return cfg.Storage.Backend + ":" + cfg.Storage.Path
	}
	return cfg.Storage.Backend + ":" + cfg.Dir
}

// soundStack is the audio side of a running frontend.
type soundStack struct {
	catalog []audio.TrackInfo
	source  audio.Source
	bell    timer.Bell
	closer  func()
}

// newSoundStack wires the oto device, the track loader and the chime, or silence when audio is off.
func newSoundStack(cfg config.Config, logger *log.Logger) soundStack {
	catalog := audio.WithOverrides(audio.DefaultCatalog(), cfg.SoundURLs())
	if !cfg.Audio.Enabled {
		return soundStack{catalog: catalog, source: audio.MuteSource{}, closer: func() {}}
	}

	device := audio.NewDevice()
	loader := audio.NewLoader(cfg.AudioCacheDir(), device.SampleRate())
	source := audio.NewOtoSource(device, loader, catalog)
	return soundStack{
		catalog: catalog,
		source:  source,
		bell:    audio.NewChime(device),
		closer: func() {
			if err := source.Close(); err != nil {
				logger.Warn("close audio", "err", err)
			}
		},
	}
}

// newEngine restores persisted state into a timer engine.
func newEngine(svc *services, notifier timer.Notifier, bell timer.Bell) *timer.Engine {
	return timer.New(svc.repo.LoadSettings(), svc.repo.LoadCompleted(), timer.Config{
		Logger:    svc.logger,
		Notifier:  notifier,
		Bell:      bell,
		Persister: svc.repo,
	})
}
