package main

import (
	"pomodoro/internal/audio"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timer"
	"pomodoro/internal/notify"
	"pomodoro/internal/ui/mainwindow"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/tray"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

func runGUI(opts *options) error {
	fyneApp := app.NewWithID(appID)

	svc, err := openServices(opts, serviceOptions{Preferences: fyneApp.Preferences(), Exclusive: true})
	if err != nil {
		return err
	}
	defer svc.Close()
	logger := svc.logger

	sounds := newSoundStack(svc.cfg, logger)
	defer sounds.closer()

	engine := newEngine(svc, notify.NewDesktop(fyneApp, svc.cfg.Notifications.Enabled), sounds.bell)
	defer engine.Close()

	controller := audio.NewController(sounds.catalog, sounds.source, logger)
	defer controller.Close()

	prefsWindow := preferences.New(fyneApp, engine.Snapshot().Settings, func(settings model.Settings) {
		if err := engine.UpdateSettings(settings); err != nil {
			logger.Warn("update settings", "err", err)
		}
	})

	desktopApp, hasTray := fyneApp.(desktop.App)

	var trayManager *tray.Manager
	mainWindow := mainwindow.New(fyneApp, engine, controller, mainwindow.Config{
		Logger:      logger,
		HideOnClose: hasTray,
		OnSettings:  prefsWindow.Show,
		OnStateChange: func(state timer.State) {
			if trayManager != nil {
				trayManager.SetState(state)
			}
		},
	})

	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow:   mainWindow.Show,
			OnToggle: engine.ToggleRunning,
			OnReset:  engine.Reset,
			OnMode: func(mode model.Mode) {
				if err := engine.SetMode(mode); err != nil {
					logger.Warn("set mode", "mode", mode, "err", err)
				}
			},
			OnSettings: prefsWindow.Show,
			OnQuit:     fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(theme.HistoryIcon())
		trayManager.SetState(engine.Snapshot())
	} else {
		logger.Info("system tray unsupported on this platform")
		mainWindow.Window().SetMaster()
	}

	mainWindow.Bind()
	mainWindow.Show()
	logger.Info("timer window ready", "storage", svc.cfg.Storage.Backend, "audio", svc.cfg.Audio.Enabled)
	fyneApp.Run()
	return nil
}
