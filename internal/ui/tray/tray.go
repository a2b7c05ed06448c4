// Package tray mirrors the timer controls in the system tray.
package tray

import (
	"fmt"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timer"

	"fyne.io/fyne/v2"
	"fyne.io/systray"
)

// Host is the part of desktop.App the tray needs.
type Host interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow     func()
	OnToggle   func()
	OnReset    func()
	OnMode     func(model.Mode)
	OnSettings func()
	OnQuit     func()
}

// Manager handles system tray state.
type Manager struct {
	host       Host
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	modeItems  map[model.Mode]*fyne.MenuItem
	menu       *fyne.Menu
	// setLabel shows the countdown next to the tray icon where the platform supports it.
	setLabel func(title, tooltip string)
}

// New creates a tray manager with the provided callbacks.
func New(host Host, callbacks Callbacks) *Manager {
	manager := &Manager{
		host:      host,
		callbacks: callbacks,
		modeItems: make(map[model.Mode]*fyne.MenuItem, len(model.Modes)),
		setLabel:  systrayLabel,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggle != nil {
			manager.callbacks.OnToggle()
		}
	})

	reset := fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	modeMenu := fyne.NewMenu("")
	for _, mode := range model.Modes {
		item := fyne.NewMenuItem(mode.Label(), func() {
			if manager.callbacks.OnMode != nil {
				manager.callbacks.OnMode(mode)
			}
		})
		manager.modeItems[mode] = item
		modeMenu.Items = append(modeMenu.Items, item)
	}
	modes := fyne.NewMenuItem("Mode", nil)
	modes.ChildMenu = modeMenu

	show := fyne.NewMenuItem("Show timer", func() {
		if manager.callbacks.OnShow != nil {
			manager.callbacks.OnShow()
		}
	})

	settings := fyne.NewMenuItem("Settings", func() {
		if manager.callbacks.OnSettings != nil {
			manager.callbacks.OnSettings()
		}
	})

	quit := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	quit.IsQuit = true

	manager.menu = fyne.NewMenu("Pomodoro",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		reset,
		modes,
		fyne.NewMenuItemSeparator(),
		show,
		settings,
		quit,
	)
	manager.refreshMenu()

	return manager
}

// SetState updates the status line, the start/pause label and the checked mode.
func (manager *Manager) SetState(state timer.State) {
	status := fmt.Sprintf("%s %s", state.Mode.Label(), state.Clock())
	if !state.IsRunning {
		status += " (paused)"
	}
	manager.statusItem.Label = "Status: " + status
	manager.setLabel(state.Clock(), fmt.Sprintf("%s - Pomodoro Timer", status))

	if state.IsRunning {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	for mode, item := range manager.modeItems {
		item.Checked = mode == state.Mode
	}
	manager.refreshMenu()
}

// Menu returns the tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

func (manager *Manager) refreshMenu() {
	if manager.host != nil {
		manager.host.SetSystemTrayMenu(manager.menu)
	}
}

func systrayLabel(title, tooltip string) {
	systray.SetTitle(title)
	systray.SetTooltip(tooltip)
}
