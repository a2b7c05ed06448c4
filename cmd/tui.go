package main

import (
	"fmt"

	"pomodoro/internal/audio"
	"pomodoro/internal/notify"
	"pomodoro/internal/ui/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// notificationBuffer bounds undelivered in-terminal notifications.
const notificationBuffer = 4

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the timer in the terminal",
		Long: `Run the timer in the terminal.

KEYS:
    space    start or pause
    r        reset the current mode
    1 2 3    focus, short break, long break
    s / S    select next / previous ambient sound
    enter    play or stop the selected sound
    + / -    change the selected sound's volume
    q        quit

Logs go to pomodoro.log in the configuration directory unless log.file is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
}

func runTUI(opts *options) error {
	svc, err := openServices(opts, serviceOptions{LogToFile: true, Exclusive: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	sounds := newSoundStack(svc.cfg, svc.logger)
	defer sounds.closer()

	inbox := notify.NewInbox(notificationBuffer, svc.cfg.Notifications.Enabled)
	engine := newEngine(svc, inbox, sounds.bell)
	defer engine.Close()

	controller := audio.NewController(sounds.catalog, sounds.source, svc.logger)
	defer controller.Close()

	program := tea.NewProgram(tui.New(engine, controller, inbox, svc.logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
