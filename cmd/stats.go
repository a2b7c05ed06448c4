package main

import (
	"encoding/json"
	"fmt"
	"io"

	"pomodoro/internal/core/model"
	"pomodoro/internal/storage"

	"github.com/spf13/cobra"
)

type statsReport struct {
	CompletedPomodoros int            `json:"completedPomodoros"`
	Settings           model.Settings `json:"settings"`
}

func newStatsCmd(opts *options) *cobra.Command {
	var asJSON bool

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the completed pomodoro count and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices(opts, serviceOptions{})
			if err != nil {
				return err
			}
			defer svc.Close()
			return writeStats(cmd.OutOrStdout(), svc.repo, asJSON)
		},
	}
	statsCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return statsCmd
}

func newResetCountCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-count",
		Short: "Reset the completed pomodoro count to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openServices(opts, serviceOptions{Exclusive: true})
			if err != nil {
				return err
			}
			defer svc.Close()
			return resetCount(cmd.OutOrStdout(), svc.repo)
		},
	}
}

func writeStats(out io.Writer, repo *storage.Repository, asJSON bool) error {
	report := statsReport{
		CompletedPomodoros: repo.LoadCompleted(),
		Settings:           repo.LoadSettings(),
	}
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	settings := report.Settings
	_, err := fmt.Fprintf(out,
		"Completed pomodoros: %d\nFocus: %s  Short break: %s  Long break: %s\nAuto sequence: %s  Bell: %s\n",
		report.CompletedPomodoros,
		settings.Duration(model.ModeWork),
		settings.Duration(model.ModeShortBreak),
		settings.Duration(model.ModeLongBreak),
		onOff(settings.AutoSequence),
		onOff(settings.BellSound),
	)
	return err
}

func resetCount(out io.Writer, repo *storage.Repository) error {
	previous := repo.LoadCompleted()
	if err := repo.SaveCompleted(0); err != nil {
		return fmt.Errorf("reset count: %w", err)
	}
	_, err := fmt.Fprintf(out, "Completed pomodoros reset (was %d)\n", previous)
	return err
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}
