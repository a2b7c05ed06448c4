package main

import (
	"github.com/spf13/cobra"
)

// options holds flags shared by every command. Empty values keep the configured ones.
type options struct {
	configDir   string
	backend     string
	storagePath string
	logLevel    string
	noAudio     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Pomodoro timer with ambient sounds",
		Long: `Pomodoro timer with ambient sounds.

Without a subcommand the desktop window starts. Settings and the completed
pomodoro count are shared by every frontend.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts)
		},
	}
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", "", "configuration directory (default is <user config dir>/pomodoro)")
	flags.StringVar(&opts.backend, "storage", "", "storage backend: yaml, sqlite, memory or preferences")
	flags.StringVar(&opts.storagePath, "storage-path", "", "state file for the yaml and sqlite backends")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.noAudio, "no-audio", false, "disable the bell and ambient sounds")

	rootCmd.AddCommand(
		newTUICmd(opts),
		newStatsCmd(opts),
		newResetCountCmd(opts),
	)
	return rootCmd
}
