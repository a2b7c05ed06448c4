package main

import (
	"os"
)

const (
	appName = "pomodoro"
	appID   = "com.pomodoro.app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
