//go:build windows

package main

import (
	"os"
	"os/signal"
)

// notifySignals subscribes ch to the signals that cancel a running command.
// Windows has no SIGTERM, so only Ctrl+C is watched.
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
