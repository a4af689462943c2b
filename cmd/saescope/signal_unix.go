//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// notifySignals subscribes ch to the signals that cancel a running command.
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
}
