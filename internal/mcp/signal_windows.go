//go:build windows

package mcp

import (
	"os"
	"os/signal"
)

// notifySignals subscribes ch to the signals that stop the stdio server.
// Windows has no SIGTERM, so only Ctrl+C is watched.
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
