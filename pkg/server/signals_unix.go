//go:build unix

package server

import (
	"os"
	"syscall"
)

// shutdownSignals are handled identically: both start a clean shutdown.
func shutdownSignals() []os.Signal {
	return []os.Signal{
		os.Interrupt,    // SIGINT
		syscall.SIGTERM, // orchestrator stop
	}
}
