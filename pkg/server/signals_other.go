//go:build !unix

package server

import "os"

func shutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
