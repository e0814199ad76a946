// Healthcheck probes the local API server once and exits 0 when GET
// /health answers 200 within three seconds, 1 otherwise. It is meant to be
// the container HEALTHCHECK command.
package main

import (
	"context"
	"os"

	"venuely/api/pkg/probe"
)

func main() {
	os.Exit(probe.FromEnv().Run(context.Background(), os.Stdout, os.Stderr))
}
