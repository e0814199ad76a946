// Venuely is the HTTP API server of the venue booking backend.
//
// This binary owns the server process: it binds the listener, guards
// privileged routes with API keys, tags every request with a correlation
// id and decides how the process exits.
//
// Usage:
//
//	# Start the server with defaults and environment configuration
//	venuely run
//
//	# Start with a configuration file
//	venuely run --config /etc/venuely/config.yaml
//
//	# Probe a running server (container health check)
//	venuely healthcheck
//
//	# Show the configured API keys, masked
//	venuely keys list
//
//	# Show version information
//	venuely version
package main

func main() {
	Execute()
}
