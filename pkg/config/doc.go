// Package config resolves the venuely API server configuration.
//
// Configuration is resolved exactly once at process start and handed to the
// components that need it; nothing else reads environment variables.
//
// # Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (defaults.go)
//  2. The YAML file named by --config or VENUELY_CONFIG, if any
//  3. Environment variables
//  4. Validation (fails fast if invalid)
//
// # Environment Variables
//
//   - PORT: listen port (default 3001)
//   - APP_ENV, then NODE_ENV: deployment environment (default "development")
//   - ADMIN_API_KEY, MONITORING_API_KEY: accepted API keys
//   - VENUELY_HOST, VENUELY_LOG_LEVEL, VENUELY_LOG_FORMAT,
//     VENUELY_SHUTDOWN_DRAIN_TIMEOUT, VENUELY_METRICS_ENABLED,
//     VENUELY_HEARTBEAT_SCHEDULE
//
// # Insecure Defaults
//
// When ADMIN_API_KEY or MONITORING_API_KEY is unset, the key falls back to a
// fixed placeholder (DefaultAdminAPIKey, DefaultMonitoringAPIKey). These
// values are public. They exist so a development checkout starts without
// setup and must never be relied on in production; the server logs a
// warning at startup for every placeholder still in use.
//
// # Example Configuration
//
//	server:
//	  port: 3001
//	  shutdown_drain_timeout: "0s"
//	environment: "production"
//	auth:
//	  header: "X-API-Key"
//	  keys:
//	    - name: "partner-portal"
//	      key: "long-random-value"
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  metrics:
//	    enabled: true
//	    path: "/metrics"
//	  heartbeat:
//	    schedule: "@every 5m"
//
// # Live Reload
//
// Watcher observes the YAML file with fsnotify and hands each successfully
// reloaded Config to a callback. The server only applies the log level from
// it; everything else needs a restart.
package config
