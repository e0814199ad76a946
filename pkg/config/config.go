package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration structure for the venuely API server.
// It is resolved once at process start and passed explicitly to the
// components that need it.
type Config struct {
	// Server contains HTTP listener configuration.
	Server ServerConfig `yaml:"server"`

	// Environment is the deployment environment ("development", "production", ...).
	// Read from APP_ENV, falling back to NODE_ENV.
	// Default: "development"
	Environment string `yaml:"environment"`

	// Auth contains the shared-secret admission configuration.
	Auth AuthConfig `yaml:"auth"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Path is the file the configuration was loaded from. Empty when the
	// configuration came from defaults and environment only.
	Path string `yaml:"-"`
}

// ServerConfig contains configuration for the HTTP listener.
type ServerConfig struct {
	// Host is the interface to bind. Empty binds all interfaces.
	// Default: ""
	Host string `yaml:"host"`

	// Port is the TCP port to listen on. 0 asks the kernel for a free port.
	// Default: 3001
	Port int `yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownDrainTimeout is how long in-flight requests may run after a
	// termination signal. Zero closes the listener and all connections
	// immediately without draining.
	// Default: 0
	ShutdownDrainTimeout time.Duration `yaml:"shutdown_drain_timeout"`
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AuthConfig contains API key admission configuration.
type AuthConfig struct {
	// Header is the request header carrying the API key.
	// Default: "X-API-Key"
	Header string `yaml:"header"`

	// Keys is the set of accepted keys. The "admin" and "monitoring" entries
	// are always present after loading; they come from ADMIN_API_KEY and
	// MONITORING_API_KEY or fall back to insecure placeholders.
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig is a single accepted key with a label used in logs and metrics.
type APIKeyConfig struct {
	// Name labels the key (e.g. "admin"). Never secret.
	Name string `yaml:"name"`

	// Key is the secret value compared against the request header.
	Key string `yaml:"key"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is where the metrics endpoint is mounted. It is a privileged route.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "venuely"
	Namespace string `yaml:"namespace"`
}

// HeartbeatConfig schedules a periodic status log line.
type HeartbeatConfig struct {
	// Schedule is a standard cron expression or descriptor ("@every 1m").
	// Empty disables the heartbeat.
	// Default: ""
	Schedule string `yaml:"schedule"`
}

// IsProduction reports whether the process runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// KeyNamed returns the configured key with the given name.
func (c *Config) KeyNamed(name string) (APIKeyConfig, bool) {
	for _, k := range c.Auth.Keys {
		if k.Name == name {
			return k, true
		}
	}
	return APIKeyConfig{}, false
}

// PlaceholderKeys returns the names of keys still set to their built-in
// placeholder value.
func (c *Config) PlaceholderKeys() []string {
	var names []string
	for _, k := range c.Auth.Keys {
		if IsPlaceholderKey(k.Key) {
			names = append(names, k.Name)
		}
	}
	return names
}
