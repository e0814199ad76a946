package config

import "time"

// Environment names.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// Names of the built-in API keys.
const (
	AdminKeyName      = "admin"
	MonitoringKeyName = "monitoring"
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultHost                 = ""
	DefaultPort                 = 3001
	DefaultReadTimeout          = 30 * time.Second
	DefaultWriteTimeout         = 30 * time.Second
	DefaultIdleTimeout          = 120 * time.Second
	DefaultMaxHeaderBytes       = 1048576 // 1MB
	DefaultShutdownDrainTimeout = time.Duration(0)

	DefaultEnvironment = EnvironmentDevelopment

	// Auth defaults
	DefaultAPIKeyHeader = "X-API-Key"

	// DefaultAdminAPIKey and DefaultMonitoringAPIKey are used when
	// ADMIN_API_KEY / MONITORING_API_KEY are unset. They are public and
	// insecure; deployments must override them.
	DefaultAdminAPIKey      = "dev-admin-key-change-me"      // #nosec G101 -- documented placeholder
	DefaultMonitoringAPIKey = "dev-monitoring-key-change-me" // #nosec G101 -- documented placeholder

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "venuely"
)

// Default returns a configuration populated with default values only.
// Auth keys are left empty; Load fills them from the environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                 DefaultHost,
			Port:                 DefaultPort,
			ReadTimeout:          DefaultReadTimeout,
			WriteTimeout:         DefaultWriteTimeout,
			IdleTimeout:          DefaultIdleTimeout,
			MaxHeaderBytes:       DefaultMaxHeaderBytes,
			ShutdownDrainTimeout: DefaultShutdownDrainTimeout,
		},
		Environment: DefaultEnvironment,
		Auth: AuthConfig{
			Header: DefaultAPIKeyHeader,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLoggingLevel,
				Format: DefaultLoggingFormat,
			},
			Metrics: MetricsConfig{
				Enabled:   DefaultMetricsEnabled,
				Path:      DefaultMetricsPath,
				Namespace: DefaultMetricsNamespace,
			},
		},
	}
}

// ApplyDefaults fills zero-valued fields that a YAML file may have cleared.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.Auth.Header == "" {
		cfg.Auth.Header = DefaultAPIKeyHeader
	}
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// IsPlaceholderKey reports whether key is one of the built-in placeholders.
func IsPlaceholderKey(key string) bool {
	return key == DefaultAdminAPIKey || key == DefaultMonitoringAPIKey
}
