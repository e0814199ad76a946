package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvPort                 = "PORT"
	EnvAppEnv               = "APP_ENV"
	EnvNodeEnv              = "NODE_ENV"
	EnvAdminAPIKey          = "ADMIN_API_KEY"
	EnvMonitoringAPIKey     = "MONITORING_API_KEY"
	EnvConfigFile           = "VENUELY_CONFIG"
	EnvHost                 = "VENUELY_HOST"
	EnvLogLevel             = "VENUELY_LOG_LEVEL"
	EnvLogFormat            = "VENUELY_LOG_FORMAT"
	EnvShutdownDrainTimeout = "VENUELY_SHUTDOWN_DRAIN_TIMEOUT"
	EnvMetricsEnabled       = "VENUELY_METRICS_ENABLED"
	EnvHeartbeatSchedule    = "VENUELY_HEARTBEAT_SCHEDULE"
)

// Load resolves the configuration once: defaults, then the YAML file at
// path (skipped when path is empty), then environment overrides. The
// built-in admin and monitoring keys are then ensured and the result is
// validated.
//
// Environment variables always take precedence over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
		cfg.Path = path
	}

	ApplyDefaults(cfg)

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	ensureBuiltinKeys(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv resolves configuration from defaults and the environment,
// reading the YAML file named by VENUELY_CONFIG when set.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(EnvConfigFile))
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed numeric, boolean and duration values are errors.
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv(EnvPort); val != "" {
		port, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return &FieldError{Field: EnvPort, Message: fmt.Sprintf("invalid port %q", val)}
		}
		cfg.Server.Port = port
	}
	if val := os.Getenv(EnvHost); val != "" {
		cfg.Server.Host = val
	}

	if val := os.Getenv(EnvAppEnv); val != "" {
		cfg.Environment = normalizeEnvironment(val)
	} else if val := os.Getenv(EnvNodeEnv); val != "" {
		cfg.Environment = normalizeEnvironment(val)
	}

	if val := os.Getenv(EnvAdminAPIKey); val != "" {
		setKey(cfg, AdminKeyName, val)
	}
	if val := os.Getenv(EnvMonitoringAPIKey); val != "" {
		setKey(cfg, MonitoringKeyName, val)
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv(EnvLogFormat); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv(EnvShutdownDrainTimeout); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return &FieldError{Field: EnvShutdownDrainTimeout, Message: fmt.Sprintf("invalid duration %q", val)}
		}
		cfg.Server.ShutdownDrainTimeout = d
	}
	if val := os.Getenv(EnvMetricsEnabled); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return &FieldError{Field: EnvMetricsEnabled, Message: fmt.Sprintf("invalid boolean %q", val)}
		}
		cfg.Telemetry.Metrics.Enabled = b
	}
	if val := os.Getenv(EnvHeartbeatSchedule); val != "" {
		cfg.Telemetry.Heartbeat.Schedule = val
	}

	return nil
}

// ensureBuiltinKeys adds the admin and monitoring keys with their
// placeholder values when neither the file nor the environment set them.
func ensureBuiltinKeys(cfg *Config) {
	if _, ok := cfg.KeyNamed(AdminKeyName); !ok {
		setKey(cfg, AdminKeyName, DefaultAdminAPIKey)
	}
	if _, ok := cfg.KeyNamed(MonitoringKeyName); !ok {
		setKey(cfg, MonitoringKeyName, DefaultMonitoringAPIKey)
	}
}

// setKey replaces the key with the given name or appends a new entry.
func setKey(cfg *Config, name, key string) {
	for i := range cfg.Auth.Keys {
		if cfg.Auth.Keys[i].Name == name {
			cfg.Auth.Keys[i].Key = key
			return
		}
	}
	cfg.Auth.Keys = append(cfg.Auth.Keys, APIKeyConfig{Name: name, Key: key})
}

func normalizeEnvironment(env string) string {
	env = strings.ToLower(strings.TrimSpace(env))
	switch env {
	case "prod":
		return EnvironmentProduction
	case "dev":
		return EnvironmentDevelopment
	default:
		return env
	}
}
