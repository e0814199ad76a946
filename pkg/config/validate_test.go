package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	ensureBuiltinKeys(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:   "ephemeral port is valid",
			mutate: func(c *Config) { c.Server.Port = 0 },
		},
		{
			name:      "port out of range",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantField: "server.port",
		},
		{
			name:      "negative drain timeout",
			mutate:    func(c *Config) { c.Server.ShutdownDrainTimeout = -1 },
			wantField: "server.shutdown_drain_timeout",
		},
		{
			name:      "empty header",
			mutate:    func(c *Config) { c.Auth.Header = " " },
			wantField: "auth.header",
		},
		{
			name: "duplicate key name",
			mutate: func(c *Config) {
				c.Auth.Keys = append(c.Auth.Keys, APIKeyConfig{Name: AdminKeyName, Key: "other"})
			},
			wantField: "auth.keys[2].name",
		},
		{
			name: "empty key value",
			mutate: func(c *Config) {
				c.Auth.Keys = append(c.Auth.Keys, APIKeyConfig{Name: "partner"})
			},
			wantField: "auth.keys[2].key",
		},
		{
			name:   "heartbeat descriptor",
			mutate: func(c *Config) { c.Telemetry.Heartbeat.Schedule = "@every 30s" },
		},
		{
			name:   "heartbeat cron expression",
			mutate: func(c *Config) { c.Telemetry.Heartbeat.Schedule = "*/5 * * * *" },
		},
		{
			name:      "invalid heartbeat schedule",
			mutate:    func(c *Config) { c.Telemetry.Heartbeat.Schedule = "every minute" },
			wantField: "telemetry.heartbeat.schedule",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "unknown log format",
			mutate:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
		{
			name:      "relative metrics path",
			mutate:    func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			wantField: "telemetry.metrics.path",
		},
		{
			name:      "metrics path on the health route",
			mutate:    func(c *Config) { c.Telemetry.Metrics.Path = "/health" },
			wantField: "telemetry.metrics.path",
		},
		{
			name:      "metrics path on the status route",
			mutate:    func(c *Config) { c.Telemetry.Metrics.Path = "/admin/status" },
			wantField: "telemetry.metrics.path",
		},
		{
			name:      "metrics path on the root",
			mutate:    func(c *Config) { c.Telemetry.Metrics.Path = "/" },
			wantField: "telemetry.metrics.path",
		},
		{
			name:      "metrics path with wildcard",
			mutate:    func(c *Config) { c.Telemetry.Metrics.Path = "/metrics/{id}" },
			wantField: "telemetry.metrics.path",
		},
		{
			name:   "metrics path under admin",
			mutate: func(c *Config) { c.Telemetry.Metrics.Path = "/admin/metrics" },
		},
		{
			name: "relative metrics path ignored when disabled",
			mutate: func(c *Config) {
				c.Telemetry.Metrics.Enabled = false
				c.Telemetry.Metrics.Path = "metrics"
			},
		},
		{
			name:      "empty environment",
			mutate:    func(c *Config) { c.Environment = "" },
			wantField: "environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}

			found := false
			for _, fe := range vErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want one for %s", vErr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	single := &ValidationError{Errors: []*FieldError{{Field: "server.port", Message: "bad"}}}
	if single.Error() != "server.port: bad" {
		t.Errorf("single Error() = %q", single.Error())
	}

	multi := &ValidationError{Errors: []*FieldError{
		{Field: "a", Message: "x"},
		{Field: "b", Message: "y"},
	}}
	msg := multi.Error()
	if !strings.HasPrefix(msg, "2 errors:") || !strings.Contains(msg, "  - b: y") {
		t.Errorf("multi Error() = %q", msg)
	}
}
