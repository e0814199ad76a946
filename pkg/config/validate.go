package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.port").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []*FieldError
}

// Error returns a formatted string containing all validation errors.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the configuration and returns a *ValidationError listing
// every problem found, or nil.
func Validate(cfg *Config) error {
	var errs []*FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if cfg.Environment == "" {
		errs = append(errs, &FieldError{Field: "environment", Message: "environment is required"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []*FieldError {
	var errs []*FieldError

	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, &FieldError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 0 and 65535, got %d", cfg.Port),
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, &FieldError{Field: "server.read_timeout", Message: "read timeout must not be negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, &FieldError{Field: "server.write_timeout", Message: "write timeout must not be negative"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, &FieldError{Field: "server.idle_timeout", Message: "idle timeout must not be negative"})
	}
	if cfg.ShutdownDrainTimeout < 0 {
		errs = append(errs, &FieldError{Field: "server.shutdown_drain_timeout", Message: "drain timeout must not be negative"})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, &FieldError{Field: "server.max_header_bytes", Message: "max header bytes must not be negative"})
	}

	return errs
}

func validateAuth(cfg *AuthConfig) []*FieldError {
	var errs []*FieldError

	if strings.TrimSpace(cfg.Header) == "" {
		errs = append(errs, &FieldError{Field: "auth.header", Message: "header name is required"})
	}

	seen := make(map[string]bool, len(cfg.Keys))
	for i, k := range cfg.Keys {
		field := fmt.Sprintf("auth.keys[%d]", i)
		if k.Name == "" {
			errs = append(errs, &FieldError{Field: field + ".name", Message: "key name is required"})
		} else if seen[k.Name] {
			errs = append(errs, &FieldError{Field: field + ".name", Message: fmt.Sprintf("duplicate key name %q", k.Name)})
		}
		seen[k.Name] = true

		if k.Key == "" {
			errs = append(errs, &FieldError{Field: field + ".key", Message: "key value is required"})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []*FieldError {
	var errs []*FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown log level %q", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, &FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown log format %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if err := validateMetricsPath(cfg.Metrics.Path); err != nil {
			errs = append(errs, err)
		}
	}

	if cfg.Heartbeat.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Heartbeat.Schedule); err != nil {
			errs = append(errs, &FieldError{
				Field:   "telemetry.heartbeat.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Heartbeat.Schedule, err),
			})
		}
	}

	return errs
}

// ReservedPaths are served by the server itself and cannot host metrics.
var ReservedPaths = []string{"/", "/health", "/ready", "/version", "/admin/status"}

// validateMetricsPath rejects paths the router cannot register next to the
// built-in routes.
func validateMetricsPath(path string) *FieldError {
	field := "telemetry.metrics.path"
	if !strings.HasPrefix(path, "/") {
		return &FieldError{Field: field, Message: "metrics path must start with /"}
	}
	if strings.ContainsAny(path, "{} \t\r\n") {
		return &FieldError{Field: field, Message: fmt.Sprintf("metrics path %q must not contain wildcards or whitespace", path)}
	}
	for _, reserved := range ReservedPaths {
		if path == reserved {
			return &FieldError{Field: field, Message: fmt.Sprintf("metrics path %q is a built-in route", path)}
		}
	}
	return nil
}
