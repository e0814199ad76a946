package main

import (
	"testing"

	"venuely/api/pkg/config"
)

// clearConfigEnv isolates a test from configuration in the environment.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvPort,
		config.EnvAppEnv,
		config.EnvNodeEnv,
		config.EnvAdminAPIKey,
		config.EnvMonitoringAPIKey,
		config.EnvConfigFile,
		config.EnvHost,
		config.EnvLogLevel,
		config.EnvLogFormat,
		config.EnvShutdownDrainTimeout,
		config.EnvMetricsEnabled,
		config.EnvHeartbeatSchedule,
	} {
		t.Setenv(name, "")
	}
	cfgFile = ""
}
