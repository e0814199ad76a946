package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
)

// VersionInfo contains build and instance information.
type VersionInfo struct {
	// Version is the semantic version (e.g., "1.0.0")
	Version string `json:"version"`

	// Commit is the git commit hash
	Commit string `json:"commit"`

	// BuildTime is when the binary was built
	BuildTime string `json:"build_time"`

	// GoVersion is the Go version used to build
	GoVersion string `json:"go_version"`

	// InstanceID identifies this process for its lifetime.
	InstanceID string `json:"instance_id,omitempty"`
}

// NewVersionInfo fills GoVersion from the running binary.
func NewVersionInfo(version, commit, buildTime, instanceID string) VersionInfo {
	return VersionInfo{
		Version:    version,
		Commit:     commit,
		BuildTime:  buildTime,
		GoVersion:  runtime.Version(),
		InstanceID: instanceID,
	}
}

// LivenessHandler serves GET /health. It always answers 200 while the
// process can serve HTTP; the external health probe depends on exactly that.
//
// Example response:
//
//	{"status": "ok", "timestamp": "2026-03-01T09:30:00Z"}
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler serves GET /ready.
//
// Returns:
//   - 200 OK: every check passed
//   - 503 Service Unavailable: at least one check failed
//
// Example response (not ready):
//
//	{
//	    "status": "not_ready",
//	    "checks": {"lifecycle": {"status": "unhealthy", "message": "state is shutting_down"}},
//	    "timestamp": "2026-03-01T09:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if status.Status != StatusReady {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, code, status)
	}
}

// VersionHandler serves GET /version.
func VersionHandler(info VersionInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, info)
	}
}

func writeStatus(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode health response", "error", err)
	}
}
