package server

import (
	"net/http"
	"time"

	"venuely/api/pkg/middleware"
	"venuely/api/pkg/response"
	"venuely/api/pkg/security/auth"
)

// StatusInfo is the payload of GET /admin/status.
type StatusInfo struct {
	State         string `json:"state"`
	Environment   string `json:"environment"`
	Version       string `json:"version"`
	InstanceID    string `json:"instanceId"`
	StartedAt     string `json:"startedAt,omitempty"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Caller        string `json:"caller,omitempty"`
}

// Status returns a snapshot of the lifecycle.
func (l *Lifecycle) Status() StatusInfo {
	l.mu.Lock()
	state := l.state
	startedAt := l.startedAt
	l.mu.Unlock()

	info := StatusInfo{
		State:       state.String(),
		Environment: l.cfg.Environment,
		Version:     l.version,
		InstanceID:  l.instanceID,
	}
	if !startedAt.IsZero() {
		info.StartedAt = startedAt.UTC().Format(response.TimestampFormat)
		info.UptimeSeconds = int64(time.Since(startedAt).Seconds())
	}
	return info
}

// handleStatus serves GET /admin/status. The caller field names the key
// used, never the key.
func (l *Lifecycle) handleStatus(w http.ResponseWriter, r *http.Request) {
	info := l.Status()
	if key, ok := auth.GetKeyInfo(r.Context()); ok {
		info.Caller = key.Name
	}
	response.WriteSuccess(w, info, middleware.GetRequestID(r.Context()))
}
