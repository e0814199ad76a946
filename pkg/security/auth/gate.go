package auth

import (
	"context"
	"log/slog"
	"net/http"

	"venuely/api/pkg/config"
	"venuely/api/pkg/middleware"
	"venuely/api/pkg/response"
)

// Gate admits requests to privileged routes only when they carry an
// accepted API key. It is a middleware.Stage and must run after the
// request context tagger.
//
// Rejected requests get a 401 envelope with MISSING_API_KEY or
// INVALID_API_KEY. Admitted requests continue with the supplied key
// recorded in the RequestContext.
type Gate struct {
	keys     KeyStore
	header   string
	recorder AdmissionRecorder
}

// NewGate creates a gate reading keys from header (config.DefaultAPIKeyHeader
// when empty). recorder may be nil.
func NewGate(keys KeyStore, header string, recorder AdmissionRecorder) *Gate {
	if header == "" {
		header = config.DefaultAPIKeyHeader
	}
	return &Gate{
		keys:     keys,
		header:   header,
		recorder: recorder,
	}
}

// Name implements middleware.Stage.
func (g *Gate) Name() string { return "api-key" }

// Process implements middleware.Stage.
func (g *Gate) Process(w http.ResponseWriter, r *http.Request) (*http.Request, middleware.Decision) {
	ctx := r.Context()
	apiKey := r.Header.Get(g.header)

	info, err := g.keys.Validate(apiKey)
	if err != nil {
		code, message := rejection(err)

		// The key itself is never logged.
		slog.WarnContext(ctx, "API key rejected",
			"code", code,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		if g.recorder != nil {
			g.recorder.RecordAdmissionRejected(code)
		}

		response.WriteError(w, http.StatusUnauthorized, code, message, middleware.GetRequestID(ctx))
		return r, middleware.Stop
	}

	slog.DebugContext(ctx, "API key accepted",
		"key_name", info.Name,
		"path", r.URL.Path,
	)
	if g.recorder != nil {
		g.recorder.RecordAdmissionAccepted(info.Name)
	}

	ctx = middleware.WithAPIKey(ctx, apiKey)
	ctx = context.WithValue(ctx, keyInfoKey, info)
	return r.WithContext(ctx), middleware.Continue
}

// Context key for the admitted key's info
type contextKey string

// #nosec G101 - This is a context key constant, not a credential
const keyInfoKey contextKey = "api_key_info"

// GetKeyInfo retrieves the admitted key's info from the request context.
func GetKeyInfo(ctx context.Context) (*KeyInfo, bool) {
	info, ok := ctx.Value(keyInfoKey).(*KeyInfo)
	return info, ok
}
