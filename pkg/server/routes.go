package server

import (
	"net/http"

	"venuely/api/pkg/middleware"
	"venuely/api/pkg/response"
	"venuely/api/pkg/security/auth"
	"venuely/api/pkg/telemetry/health"
)

// routes builds the root handler:
//
//	Recovery -> Tagger -> AccessLog -> ServeMux
//
// Privileged routes additionally run the Tagger -> Gate pipeline before
// their handler. The Tagger only acts once per request, so the second
// occurrence keeps the id assigned at the edge.
func (l *Lifecycle) routes(opts Options) http.Handler {
	tagger := middleware.NewTagger()
	keys := auth.NewKeySet(l.cfg.Auth.Keys)
	gate := auth.NewGate(keys, l.cfg.Auth.Header, l.metrics)
	admission := middleware.NewPipeline(tagger, gate)

	gated := func(h http.Handler) http.Handler {
		return admission.Then(h)
	}

	checker := health.New(0)
	checker.RegisterCheck("lifecycle", l.Ready)
	version := health.NewVersionInfo(opts.Version, opts.Commit, opts.BuildTime, l.instanceID)

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", checker.LivenessHandler())
	mux.HandleFunc("GET /ready", checker.ReadinessHandler())
	mux.HandleFunc("GET /version", health.VersionHandler(version))

	// Privileged
	mux.Handle("GET /admin/status", gated(http.HandlerFunc(l.handleStatus)))
	if l.metrics.Enabled() {
		mux.Handle("GET "+l.cfg.Telemetry.Metrics.Path, gated(l.metrics.Handler()))
	}

	if opts.Routes != nil {
		opts.Routes(mux, gated)
	}

	mux.HandleFunc("/", notFound)

	var handler http.Handler = mux
	handler = middleware.AccessLog(l.metrics)(handler)
	handler = tagger.Handler(handler)
	handler = middleware.Recovery(handler)

	return handler
}

func notFound(w http.ResponseWriter, r *http.Request) {
	response.WriteError(w, http.StatusNotFound, response.CodeNotFound,
		"No route for "+r.Method+" "+r.URL.Path,
		middleware.GetRequestID(r.Context()),
	)
}
