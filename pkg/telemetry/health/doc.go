// Package health provides the public probe endpoints.
//
//	GET /health   liveness, always 200 while the process serves HTTP
//	GET /ready    readiness, 503 unless every registered check passes
//	GET /version  build information and the process instance id
//
// /health is what the container health probe (package probe) calls, so it
// must stay cheap and must never depend on downstream systems.
//
// Usage:
//
//	checker := health.New(0)
//	checker.RegisterCheck("lifecycle", func(ctx context.Context) error {
//	    if lc.State() != server.StateListening {
//	        return fmt.Errorf("state is %s", lc.State())
//	    }
//	    return nil
//	})
//	mux.HandleFunc("GET /health", checker.LivenessHandler())
//	mux.HandleFunc("GET /ready", checker.ReadinessHandler())
package health
