// Package auth implements shared-secret admission for privileged routes.
//
// A request is admitted when its X-API-Key header holds one of the
// configured keys (ADMIN_API_KEY, MONITORING_API_KEY and any keys listed in
// the config file). Outcomes:
//
//	header absent or empty   401 MISSING_API_KEY
//	key not accepted         401 INVALID_API_KEY
//	key accepted             continue, RequestContext.APIKey = key
//
// Usage:
//
//	keys := auth.NewKeySet(cfg.Auth.Keys)
//	gate := auth.NewGate(keys, cfg.Auth.Header, collector)
//	mux.Handle("GET /admin/status", middleware.NewPipeline(tagger, gate).Then(status))
//
// There are no roles: every accepted key opens every privileged route.
// Comparison is a map lookup and is not hardened against timing analysis.
// When the environment does not supply keys, the placeholders in package
// config are accepted; they are public and must be overridden outside
// development.
package auth
