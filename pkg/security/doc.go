/*
Package security groups request admission for the venuely API.

# API Key Admission

Privileged routes require a shared key in the X-API-Key header. The gate
runs as a pipeline stage after the request context tagger:

	keys := auth.NewKeySet(cfg.Auth.Keys)
	gate := auth.NewGate(keys, cfg.Auth.Header, collector)
	admission := middleware.NewPipeline(middleware.NewTagger(), gate)

	mux.Handle("GET /admin/status", admission.Then(statusHandler))

The check is plain membership in a small static set. It is not a
cryptographic primitive and carries no roles.
*/
package security
