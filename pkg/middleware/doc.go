// Package middleware provides the request context tagger, the stage pipeline
// used for admission, and the recovery and access logging wrappers.
//
// # Request Context
//
// Every request gets a RequestContext before any other code looks at it:
//
//	RequestID  req_<epochMillis>_<9 base36 chars>, echoed in X-Request-ID
//	StartTime  time the request entered the server
//	APIKey     set by the admission gate on success, empty otherwise
//
// # Pipeline
//
// Admission is an explicit, ordered list of stages rather than whatever
// order handlers happened to be registered in:
//
//	gated := middleware.NewPipeline(tagger, gate).Then(handler)
//
// The tagger runs once per request; placing it at the edge of the server as
// well as at the head of a pipeline is harmless.
//
// # Server chain
//
//	Recovery -> Tagger -> AccessLog -> ServeMux -> [Tagger -> Gate] -> handler
//
// Recovery sits outermost so that a panic anywhere below it becomes a 500
// envelope for that request only.
package middleware
