// Package metrics provides Prometheus metrics for the venuely API edge.
//
// # Metrics
//
//   - venuely_http_requests_total{method,route,status}
//   - venuely_http_request_duration_seconds{method,route}
//   - venuely_admission_rejections_total{code}
//   - venuely_admission_accepted_total{key}
//   - venuely_lifecycle_state{state}
//
// The route label is the matched ServeMux pattern, never the raw path, and
// the key label is the configured key name ("admin", "monitoring"), never the
// key. Label cardinality is therefore bounded by configuration.
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.SetLifecycleState("listening")
//	collector.RecordAdmissionRejected("MISSING_API_KEY")
//
//	mux.Handle("GET /metrics", gate.Wrap(collector.Handler()))
package metrics
