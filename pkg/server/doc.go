// Package server owns the HTTP listener and the process lifecycle.
//
// # States
//
//	Starting -> Listening -> ShuttingDown -> Stopped
//	Starting -> Stopped      bind failure
//	Listening -> Crashed     uncaught fault
//
// # Exit Paths
//
// Each path logs its own message and yields one exit code from Run:
//
//	SIGINT or SIGTERM         "received shutdown signal"          0
//	bind: EACCES / EPERM      "port requires elevated privileges" 1
//	bind: EADDRINUSE          "port is already in use"            1
//	bind: anything else       "failed to bind listener"           1 (Err returns it)
//	panic in a Go task        "uncaught panic" with stack         1
//	async error, production   "unhandled async error, continuing" keeps running
//	async error, otherwise    "unhandled async error, exiting"    1
//
// A panic inside an HTTP handler is not a process fault: the recovery
// middleware turns it into a 500 response for that request.
//
// # Shutdown
//
// By default shutdown does not drain: the listener and open connections
// are closed as soon as the signal arrives. Setting
// server.shutdown_drain_timeout gives in-flight requests that long to
// finish.
//
// # Heartbeat
//
// With telemetry.heartbeat.schedule set, a cron job logs the state, uptime
// and instance id while the server is listening.
//
// # Usage
//
//	lc := server.New(cfg, server.Options{
//	    Version: version,
//	    Logger:  logger.Logger,
//	    Metrics: collector,
//	})
//	os.Exit(lc.Run(context.Background()))
//
// # Routes
//
//	GET /health         public
//	GET /ready          public, 503 unless Listening
//	GET /version        public
//	GET /admin/status   API key
//	GET /metrics        API key (telemetry.metrics.path)
package server
