package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"time"

	"venuely/api/pkg/config"
	"venuely/api/pkg/telemetry/metrics"

	"github.com/google/uuid"
)

// ErrNotStarting is returned by Start when the lifecycle has already left
// the Starting state, including a Stop that arrived while binding.
var ErrNotStarting = errors.New("lifecycle is not starting")

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// ListenFunc binds a listener. net.Listen is used when none is given.
type ListenFunc func(network, address string) (net.Listener, error)

// Options configures a Lifecycle. Every field is optional.
type Options struct {
	// Version, Commit and BuildTime are reported at startup and on /version.
	Version   string
	Commit    string
	BuildTime string

	// InstanceID identifies this process. A random UUID when empty.
	InstanceID string

	// Logger receives lifecycle logs. slog.Default() when nil.
	Logger *slog.Logger

	// Metrics records request, admission and lifecycle metrics.
	Metrics *metrics.Collector

	// Signals replaces OS signal delivery. Any value received starts a
	// clean shutdown. When nil, SIGINT and SIGTERM are subscribed in Run.
	Signals <-chan os.Signal

	// Listen replaces net.Listen.
	Listen ListenFunc

	// Routes registers additional routes. gated wraps a handler so that it
	// is only reachable with an accepted API key.
	Routes func(mux *http.ServeMux, gated func(http.Handler) http.Handler)
}

// Lifecycle owns the listening socket and the process exit decision.
//
// It is constructed once at process entry. Start binds and serves, Stop
// shuts down, and Run does both around signal handling and returns the
// process exit code. The first terminal event decides the exit code;
// later ones are logged only.
type Lifecycle struct {
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *metrics.Collector
	version    string
	instanceID string
	signals    <-chan os.Signal
	listen     ListenFunc
	handler    http.Handler

	// tasksCtx is handed to goroutines started with Go and is cancelled
	// when the lifecycle leaves Listening.
	tasksCtx    context.Context
	cancelTasks context.CancelFunc

	mu         sync.Mutex
	state      State
	startedAt  time.Time
	listener   net.Listener
	httpServer *http.Server
	exitCode   int
	fatalErr   error

	exitOnce sync.Once
	done     chan struct{}
}

// New creates a lifecycle in the Starting state. cfg must already be
// validated.
func New(cfg *config.Config, opts Options) *Lifecycle {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	instanceID := opts.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}
	listen := opts.Listen
	if listen == nil {
		listen = net.Listen
	}

	tasksCtx, cancel := context.WithCancel(context.Background())

	l := &Lifecycle{
		cfg:         cfg,
		logger:      logger.With("component", "lifecycle"),
		metrics:     opts.Metrics,
		version:     opts.Version,
		instanceID:  instanceID,
		signals:     opts.Signals,
		listen:      listen,
		tasksCtx:    tasksCtx,
		cancelTasks: cancel,
		state:       StateStarting,
		done:        make(chan struct{}),
	}
	l.metrics.SetLifecycleState(StateStarting.String())
	l.handler = l.routes(opts)

	return l
}

// Start binds the configured address and begins serving. It returns a
// *BindError when the listener cannot be bound, leaving the lifecycle
// Stopped.
func (l *Lifecycle) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateStarting {
		state := l.state
		l.mu.Unlock()
		return fmt.Errorf("%w: state is %s", ErrNotStarting, state)
	}
	l.mu.Unlock()

	addr := l.cfg.Server.Address()
	ln, err := l.listen("tcp", addr)
	if err != nil {
		bindErr := classifyBindError(addr, l.cfg.Server.Port, err)
		l.finish(ExitFailure, StateStopped, bindErr)
		return bindErr
	}

	srv := &http.Server{
		Handler:        l.handler,
		ReadTimeout:    l.cfg.Server.ReadTimeout,
		WriteTimeout:   l.cfg.Server.WriteTimeout,
		IdleTimeout:    l.cfg.Server.IdleTimeout,
		MaxHeaderBytes: l.cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(l.logger.Handler(), slog.LevelWarn),
	}

	port := l.cfg.Server.Port
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	l.mu.Lock()
	if l.state != StateStarting {
		state := l.state
		l.mu.Unlock()
		_ = ln.Close()
		return fmt.Errorf("%w: state is %s after bind", ErrNotStarting, state)
	}
	l.listener = ln
	l.httpServer = srv
	l.startedAt = time.Now()
	l.state = StateListening
	l.metrics.SetLifecycleState(StateListening.String())
	l.mu.Unlock()

	go func() {
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Error("server stopped serving", "error", err)
			l.crash(fmt.Errorf("serve: %w", err))
		}
	}()

	l.logger.InfoContext(ctx, "server listening",
		"port", port,
		"address", ln.Addr().String(),
		"environment", l.cfg.Environment,
		"version", l.version,
		"instance_id", l.instanceID,
	)

	if schedule := l.cfg.Telemetry.Heartbeat.Schedule; schedule != "" {
		l.Go("heartbeat", func(ctx context.Context) error {
			return l.runHeartbeat(ctx, schedule, l.beat)
		})
	}

	return nil
}

// Stop shuts the server down and reports a clean exit. It is safe to call
// more than once and from any goroutine; only the first call has effect.
//
// With server.shutdown_drain_timeout at zero the listener and every open
// connection are closed at once. A positive value lets in-flight requests
// finish for up to that long.
func (l *Lifecycle) Stop(reason string) {
	l.mu.Lock()
	switch l.state {
	case StateStarting:
		l.mu.Unlock()
		l.logger.Info("stopped before listening", "reason", reason)
		l.finish(ExitOK, StateStopped, nil)
		return
	case StateListening:
	default:
		l.mu.Unlock()
		return
	}
	l.state = StateShuttingDown
	srv := l.httpServer
	l.mu.Unlock()

	l.metrics.SetLifecycleState(StateShuttingDown.String())
	l.cancelTasks()

	drain := l.cfg.Server.ShutdownDrainTimeout
	l.logger.Info("shutting down", "reason", reason, "drain_timeout", drain.String())

	if drain > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), drain)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			l.logger.Warn("drain incomplete, closing remaining connections", "error", err)
			_ = srv.Close()
		}
	} else {
		_ = srv.Close()
	}

	if l.finish(ExitOK, StateStopped, nil) {
		l.logger.Info("server stopped", "uptime", l.Uptime().Round(time.Millisecond).String())
	}
}

// Run starts the server, waits for SIGINT, SIGTERM, cancellation of ctx or
// a fatal fault, and returns the exit code:
//
//	0  clean shutdown after a signal or cancellation
//	1  bind failure, uncaught panic, serve failure, or an async error
//	   outside production
//
// The fault behind a non-zero code is available from Err. Bind failures
// of kind BindOther are not explained by the log alone and callers should
// surface that error.
func (l *Lifecycle) Run(ctx context.Context) int {
	signals := l.signals
	if signals == nil {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, shutdownSignals()...)
		defer signal.Stop(sigCh)
		signals = sigCh
	}

	// ErrNotStarting means another caller already started or stopped the
	// lifecycle; Run then only waits for the exit.
	if err := l.Start(ctx); err != nil && !errors.Is(err, ErrNotStarting) {
		l.logStartFailure(err)
		l.finish(ExitFailure, StateStopped, err)
		return l.ExitCode()
	}

	select {
	case sig := <-signals:
		l.logger.Info("received shutdown signal", "signal", sig.String())
		l.Stop("signal " + sig.String())
	case <-ctx.Done():
		l.logger.Info("context cancelled, initiating shutdown")
		l.Stop("context cancelled")
	case <-l.done:
	}

	<-l.done
	return l.ExitCode()
}

func (l *Lifecycle) logStartFailure(err error) {
	var bindErr *BindError
	if !errors.As(err, &bindErr) {
		l.logger.Error("server failed to start", "error", err)
		return
	}

	switch bindErr.Kind {
	case BindPermissionDenied:
		l.logger.Error("port requires elevated privileges",
			"port", bindErr.Port, "address", bindErr.Addr, "error", bindErr.Err)
	case BindAddressInUse:
		l.logger.Error("port is already in use",
			"port", bindErr.Port, "address", bindErr.Addr, "error", bindErr.Err)
	default:
		l.logger.Error("failed to bind listener",
			"port", bindErr.Port, "address", bindErr.Addr, "error", bindErr.Err)
	}
}

// Go runs fn in a goroutine owned by the lifecycle.
//
// A panic in fn is an uncaught fault: it is logged with its stack and the
// process exits 1. An error returned by fn is handled like
// ReportAsyncError. fn's context is cancelled at shutdown; returning
// context.Canceled then is not an error.
func (l *Lifecycle) Go(name string, fn func(ctx context.Context) error) {
	go func() {
		defer l.recoverTask(name)

		err := fn(l.tasksCtx)
		if err == nil || (errors.Is(err, context.Canceled) && l.tasksCtx.Err() != nil) {
			return
		}
		l.ReportAsyncError(name, err)
	}()
}

// recoverTask turns a panic in the calling goroutine into an uncaught
// fault. It must be deferred directly.
func (l *Lifecycle) recoverTask(name string) {
	p := recover()
	if p == nil {
		return
	}
	l.logger.Error("uncaught panic",
		"task", name,
		"panic", fmt.Sprint(p),
		"stack", string(debug.Stack()),
	)
	l.crash(fmt.Errorf("panic in %s: %v", name, p))
}

// ReportAsyncError handles an error nobody else handled. It is always
// logged. Outside production it is fatal and the process exits 1; in
// production the process keeps serving.
func (l *Lifecycle) ReportAsyncError(source string, err error) {
	if l.cfg.IsProduction() {
		l.logger.Error("unhandled async error, continuing",
			"source", source,
			"error", err,
			"environment", l.cfg.Environment,
		)
		return
	}

	l.logger.Error("unhandled async error, exiting",
		"source", source,
		"error", err,
		"environment", l.cfg.Environment,
	)
	l.crash(fmt.Errorf("%s: %w", source, err))
}

// crash ends the process with exit code 1. From Listening the state becomes
// Crashed; before listening it becomes Stopped. After a terminal event
// it only logs.
func (l *Lifecycle) crash(err error) {
	l.mu.Lock()
	state := l.state
	srv := l.httpServer
	l.mu.Unlock()

	terminal := StateCrashed
	switch {
	case state == StateStarting:
		terminal = StateStopped
	case state != StateListening:
		l.logger.Warn("fault during shutdown ignored", "state", state.String(), "error", err)
		return
	}

	if !l.finish(ExitFailure, terminal, err) {
		return
	}
	l.cancelTasks()
	if srv != nil {
		_ = srv.Close()
	}
}

// finish records the exit decision once. It reports whether this call made it.
func (l *Lifecycle) finish(code int, terminal State, err error) bool {
	reported := false
	l.exitOnce.Do(func() {
		l.mu.Lock()
		l.state = terminal
		l.exitCode = code
		l.fatalErr = err
		l.mu.Unlock()

		l.metrics.SetLifecycleState(terminal.String())
		close(l.done)
		reported = true
	})
	return reported
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Done is closed once the exit code is decided.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.done
}

// ExitCode returns the decided exit code. Meaningful after Done is closed.
func (l *Lifecycle) ExitCode() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exitCode
}

// Err returns the fault that ended the process, or nil after a clean stop.
func (l *Lifecycle) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fatalErr
}

// Addr returns the bound address, or nil before Start succeeded.
func (l *Lifecycle) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return nil
	}
	return l.listener.Addr()
}

// Uptime returns the time since the server started listening.
func (l *Lifecycle) Uptime() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.startedAt.IsZero() {
		return 0
	}
	return time.Since(l.startedAt)
}

// InstanceID returns the identifier of this process.
func (l *Lifecycle) InstanceID() string {
	return l.instanceID
}

// Handler returns the root HTTP handler.
func (l *Lifecycle) Handler() http.Handler {
	return l.handler
}

// Ready fails unless the server is Listening.
func (l *Lifecycle) Ready(_ context.Context) error {
	if s := l.State(); s != StateListening {
		return fmt.Errorf("state is %s", s)
	}
	return nil
}
