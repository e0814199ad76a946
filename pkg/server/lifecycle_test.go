package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"venuely/api/pkg/config"
)

const (
	testAdminKey      = "test-admin-key-0123456789"
	testMonitoringKey = "test-monitoring-key-0123456789"
)

// logBuffer is a goroutine-safe log sink.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Auth.Keys = []config.APIKeyConfig{
		{Name: config.AdminKeyName, Key: testAdminKey},
		{Name: config.MonitoringKeyName, Key: testMonitoringKey},
	}
	return cfg
}

func newTestLifecycle(t *testing.T, cfg *config.Config, opts Options) (*Lifecycle, *logBuffer) {
	t.Helper()
	logs := &logBuffer{}
	opts.Logger = slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if opts.Signals == nil {
		opts.Signals = make(chan os.Signal, 1)
	}
	return New(cfg, opts), logs
}

// runAsync runs lc.Run in the background and returns its exit code channel.
func runAsync(lc *Lifecycle) <-chan int {
	codes := make(chan int, 1)
	go func() { codes <- lc.Run(context.Background()) }()
	return codes
}

func waitForState(t *testing.T, lc *Lifecycle, want State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if lc.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %s, want %s", lc.State(), want)
}

func waitForExit(t *testing.T, codes <-chan int) int {
	t.Helper()
	select {
	case code := <-codes:
		return code
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return -1
	}
}

func TestRun_AddressInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	defer taken.Close()

	cfg := testConfig()
	cfg.Server.Port = taken.Addr().(*net.TCPAddr).Port
	lc, logs := newTestLifecycle(t, cfg, Options{})

	code := lc.Run(context.Background())

	if code != ExitFailure {
		t.Errorf("Run() = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(logs.String(), "already in use") {
		t.Errorf("logs missing 'already in use':\n%s", logs.String())
	}
	if lc.State() != StateStopped {
		t.Errorf("state = %s, want stopped", lc.State())
	}

	var bindErr *BindError
	if !errors.As(lc.Err(), &bindErr) || bindErr.Kind != BindAddressInUse {
		t.Errorf("Err() = %v, want address-in-use BindError", lc.Err())
	}
}

func TestRun_BindErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind BindErrorKind
		wantLog  string
	}{
		{
			name:     "permission denied",
			err:      &net.OpError{Op: "listen", Net: "tcp", Err: os.NewSyscallError("bind", syscall.EACCES)},
			wantKind: BindPermissionDenied,
			wantLog:  "requires elevated privileges",
		},
		{
			name:     "operation not permitted",
			err:      &net.OpError{Op: "listen", Net: "tcp", Err: os.NewSyscallError("bind", syscall.EPERM)},
			wantKind: BindPermissionDenied,
			wantLog:  "requires elevated privileges",
		},
		{
			name:     "unclassified",
			err:      errors.New("no such interface"),
			wantKind: BindOther,
			wantLog:  "failed to bind listener",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Server.Port = 80
			lc, logs := newTestLifecycle(t, cfg, Options{
				Listen: func(network, address string) (net.Listener, error) {
					return nil, tt.err
				},
			})

			code := lc.Run(context.Background())

			if code != ExitFailure {
				t.Errorf("Run() = %d, want %d", code, ExitFailure)
			}
			if !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("logs missing %q:\n%s", tt.wantLog, logs.String())
			}
			var bindErr *BindError
			if !errors.As(lc.Err(), &bindErr) {
				t.Fatalf("Err() = %v, want *BindError", lc.Err())
			}
			if bindErr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", bindErr.Kind, tt.wantKind)
			}
			if !errors.Is(lc.Err(), tt.err) {
				t.Errorf("Err() does not wrap the listen error")
			}
		})
	}
}

func TestRun_ShutdownSignals(t *testing.T) {
	for _, sig := range []os.Signal{syscall.SIGINT, syscall.SIGTERM} {
		t.Run(sig.String(), func(t *testing.T) {
			signals := make(chan os.Signal, 1)
			lc, logs := newTestLifecycle(t, testConfig(), Options{Signals: signals})

			codes := runAsync(lc)
			waitForState(t, lc, StateListening)

			resp, err := http.Get("http://" + lc.Addr().String() + "/health")
			if err != nil {
				t.Fatalf("GET /health: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("GET /health = %d, want 200", resp.StatusCode)
			}

			signals <- sig

			if code := waitForExit(t, codes); code != ExitOK {
				t.Errorf("Run() = %d, want %d", code, ExitOK)
			}
			if lc.State() != StateStopped {
				t.Errorf("state = %s, want stopped", lc.State())
			}
			out := logs.String()
			for _, want := range []string{"received shutdown signal", "shutting down", "server stopped"} {
				if !strings.Contains(out, want) {
					t.Errorf("logs missing %q:\n%s", want, out)
				}
			}

			if conn, err := net.DialTimeout("tcp", lc.Addr().String(), 200*time.Millisecond); err == nil {
				conn.Close()
				t.Error("listener still accepting after shutdown")
			}
		})
	}
}

func TestRun_ContextCancel(t *testing.T) {
	lc, _ := newTestLifecycle(t, testConfig(), Options{})
	ctx, cancel := context.WithCancel(context.Background())

	codes := make(chan int, 1)
	go func() { codes <- lc.Run(ctx) }()
	waitForState(t, lc, StateListening)

	cancel()

	if code := waitForExit(t, codes); code != ExitOK {
		t.Errorf("Run() = %d, want %d", code, ExitOK)
	}
}

func TestRun_StartupLog(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = config.EnvironmentProduction
	lc, logs := newTestLifecycle(t, cfg, Options{Version: "1.4.0", InstanceID: "instance-1"})

	codes := runAsync(lc)
	waitForState(t, lc, StateListening)
	lc.Stop("test")
	waitForExit(t, codes)

	out := logs.String()
	for _, want := range []string{`"msg":"server listening"`, `"environment":"production"`, `"version":"1.4.0"`, `"instance_id":"instance-1"`, `"port":`} {
		if !strings.Contains(out, want) {
			t.Errorf("startup log missing %s:\n%s", want, out)
		}
	}
}

func TestGo_PanicCrashes(t *testing.T) {
	lc, logs := newTestLifecycle(t, testConfig(), Options{})

	codes := runAsync(lc)
	waitForState(t, lc, StateListening)

	lc.Go("reindex", func(ctx context.Context) error {
		panic("venue index corrupted")
	})

	if code := waitForExit(t, codes); code != ExitFailure {
		t.Errorf("Run() = %d, want %d", code, ExitFailure)
	}
	if lc.State() != StateCrashed {
		t.Errorf("state = %s, want crashed", lc.State())
	}
	out := logs.String()
	for _, want := range []string{"uncaught panic", "venue index corrupted", "goroutine"} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %q:\n%s", want, out)
		}
	}
}

func TestReportAsyncError_Policy(t *testing.T) {
	tests := []struct {
		environment string
		wantState   State
		wantLog     string
	}{
		{environment: config.EnvironmentDevelopment, wantState: StateCrashed, wantLog: "unhandled async error, exiting"},
		{environment: "staging", wantState: StateCrashed, wantLog: "unhandled async error, exiting"},
		{environment: config.EnvironmentProduction, wantState: StateListening, wantLog: "unhandled async error, continuing"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			cfg := testConfig()
			cfg.Environment = tt.environment
			lc, logs := newTestLifecycle(t, cfg, Options{})

			codes := runAsync(lc)
			waitForState(t, lc, StateListening)

			lc.ReportAsyncError("booking-sync", errors.New("upstream rejected"))

			if !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("logs missing %q:\n%s", tt.wantLog, logs.String())
			}
			if got := lc.State(); got != tt.wantState {
				t.Fatalf("state = %s, want %s", got, tt.wantState)
			}

			if tt.wantState == StateListening {
				lc.Stop("test")
				if code := waitForExit(t, codes); code != ExitOK {
					t.Errorf("Run() = %d, want %d", code, ExitOK)
				}
				return
			}
			if code := waitForExit(t, codes); code != ExitFailure {
				t.Errorf("Run() = %d, want %d", code, ExitFailure)
			}
		})
	}
}

func TestGo_ErrorIsAsyncError(t *testing.T) {
	lc, _ := newTestLifecycle(t, testConfig(), Options{})

	codes := runAsync(lc)
	waitForState(t, lc, StateListening)

	lc.Go("mailer", func(ctx context.Context) error {
		return fmt.Errorf("smtp: %w", io.ErrUnexpectedEOF)
	})

	if code := waitForExit(t, codes); code != ExitFailure {
		t.Errorf("Run() = %d, want %d", code, ExitFailure)
	}
	if !errors.Is(lc.Err(), io.ErrUnexpectedEOF) {
		t.Errorf("Err() = %v, want wrapped io.ErrUnexpectedEOF", lc.Err())
	}
}

func TestGo_CancelledAtShutdown(t *testing.T) {
	signals := make(chan os.Signal, 1)
	lc, _ := newTestLifecycle(t, testConfig(), Options{Signals: signals})

	codes := runAsync(lc)
	waitForState(t, lc, StateListening)

	stopped := make(chan struct{})
	lc.Go("poller", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	})

	signals <- syscall.SIGTERM

	if code := waitForExit(t, codes); code != ExitOK {
		t.Errorf("Run() = %d, want %d", code, ExitOK)
	}
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Error("task context not cancelled at shutdown")
	}
}

func TestHeartbeat(t *testing.T) {
	cfg := testConfig()
	cfg.Telemetry.Heartbeat.Schedule = "@every 1s"
	signals := make(chan os.Signal, 1)
	lc, logs := newTestLifecycle(t, cfg, Options{Signals: signals, InstanceID: "instance-hb"})

	codes := runAsync(lc)
	waitForState(t, lc, StateListening)

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(logs.String(), `"msg":"heartbeat"`) {
		if time.Now().After(deadline) {
			t.Fatalf("no heartbeat logged:\n%s", logs.String())
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !strings.Contains(logs.String(), `"state":"listening"`) {
		t.Errorf("heartbeat missing state:\n%s", logs.String())
	}

	signals <- syscall.SIGINT
	if code := waitForExit(t, codes); code != ExitOK {
		t.Errorf("Run() = %d, want %d", code, ExitOK)
	}
}

func TestStop_FirstEventWins(t *testing.T) {
	lc, _ := newTestLifecycle(t, testConfig(), Options{})

	codes := runAsync(lc)
	waitForState(t, lc, StateListening)

	lc.Stop("first")
	lc.Stop("second")
	lc.ReportAsyncError("late", errors.New("after shutdown"))

	if code := waitForExit(t, codes); code != ExitOK {
		t.Errorf("Run() = %d, want %d", code, ExitOK)
	}
	if lc.State() != StateStopped {
		t.Errorf("state = %s, want stopped", lc.State())
	}
	if err := lc.Err(); err != nil {
		t.Errorf("Err() = %v, want nil after clean stop", err)
	}
}

func TestStart_OnlyOnce(t *testing.T) {
	lc, _ := newTestLifecycle(t, testConfig(), Options{})

	if err := lc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer lc.Stop("test")

	if err := lc.Start(context.Background()); err == nil {
		t.Error("second Start() succeeded")
	}
}

func TestStart_StopDuringBind(t *testing.T) {
	var lc *Lifecycle
	var bound net.Listener
	lc, _ = newTestLifecycle(t, testConfig(), Options{
		Listen: func(network, address string) (net.Listener, error) {
			ln, err := net.Listen(network, address)
			if err != nil {
				return nil, err
			}
			bound = ln
			lc.Stop("signal during bind")
			return ln, nil
		},
	})

	err := lc.Start(context.Background())
	if !errors.Is(err, ErrNotStarting) {
		t.Fatalf("Start() error = %v, want ErrNotStarting", err)
	}
	if lc.State() != StateStopped {
		t.Errorf("state = %s, want stopped", lc.State())
	}
	if lc.ExitCode() != ExitOK {
		t.Errorf("ExitCode() = %d, want %d", lc.ExitCode(), ExitOK)
	}
	if lc.Addr() != nil {
		t.Errorf("Addr() = %v, want nil", lc.Addr())
	}

	conn, err := net.DialTimeout("tcp", bound.Addr().String(), time.Second)
	if err == nil {
		conn.Close()
		t.Error("listener still accepting after the lifecycle stopped")
	}
}

func TestRun_StoppedBeforeStart(t *testing.T) {
	lc, logs := newTestLifecycle(t, testConfig(), Options{})
	lc.Stop("test")

	if code := lc.Run(context.Background()); code != ExitOK {
		t.Errorf("Run() = %d, want %d", code, ExitOK)
	}
	if strings.Contains(logs.String(), "server failed to start") {
		t.Errorf("a stop before start was logged as a failure:\n%s", logs.String())
	}
}

func TestHeartbeat_PanicCrashes(t *testing.T) {
	signals := make(chan os.Signal, 1)
	lc, logs := newTestLifecycle(t, testConfig(), Options{Signals: signals})

	codes := runAsync(lc)
	waitForState(t, lc, StateListening)

	lc.Go("heartbeat", func(ctx context.Context) error {
		return lc.runHeartbeat(ctx, "@every 1s", func() {
			panic("status unavailable")
		})
	})

	if code := waitForExit(t, codes); code != ExitFailure {
		t.Errorf("Run() = %d, want %d", code, ExitFailure)
	}
	if lc.State() != StateCrashed {
		t.Errorf("state = %s, want crashed", lc.State())
	}
	out := logs.String()
	if !strings.Contains(out, "uncaught panic") || !strings.Contains(out, `"task":"heartbeat"`) {
		t.Errorf("logs missing the heartbeat panic:\n%s", out)
	}
}

func TestStop_Drain(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ShutdownDrainTimeout = 2 * time.Second

	entered := make(chan struct{})
	signals := make(chan os.Signal, 1)
	lc, _ := newTestLifecycle(t, cfg, Options{
		Signals: signals,
		Routes: func(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
			mux.HandleFunc("GET /slow", func(w http.ResponseWriter, r *http.Request) {
				close(entered)
				time.Sleep(200 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			})
		},
	})

	codes := runAsync(lc)
	waitForState(t, lc, StateListening)

	result := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + lc.Addr().String() + "/slow")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				err = fmt.Errorf("status %d", resp.StatusCode)
			}
		}
		result <- err
	}()

	<-entered
	signals <- syscall.SIGTERM

	if err := <-result; err != nil {
		t.Errorf("in-flight request failed during drain: %v", err)
	}
	if code := waitForExit(t, codes); code != ExitOK {
		t.Errorf("Run() = %d, want %d", code, ExitOK)
	}
}

func TestClassifyBindError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    BindErrorKind
		wantMsg string
	}{
		{"eacces", os.NewSyscallError("bind", syscall.EACCES), BindPermissionDenied, "port 80 requires elevated privileges"},
		{"eaddrinuse", &net.OpError{Op: "listen", Err: os.NewSyscallError("bind", syscall.EADDRINUSE)}, BindAddressInUse, "port 80 is already in use"},
		{"other", errors.New("boom"), BindOther, "failed to bind :80: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyBindError(":80", 80, tt.err)
			if got.Kind != tt.want {
				t.Errorf("Kind = %s, want %s", got.Kind, tt.want)
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStarting, "starting"},
		{StateListening, "listening"},
		{StateShuttingDown, "shutting_down"},
		{StateStopped, "stopped"},
		{StateCrashed, "crashed"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}
