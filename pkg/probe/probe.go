package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"venuely/api/pkg/config"
)

const (
	// EnvHost names the host to probe.
	EnvHost = "HEALTHCHECK_HOST"

	DefaultHost    = "127.0.0.1"
	DefaultPath    = "/health"
	DefaultTimeout = 3000 * time.Millisecond

	ExitHealthy   = 0
	ExitUnhealthy = 1
)

// ErrTimeout is returned by Check when the server did not answer within
// the probe timeout. The in-flight request has been aborted.
var ErrTimeout = errors.New("health check timed out")

// StatusError is returned by Check when the server answered with anything
// other than 200.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("health check returned status %d", e.StatusCode)
}

// Probe performs a single health check round-trip.
type Probe struct {
	Host    string
	Port    int
	Path    string
	Timeout time.Duration

	// Client defaults to a client without its own timeout; the request
	// deadline comes from Timeout.
	Client *http.Client
}

// FromEnv builds a Probe from HEALTHCHECK_HOST and PORT. A missing or
// malformed PORT falls back to the server's default port.
func FromEnv() *Probe {
	p := &Probe{
		Host:    os.Getenv(EnvHost),
		Port:    config.DefaultPort,
		Path:    DefaultPath,
		Timeout: DefaultTimeout,
	}
	if v := os.Getenv(config.EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port <= 65535 {
			p.Port = port
		}
	}
	return p
}

// URL returns the address the probe requests.
func (p *Probe) URL() string {
	host := p.Host
	if host == "" {
		host = DefaultHost
	}
	path := p.Path
	if path == "" {
		path = DefaultPath
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(p.Port)) + path
}

// Check issues one GET and returns nil only for a 200 response. The
// request is cancelled once Timeout elapses and the response body is
// always closed.
func (p *Probe) Check(ctx context.Context) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrTimeout
		}
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Run performs Check, prints the outcome and returns the process exit
// code. Success goes to stdout, failures to stderr.
func (p *Probe) Run(ctx context.Context, stdout, stderr io.Writer) int {
	err := p.Check(ctx)
	if err == nil {
		fmt.Fprintf(stdout, "Health check passed: %s\n", p.URL())
		return ExitHealthy
	}

	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrTimeout):
		timeout := p.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		fmt.Fprintf(stderr, "Health check failed: timed out after %dms\n", timeout.Milliseconds())
	case errors.As(err, &statusErr):
		fmt.Fprintf(stderr, "Health check failed: status %d\n", statusErr.StatusCode)
	default:
		fmt.Fprintf(stderr, "Health check failed: %v\n", err)
	}
	return ExitUnhealthy
}
