package server

import (
	"errors"
	"fmt"
	"syscall"
)

// BindErrorKind classifies why the listener could not be bound.
type BindErrorKind int

const (
	// BindOther is any failure not classified below. It is treated as a
	// hard fault and propagated to the caller.
	BindOther BindErrorKind = iota

	// BindPermissionDenied means the process may not bind the port (EACCES, EPERM).
	BindPermissionDenied

	// BindAddressInUse means another socket already holds the address (EADDRINUSE).
	BindAddressInUse
)

func (k BindErrorKind) String() string {
	switch k {
	case BindPermissionDenied:
		return "permission_denied"
	case BindAddressInUse:
		return "address_in_use"
	default:
		return "other"
	}
}

// BindError is returned by Lifecycle.Start when the listener cannot be bound.
type BindError struct {
	Addr string
	Port int
	Kind BindErrorKind
	Err  error
}

func (e *BindError) Error() string {
	switch e.Kind {
	case BindPermissionDenied:
		return fmt.Sprintf("port %d requires elevated privileges", e.Port)
	case BindAddressInUse:
		return fmt.Sprintf("port %d is already in use", e.Port)
	default:
		return fmt.Sprintf("failed to bind %s: %v", e.Addr, e.Err)
	}
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// classifyBindError wraps a listen error into a *BindError.
// net.Listen errors wrap an *os.SyscallError, so errors.Is reaches the errno.
func classifyBindError(addr string, port int, err error) *BindError {
	kind := BindOther
	switch {
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		kind = BindPermissionDenied
	case errors.Is(err, syscall.EADDRINUSE):
		kind = BindAddressInUse
	}

	return &BindError{
		Addr: addr,
		Port: port,
		Kind: kind,
		Err:  err,
	}
}
