package auth

import (
	"errors"

	"venuely/api/pkg/response"
)

var (
	// ErrMissingAPIKey is returned when the request carries no API key.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidAPIKey is returned when the key is not in the accepted set.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// KeyInfo is an accepted API key and the label it is known by in logs,
// metrics and status output.
type KeyInfo struct {
	Name string
	Key  string
}

// KeyStore validates API keys.
type KeyStore interface {
	Validate(key string) (*KeyInfo, error)
}

// AdmissionRecorder receives admission outcomes. *metrics.Collector
// implements it.
type AdmissionRecorder interface {
	RecordAdmissionAccepted(keyName string)
	RecordAdmissionRejected(code string)
}

// rejection maps a validation error to its envelope code and message.
func rejection(err error) (code, message string) {
	if errors.Is(err, ErrMissingAPIKey) {
		return response.CodeMissingAPIKey, "API key is required"
	}
	return response.CodeInvalidAPIKey, "Invalid API key"
}
