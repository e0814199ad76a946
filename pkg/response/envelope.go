package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// TimestampFormat is the ISO-8601 layout used in envelope metadata:
// UTC with millisecond precision, e.g. "2026-03-01T09:30:00.000Z".
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Error code constants carried in ErrorDetail.Code.
const (
	// CodeMissingAPIKey indicates a privileged route was called without a key (401).
	CodeMissingAPIKey = "MISSING_API_KEY"

	// CodeInvalidAPIKey indicates the supplied key is not accepted (401).
	CodeInvalidAPIKey = "INVALID_API_KEY"

	// CodeInternalError indicates a handler fault (500).
	CodeInternalError = "INTERNAL_ERROR"

	// CodeNotReady indicates the server is not accepting traffic yet, or any more (503).
	CodeNotReady = "SERVICE_UNAVAILABLE"

	// CodeNotFound indicates no route matched (404).
	CodeNotFound = "NOT_FOUND"
)

// Envelope is the JSON body of every structured API response.
type Envelope struct {
	// Success is false for every error response.
	Success bool `json:"success"`

	// Data carries the payload of successful responses.
	Data any `json:"data,omitempty"`

	// Error is set on failures only.
	Error *ErrorDetail `json:"error,omitempty"`

	// Metadata identifies the response.
	Metadata Metadata `json:"metadata"`
}

// ErrorDetail contains machine- and human-readable error information.
type ErrorDetail struct {
	// Code is a machine-readable error code such as MISSING_API_KEY.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Metadata accompanies every envelope.
type Metadata struct {
	// Timestamp is when the response was produced, in TimestampFormat.
	Timestamp string `json:"timestamp"`

	// RequestID correlates the response with logs. Omitted when the request
	// was never tagged.
	RequestID string `json:"requestId,omitempty"`
}

// NewError builds a failure envelope stamped with now.
func NewError(code, message, requestID string, now time.Time) *Envelope {
	return &Envelope{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
		},
		Metadata: newMetadata(requestID, now),
	}
}

// NewSuccess builds a success envelope stamped with now.
func NewSuccess(data any, requestID string, now time.Time) *Envelope {
	return &Envelope{
		Success:  true,
		Data:     data,
		Metadata: newMetadata(requestID, now),
	}
}

func newMetadata(requestID string, now time.Time) Metadata {
	return Metadata{
		Timestamp: now.UTC().Format(TimestampFormat),
		RequestID: requestID,
	}
}

// WriteError writes a failure envelope with the given HTTP status.
func WriteError(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, NewError(code, message, requestID, time.Now()))
}

// WriteSuccess writes a success envelope with status 200.
func WriteSuccess(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, NewSuccess(data, requestID, time.Now()))
}

// WriteJSON encodes v as the response body. Encoding failures after the
// header is sent can only be logged.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}
