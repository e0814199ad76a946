package middleware

import (
	"crypto/rand"
	"net/http"
	"strconv"
	"time"
)

const (
	// RequestIDHeader is the HTTP response header carrying the request ID.
	RequestIDHeader = "X-Request-ID"

	// requestIDPrefix starts every generated ID.
	requestIDPrefix = "req_"

	// requestIDRandomLen is the number of random base36 characters.
	requestIDRandomLen = 9

	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Tagger stamps every request with a RequestContext holding a fresh request
// ID and the time the request entered the server.
//
// The Tagger never rejects a request. It runs once per request: a request
// that already carries a RequestContext passes through unchanged, so the
// Tagger can appear both at the edge of the server and at the head of a
// route's admission pipeline.
//
// An X-Request-ID sent by the client is ignored; IDs are generated here.
type Tagger struct {
	now func() time.Time
}

// NewTagger creates a Tagger using the wall clock.
func NewTagger() *Tagger {
	return &Tagger{now: time.Now}
}

// Name implements Stage.
func (t *Tagger) Name() string { return "request-context" }

// Process implements Stage. It always returns Continue.
func (t *Tagger) Process(w http.ResponseWriter, r *http.Request) (*http.Request, Decision) {
	if rc, ok := FromContext(r.Context()); ok && rc.RequestID != "" {
		return r, Continue
	}

	start := t.now()
	rc := RequestContext{
		RequestID: NewRequestID(start),
		StartTime: start,
	}

	w.Header().Set(RequestIDHeader, rc.RequestID)
	return r.WithContext(WithRequestContext(r.Context(), rc)), Continue
}

// Handler wraps next so that it always sees a tagged request.
//
// Example usage:
//
//	handler = tagger.Handler(handler)
func (t *Tagger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, _ = t.Process(w, r)
		next.ServeHTTP(w, r)
	})
}

// NewRequestID returns an ID of the form req_<epochMillis>_<9 base36 chars>,
// for example "req_1772357400000_k3j9x0a1b".
//
// Uniqueness is probabilistic: 36^9 random suffixes per millisecond.
func NewRequestID(now time.Time) string {
	buf := make([]byte, 0, len(requestIDPrefix)+20+requestIDRandomLen)
	buf = append(buf, requestIDPrefix...)
	buf = strconv.AppendInt(buf, now.UnixMilli(), 10)
	buf = append(buf, '_')
	buf = appendBase36(buf, requestIDRandomLen)
	return string(buf)
}

// appendBase36 appends n uniformly random base36 characters to buf.
// Bytes >= 252 are discarded so that every character is equally likely.
func appendBase36(buf []byte, n int) []byte {
	var raw [16]byte
	for n > 0 {
		// crypto/rand.Read never returns an error.
		_, _ = rand.Read(raw[:])
		for _, b := range raw {
			if n == 0 {
				break
			}
			if b >= 252 {
				continue
			}
			buf = append(buf, base36Alphabet[b%36])
			n--
		}
	}
	return buf
}
