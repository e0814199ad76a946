package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"venuely/api/pkg/response"
)

// Recovery recovers from panics in HTTP handlers and returns a 500 response
// in the standard error envelope. The panic is logged with its stack trace;
// none of it is exposed to the client. A panic in a handler is a per-request
// fault and never reaches the process lifecycle.
//
// When the handler had already started its response, the status and body
// cannot be replaced: the panic is logged and the partial response is left
// as it is.
//
// http.ErrAbortHandler is re-raised so net/http can abort the connection as
// the handler intended.
//
// Example usage:
//
//	handler = Recovery(handler)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w)

		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if e, ok := err.(error); ok && errors.Is(e, http.ErrAbortHandler) {
				panic(err)
			}

			attrs := []any{
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			}

			// Outside the tagger the context has no id, but the response
			// header already carries it.
			requestID := GetRequestID(r.Context())
			if requestID == "" {
				requestID = rw.Header().Get(RequestIDHeader)
				if requestID != "" {
					attrs = append(attrs, "request_id", requestID)
				}
			}

			if rw.written {
				attrs = append(attrs, "status", rw.statusCode)
				slog.ErrorContext(r.Context(), "panic in handler after response started", attrs...)
				return
			}

			slog.ErrorContext(r.Context(), "panic in handler", attrs...)

			response.WriteError(rw, http.StatusInternalServerError,
				response.CodeInternalError,
				"An internal error occurred. Please try again later.",
				requestID,
			)
		}()

		next.ServeHTTP(rw, r)
	})
}
