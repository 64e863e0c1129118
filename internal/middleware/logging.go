package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// authStamp carries the resolved user id from RequireAuth back out to
// the logging middleware. Context values added further down the chain
// are invisible here once the handler returns, so the outer middleware
// seeds a pointer for the inner one to fill.
type authStamp struct {
	userID int64
}

// Logging returns middleware that tags every request with a request id
// and logs method, path, status and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		stamp := &authStamp{}
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx = context.WithValue(ctx, authStampKey, stamp)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		attrs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		}
		if stamp.userID != 0 {
			attrs = append(attrs, "user_id", stamp.userID)
		}

		switch {
		case rec.status >= 500:
			slog.Error("Request failed", attrs...)
		case rec.status >= 400:
			slog.Warn("Request rejected", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	})
}
