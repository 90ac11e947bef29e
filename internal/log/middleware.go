package log

import (
	"context"
	"net"
	"net/http"
	"time"
)

// ContextKey type for context keys
type ContextKey string

// LoggerContextKey is the context key for the logger
const LoggerContextKey ContextKey = "logger"

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return Default(ComponentApp)
}

// statusRecorder captures the response status code for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger returns middleware that injects an HTTP-scoped logger
// into the request context and logs each request on completion. The
// log level follows the response class: 4xx warns, 5xx errors.
func RequestLogger(logger *Logger) func(http.Handler) http.Handler {
	httpLogger := logger.WithComponent(ComponentHTTP)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			ctx := context.WithValue(r.Context(), LoggerContextKey, httpLogger)
			next.ServeHTTP(rec, r.WithContext(ctx))

			fields := NewFields().
				WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery).
				WithHTTPResponse(rec.status, time.Since(start).Milliseconds(), rec.status < 400).
				WithClientIP(clientIP(r))

			switch {
			case rec.status >= 500:
				httpLogger.ErrorContext(ctx, "request completed", fields.ToSlice()...)
			case rec.status >= 400:
				httpLogger.WarnContext(ctx, "request completed", fields.ToSlice()...)
			default:
				httpLogger.InfoContext(ctx, "request completed", fields.ToSlice()...)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
