package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/flowvera/flowvera/internal/pkg/logger"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type logFieldsKey struct{}

// logFields collects values that inner handlers attach to the access log
type logFields struct {
	mu     sync.Mutex
	values map[string]interface{}
}

// AddLogField attaches a field to the access log line of r. It is a no-op
// outside the Logger middleware.
func AddLogField(r *http.Request, key string, value interface{}) {
	if lf, ok := r.Context().Value(logFieldsKey{}).(*logFields); ok {
		lf.mu.Lock()
		lf.values[key] = value
		lf.mu.Unlock()
	}
}

// Logger writes one access log line per request. Server errors log at
// error level, client errors at warn.
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			lf := &logFields{values: make(map[string]interface{})}

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), logFieldsKey{}, lf)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			lf.mu.Lock()
			fields := lf.values
			lf.mu.Unlock()
			fields["method"] = r.Method
			fields["path"] = r.URL.Path
			fields["status"] = status
			fields["duration_ms"] = time.Since(start).Milliseconds()
			fields["bytes"] = ww.BytesWritten()
			fields["ip"] = r.RemoteAddr
			fields["request_id"] = requestIDOf(r)
			if r.URL.RawQuery != "" {
				fields["query"] = r.URL.RawQuery
			}
			if ua := r.UserAgent(); ua != "" {
				fields["user_agent"] = ua
			}

			entry := log.WithFields(fields)
			switch {
			case status >= http.StatusInternalServerError:
				entry.Error("HTTP request")
			case status >= http.StatusBadRequest:
				entry.Warn("HTTP request")
			default:
				entry.Info("HTTP request")
			}
		})
	}
}

// requestIDOf prefers our id and falls back to chi's
func requestIDOf(r *http.Request) string {
	if id := GetRequestID(r); id != "" {
		return id
	}
	return chimiddleware.GetReqID(r.Context())
}
