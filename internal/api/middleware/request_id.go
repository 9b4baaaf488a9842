package middleware

import (
	"context"
	"net/http"
	"regexp"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	RequestIDKey    ContextKey = "requestID"
	RequestIDHeader            = "X-Request-ID"
)

// Caller ids end up in logs and response headers.
var safeRequestID = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// resolveRequestID prefers a well-formed caller id, then the id chi
// assigned, then a new UUID.
func resolveRequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); safeRequestID.MatchString(id) {
		return id
	}
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

// RequestID stores the resolved id on the context and echoes it back.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolveRequestID(r)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIDKey, id)))
		})
	}
}

func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(RequestIDKey).(string)
	return id
}
