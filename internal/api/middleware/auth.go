package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/flowvera/flowvera/internal/auth"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for user ID
	UserIDKey ContextKey = "userID"
	// UserEmailKey is the context key for user email
	UserEmailKey ContextKey = "email"
	// UserRoleKey is the context key for user role
	UserRoleKey ContextKey = "role"
)

// AccessTokenCookie carries the access token for browser clients
const AccessTokenCookie = "accessToken"

// Authenticate rejects requests without a valid token for an active user
func Authenticate(a *auth.Authorizer) func(http.Handler) http.Handler {
	return authorize(a, auth.Requirement{})
}

// RequireRole admits only users holding one of roles
func RequireRole(a *auth.Authorizer, roles ...user.Role) func(http.Handler) http.Handler {
	return authorize(a, auth.Requirement{Roles: roles})
}

func authorize(a *auth.Authorizer, req auth.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := a.Authorize(r.Context(), bearerToken(r), req)

			switch res.Decision {
			case auth.Unauthenticated:
				utils.WriteError(w, errors.Unauthorized(res.Reason))
				return
			case auth.Forbidden:
				AddLogField(r, "user_id", res.User.ID)
				utils.WriteError(w, errors.Forbidden(res.Reason))
				return
			}

			AddLogField(r, "user_id", res.User.ID)
			AddLogField(r, "role", res.User.Role)

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), res.User)))
		})
	}
}

// bearerToken reads the Authorization header, falling back to the cookie
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// WithUser stores the caller's identity in ctx
func WithUser(ctx context.Context, u *user.User) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, u.ID)
	ctx = context.WithValue(ctx, UserEmailKey, u.Email)
	return context.WithValue(ctx, UserRoleKey, u.Role)
}

// GetUserID extracts the user ID from the request context
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserEmail extracts the user email from the request context
func GetUserEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(UserEmailKey).(string)
	return email, ok
}

// GetUserRole extracts the user role from the request context
func GetUserRole(r *http.Request) (user.Role, bool) {
	role, ok := r.Context().Value(UserRoleKey).(user.Role)
	return role, ok
}
