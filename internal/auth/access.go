package auth

import (
	"context"
	"strings"

	"github.com/flowvera/flowvera/internal/domain/user"
)

// Decision is the outcome of an authorization check
type Decision int

const (
	Unauthenticated Decision = iota
	Forbidden
	Authorized
)

func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Forbidden:
		return "forbidden"
	case Unauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Requirement lists what a caller must satisfy. Empty Roles admits any
// authenticated user.
type Requirement struct {
	Roles []user.Role
}

// Result carries the decision and, when the token was valid, the user.
type Result struct {
	Decision Decision
	User     *user.User
	Reason   string
}

// Authorizer verifies bearer tokens against the user directory.
type Authorizer struct {
	users  user.Repository
	secret string
}

func NewAuthorizer(users user.Repository, secret string) *Authorizer {
	return &Authorizer{users: users, secret: secret}
}

// Authorize checks bearer against req. A deleted or disabled user is
// unauthenticated even with an unexpired token.
func (a *Authorizer) Authorize(ctx context.Context, bearer string, req Requirement) Result {
	token := strings.TrimSpace(strings.TrimPrefix(bearer, "Bearer "))
	if token == "" {
		return Result{Decision: Unauthenticated, Reason: "Missing authentication token"}
	}

	claims, err := ParseTyped(token, a.secret, TokenAccess)
	if err != nil {
		return Result{Decision: Unauthenticated, Reason: "Invalid or expired token"}
	}

	u, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return Result{Decision: Unauthenticated, Reason: "User not found"}
	}
	if !u.IsActive {
		return Result{Decision: Unauthenticated, User: u, Reason: "Account is disabled"}
	}

	if len(req.Roles) == 0 {
		return Result{Decision: Authorized, User: u}
	}
	for _, r := range req.Roles {
		if u.Role == r {
			return Result{Decision: Authorized, User: u}
		}
	}
	return Result{Decision: Forbidden, User: u, Reason: "Insufficient permissions"}
}
