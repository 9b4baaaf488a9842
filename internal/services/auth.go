package services

import (
	"context"

	"github.com/flowvera/flowvera/internal/auth"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/domain/subscription"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/email"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/metrics"
)

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	Tokens auth.TokenPair
	User   *user.User
}

// AuthService handles registration, login and token refresh
type AuthService struct {
	users    user.Service
	ledger   subscription.Service
	notifier email.Notifier
	issuer   *auth.Issuer
	logger   *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users user.Service, ledger subscription.Service, notifier email.Notifier, issuer *auth.Issuer, log *logger.Logger) *AuthService {
	return &AuthService{
		users:    users,
		ledger:   ledger,
		notifier: notifier,
		issuer:   issuer,
		logger:   log,
	}
}

// Register creates the account, starts a free trial and sends the welcome
// email. Trial and email failures are logged and do not fail registration.
func (s *AuthService) Register(ctx context.Context, in user.CreateInput) (*AuthResult, error) {
	in.Role = user.RoleUser
	u, err := s.users.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	metrics.RecordUserRegistered()

	log := s.logger.With("user_id", u.ID)
	if _, err := s.ledger.Create(ctx, u.ID, plan.FreeTrial); err != nil {
		log.WithError(err).Error("Failed to start free trial")
	}

	firstName := ""
	if u.FirstName != nil {
		firstName = *u.FirstName
	}
	if !s.notifier.SendWelcome(ctx, u.Email, firstName) {
		log.Warn("Welcome email not sent")
	}

	return s.issue(u)
}

// Login verifies credentials and issues tokens
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.logger.With("user_id", u.ID).Info("User logged in")
	return s.issue(u)
}

// Refresh exchanges a valid refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired refresh token")
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, errors.Unauthorized("Account is disabled")
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *user.User) (*AuthResult, error) {
	pair, err := s.issuer.Issue(u)
	if err != nil {
		return nil, errors.Internal("Failed to issue tokens", err)
	}
	return &AuthResult{Tokens: pair, User: u}, nil
}
