// Package identity provides the single-operator login flow. There is no
// user database; the console ships with one built-in operator account.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/pkg/ctxlog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const operatorUsername = "admin"

// operatorPassword is the built-in credential. Overriding it is a
// deployment concern, not a product feature.
const operatorPassword = "admin"

var operatorProfile = domain.User{
	Name:  "Admin User",
	Email: "admin@acme-manufacturing.com",
	Role:  "Platform Engineer",
	Teams: []string{"Infrastructure", "SRE", "Platform"},
	Permissions: []string{
		"Execute Runbooks",
		"Create Runbooks",
		"View Audit Logs",
		"Manage Incidents",
		"Schedule Jobs",
		"Approve Executions",
	},
}

// Service implements login and profile lookup for the built-in operator.
type Service struct {
	tokens       *TokenManager
	limiter      *rate.Limiter
	passwordHash []byte
}

// NewService creates an identity service. Login attempts are rate limited
// to one per second with a burst of five.
func NewService(tokens *TokenManager) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(operatorPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash operator password: %w", err)
	}

	return &Service{
		tokens:       tokens,
		limiter:      rate.NewLimiter(rate.Every(time.Second), 5),
		passwordHash: hash,
	}, nil
}

// Login verifies the operator credentials and returns the profile with a
// fresh access token.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if !s.limiter.Allow() {
		return nil, "", ErrTooManyAttempts
	}

	if username != operatorUsername {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(operatorUsername)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	ctxlog.FromContext(ctx).Info("operator logged in", "username", username)

	profile := operatorProfile
	return &profile, token, nil
}

// Profile returns the operator profile for an authenticated subject.
func (s *Service) Profile(subject string) (*domain.User, error) {
	if subject != operatorUsername {
		return nil, ErrInvalidToken
	}
	profile := operatorProfile
	return &profile, nil
}
