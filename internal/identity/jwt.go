package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/runbook-ops/internal/pkg/clock"
	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and validates HS256 access tokens.
type TokenManager struct {
	secret        []byte
	tokenDuration time.Duration
	clock         clock.Clock
}

// NewTokenManager creates a token manager.
func NewTokenManager(secret string, tokenDuration time.Duration, clk clock.Clock) *TokenManager {
	return &TokenManager{
		secret:        []byte(secret),
		tokenDuration: tokenDuration,
		clock:         clk,
	}
}

// Issue creates a signed access token for the given subject.
func (m *TokenManager) Issue(subject string) (string, error) {
	now := m.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateToken parses and verifies an access token, returning its subject.
func (m *TokenManager) ValidateToken(_ context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
