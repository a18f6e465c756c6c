package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- f.now
	return ch
}

func newTestService(t *testing.T) (*Service, *TokenManager, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
	tokens := NewTokenManager(testSecret, 5*time.Minute, clk)
	service, err := NewService(tokens)
	require.NoError(t, err)
	return service, tokens, clk
}

func TestLogin_Succeeds(t *testing.T) {
	service, tokens, _ := newTestService(t)

	user, token, err := service.Login(context.Background(), "admin", "admin")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Admin User", user.Name)
	assert.Equal(t, "Platform Engineer", user.Role)
	assert.Contains(t, user.Permissions, "Execute Runbooks")
	require.NotEmpty(t, token)

	subject, err := tokens.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, _, _ := newTestService(t)

	user, token, err := service.Login(context.Background(), "admin", "hunter2")

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	service, _, _ := newTestService(t)

	_, _, err := service.Login(context.Background(), "root", "admin")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RateLimited(t *testing.T) {
	service, _, _ := newTestService(t)

	// Burst of five attempts is allowed; the sixth is rejected.
	for i := 0; i < 5; i++ {
		_, _, err := service.Login(context.Background(), "admin", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err := service.Login(context.Background(), "admin", "admin")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestValidateToken_Expired(t *testing.T) {
	_, tokens, clk := newTestService(t)

	token, err := tokens.Issue("admin")
	require.NoError(t, err)

	clk.now = clk.now.Add(10 * time.Minute)

	_, err = tokens.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, tokens, _ := newTestService(t)

	_, err := tokens.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	service, _, _ := newTestService(t)

	user, err := service.Profile("admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@acme-manufacturing.com", user.Email)

	_, err = service.Profile("someone-else")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
