package services_test

import (
	"context"
	"testing"
	"time"

	"dailydiet/internal/models"
	"dailydiet/internal/repositories"
	"dailydiet/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_ResolveOrIssue(t *testing.T) {
	sessions := services.NewSessionService(repositories.NewMockUserRepository(), "", 7*24*time.Hour)
	existing := uuid.New().String()

	token, isNew := sessions.ResolveOrIssue("")
	assert.True(t, isNew)
	_, err := uuid.Parse(token)
	assert.NoError(t, err)

	token, isNew = sessions.ResolveOrIssue(existing)
	assert.False(t, isNew)
	assert.Equal(t, existing, token)

	token, isNew = sessions.ResolveOrIssue("not-a-token")
	assert.True(t, isNew)
	assert.NotEqual(t, "not-a-token", token)

	value, err := sessions.CookieValue(existing)
	require.NoError(t, err)
	assert.Equal(t, existing, value)
}

func TestSessionService_NewTokensAreUnique(t *testing.T) {
	sessions := services.NewSessionService(repositories.NewMockUserRepository(), "", time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := sessions.NewToken()
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestSessionService_SignedCookie(t *testing.T) {
	sessions := services.NewSessionService(repositories.NewMockUserRepository(), "secret", time.Hour)
	token := sessions.NewToken()

	value, err := sessions.CookieValue(token)
	require.NoError(t, err)
	assert.NotEqual(t, token, value)

	resolved, isNew := sessions.ResolveOrIssue(value)
	assert.False(t, isNew)
	assert.Equal(t, token, resolved)

	// A bare token is not accepted once cookies are signed.
	_, isNew = sessions.ResolveOrIssue(token)
	assert.True(t, isNew)

	other := services.NewSessionService(repositories.NewMockUserRepository(), "other", time.Hour)
	_, isNew = other.ResolveOrIssue(value)
	assert.True(t, isNew)
}

func TestSessionService_ExpiredCookie(t *testing.T) {
	sessions := services.NewSessionService(repositories.NewMockUserRepository(), "secret", time.Hour)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": uuid.New().String(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, isNew := sessions.ResolveOrIssue(expired)
	assert.True(t, isNew)
}

func TestSessionService_LookupUser(t *testing.T) {
	users := repositories.NewMockUserRepository()
	sessions := services.NewSessionService(users, "", time.Hour)
	token := sessions.NewToken()
	user := &models.User{Name: "Ana", Email: "ana@example.com", SessionID: &token}
	require.NoError(t, users.Create(context.Background(), user))

	id, ok, err := sessions.LookupUser(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, user.ID, id)

	_, ok, err = sessions.LookupUser(context.Background(), sessions.NewToken())
	require.NoError(t, err)
	assert.False(t, ok)
}
