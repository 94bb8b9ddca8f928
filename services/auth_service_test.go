package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/project-nexus/apperrors"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAda(t *testing.T, env *testEnv) *models.User {
	t.Helper()
	u, err := env.auth.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:    "Ada@Example.com",
		Username: "ada",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return u
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	u := createAda(t, env)

	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "correct horse", u.Password)

	_, err := env.auth.CreateUser(context.Background(), dto.CreateUserRequest{Email: "ada@example.com", Username: "ada2", Password: "correct horse"})
	assert.True(t, apperrors.Is(err, apperrors.TypeConflict))
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreateUserRequest
	}{
		{"bad email", dto.CreateUserRequest{Email: "nope", Username: "x", Password: "long enough"}},
		{"no username", dto.CreateUserRequest{Email: "x@example.com", Password: "long enough"}},
		{"short password", dto.CreateUserRequest{Email: "x@example.com", Username: "x", Password: "short"}},
		{"unknown role", dto.CreateUserRequest{Email: "x@example.com", Username: "x", Password: "long enough", Role: "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.CreateUser(ctx, tt.req)
			assert.True(t, apperrors.Is(err, apperrors.TypeValidation))
		})
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	env := newTestEnv(t)
	u := createAda(t, env)

	resp, err := env.auth.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)
	assert.Equal(t, testEpoch.Add(time.Hour), resp.ExpiresAt)

	claims, err := env.auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	principal := env.auth.Principal(claims)
	assert.True(t, principal.IsAuthenticated())
	assert.False(t, principal.IsAdmin())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	createAda(t, env)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, apperrors.Is(err, apperrors.TypeUnauthorized))

	_, err = env.auth.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "correct horse"})
	assert.True(t, apperrors.Is(err, apperrors.TypeUnauthorized))
}

func TestValidateTokenExpiry(t *testing.T) {
	env := newTestEnv(t)
	u := createAda(t, env)

	token, _, err := env.auth.GenerateToken(u)
	require.NoError(t, err)

	env.clock.Advance(59 * time.Minute)
	_, err = env.auth.ValidateToken(token)
	require.NoError(t, err)

	env.clock.Advance(2 * time.Minute)
	_, err = env.auth.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	env := newTestEnv(t)
	u := createAda(t, env)

	other := NewAuthService(env.db, "another-secret", time.Hour, env.clock)
	token, _, err := other.GenerateToken(u)
	require.NoError(t, err)

	_, err = env.auth.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	u := createAda(t, env)

	got, err := env.auth.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)

	_, err = env.auth.GetUser(context.Background(), "00000000-0000-4000-8000-000000000000")
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))
}
