package service

import (
	"context"
	"testing"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T, st store.Store, adminEmails ...string) *AuthService {
	t.Helper()
	return &AuthService{
		Store:       st,
		Tokens:      newTestTokenService(t, st),
		AdminEmails: adminEmails,
	}
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestAuthService(t, st, "boss@example.com")

	t.Run("creates user with the user role and signs in", func(t *testing.T) {
		u, pair, err := svc.Register(ctx, "alice", "Alice@Example.com", "secret-password")
		require.NoError(t, err)
		require.Equal(t, domain.RoleUser, u.Role)
		require.Equal(t, "alice@example.com", u.Email, "email is normalised")
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		// Password is stored hashed, never verbatim.
		stored, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotEqual(t, "secret-password", stored.PasswordHash)
	})

	t.Run("whitelisted email registers as admin", func(t *testing.T) {
		u, _, err := svc.Register(ctx, "boss", "boss@example.com", "secret-password")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, u.Role)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice2", "alice@example.com", "secret-password")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice", "alice3@example.com", "secret-password")
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestAuthService(t, st)

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "correct-password")
	require.NoError(t, err)

	t.Run("valid credentials issue a pair", func(t *testing.T) {
		u, pair, err := svc.Login(ctx, "alice@example.com", "correct-password")
		require.NoError(t, err)
		require.Equal(t, "alice", u.Username)

		claims, err := svc.Tokens.VerifyAccess(ctx, pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.Subject)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, _, errWrongPass := svc.Login(ctx, "alice@example.com", "wrong-password")
		_, _, errNoUser := svc.Login(ctx, "nobody@example.com", "whatever-password")

		require.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
		require.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	})
}
