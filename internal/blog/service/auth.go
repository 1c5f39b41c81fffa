package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// AuthService handles registration and credential login. Token issuance is
// delegated to the TokenService.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService

	// AdminEmails lists addresses that register with the admin role.
	// Everyone else gets the user role regardless of what they request.
	AdminEmails []string
}

// Register creates a new account and signs it in. Returns
// store.ErrAlreadyExists when the email or username is taken.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, *domain.TokenPair, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, nil, err
	}

	role := domain.RoleUser
	if s.isAdminEmail(email) {
		role = domain.RoleAdmin
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		return domain.User{}, nil, err
	}

	pair, err := s.Tokens.Issue(ctx, u)
	if err != nil {
		return domain.User{}, nil, err
	}

	l.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, pair, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password both return ErrInvalidCredentials so the response never
// reveals which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, nil, ErrInvalidCredentials
		}
		return domain.User{}, nil, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login password verification failed", "user_id", u.ID)
		return domain.User{}, nil, ErrInvalidCredentials
	}

	pair, err := s.Tokens.Issue(ctx, u)
	if err != nil {
		return domain.User{}, nil, err
	}

	return u, pair, nil
}

func (s *AuthService) isAdminEmail(email string) bool {
	for _, a := range s.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(a), email) {
			return true
		}
	}
	return false
}
