package service

import (
	"context"
	"errors"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/cryptox"
	"github.com/inkwellhq/inkwell/pkg/idx"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrTokenRevoked       = errors.New("token_revoked")
)

// TokenService issues and verifies the access/refresh token pair.
//
// Access tokens are pure bearer JWTs: possession of a validly signed,
// unexpired token is sufficient, no storage round-trip happens on the hot
// path. Refresh tokens are also JWTs but each one is additionally persisted
// by SHA-256 fingerprint; the record's existence is the liveness bit and
// deleting it is revocation. A refresh token is only accepted when BOTH the
// record exists AND the signature verifies.
type TokenService struct {
	Store store.Store

	AccessSigner    jwtx.Signer
	AccessVerifier  jwtx.Verifier
	RefreshSigner   jwtx.Signer
	RefreshVerifier jwtx.Verifier

	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issue signs a fresh token pair for the user and persists the refresh
// token's fingerprint.
func (s *TokenService) Issue(ctx context.Context, u domain.User) (*domain.TokenPair, error) {
	now := time.Now()

	pair, record, err := s.buildPair(u, now)
	if err != nil {
		return nil, err
	}

	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, record); err != nil {
		return nil, err
	}

	return pair, nil
}

// VerifyAccess validates an access token and returns its claims. No storage
// lookup is performed; access tokens are not individually revocable.
func (s *TokenService) VerifyAccess(ctx context.Context, token string) (jwtx.Claims, error) {
	return s.AccessVerifier.Verify(token)
}

// VerifyRefresh validates a refresh token against both gates: the persisted
// record must still exist and the signature must verify. The existence check
// runs first so that a revoked-but-valid token and a tampered token are
// indistinguishable to the caller.
func (s *TokenService) VerifyRefresh(ctx context.Context, token string) (jwtx.Claims, error) {
	fp := cryptox.FingerprintToken(token)

	exists, err := s.Store.RefreshTokens().RefreshTokenExists(ctx, fp)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if !exists {
		return jwtx.Claims{}, ErrTokenRevoked
	}

	return s.RefreshVerifier.Verify(token)
}

// Refresh exchanges a live refresh token for a new token pair, rotating the
// refresh token: the old record is deleted and the new one created in a
// single transaction, so the old token can never be exchanged twice.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	claims, err := s.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Subject deleted since issuance; treat as revoked.
			return nil, ErrTokenRevoked
		}
		return nil, err
	}

	pair, record, err := s.buildPair(u, now)
	if err != nil {
		return nil, err
	}

	oldFP := cryptox.FingerprintToken(refreshToken)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.RefreshTokens().DeleteRefreshToken(ctx, oldFP)
		if err != nil {
			return err
		}
		if n == 0 {
			// Lost the race to a concurrent exchange of the same token.
			return ErrTokenRevoked
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	l.Debug("refresh token rotated", "user_id", u.ID)
	return pair, nil
}

// Logout revokes a single refresh token. Idempotent: revoking a token that
// is already gone is not an error.
func (s *TokenService) Logout(ctx context.Context, refreshToken string) error {
	fp := cryptox.FingerprintToken(refreshToken)
	_, err := s.Store.RefreshTokens().DeleteRefreshToken(ctx, fp)
	return err
}

// RevokeAllForUser deletes every live refresh token for the subject,
// terminating all of their sessions.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	return s.Store.RefreshTokens().DeleteUserRefreshTokens(ctx, userID)
}

// buildPair signs a new access + refresh token pair and prepares the
// refresh record for persistence. Callers decide the transaction scope.
func (s *TokenService) buildPair(u domain.User, now time.Time) (*domain.TokenPair, domain.RefreshToken, error) {
	accessClaims := jwtx.NewAccessClaims(u.ID, string(u.Role), s.AccessTTL, s.Issuer, now)
	accessToken, err := s.AccessSigner.Sign(accessClaims)
	if err != nil {
		return nil, domain.RefreshToken{}, err
	}

	refreshClaims := jwtx.NewRefreshClaims(u.ID, s.RefreshTTL, s.Issuer, now)
	refreshToken, err := s.RefreshSigner.Sign(refreshClaims)
	if err != nil {
		return nil, domain.RefreshToken{}, err
	}

	record := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshToken),
		ExpiresAt: now.Add(s.RefreshTTL),
		CreatedAt: now.UTC(),
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.AccessTTL,
	}, record, nil
}
