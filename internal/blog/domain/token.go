package domain

import "time"

// TokenPair is what a successful login or refresh exchange produces: the
// short-lived access token (JWT) and the longer-lived refresh token.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    time.Duration `json:"expiresIn"` // access-token lifetime
}

// RefreshToken models the stored refresh token record in the DB. The record
// is the liveness proof for the token: while it exists the token can be
// exchanged, deleting it revokes the token regardless of its own expiry.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	CreatedAt time.Time
}
