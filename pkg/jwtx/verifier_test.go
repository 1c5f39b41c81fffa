package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "inkwell-test"

var (
	testSecret  = []byte("0123456789abcdef0123456789abcdef")
	otherSecret = []byte("fedcba9876543210fedcba9876543210")
)

func newTestSigner(t *testing.T, alg string, secret []byte) Signer {
	t.Helper()
	s, err := NewSignerHMAC(alg, secret)
	require.NoError(t, err)
	return s
}

func newTestVerifier(t *testing.T, allowed []string, audience []string) Verifier {
	t.Helper()
	v, err := NewVerifierHMAC(testSecret, allowed, testIssuer, audience)
	require.NoError(t, err)
	return v
}

func TestNewVerifierHMAC(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty allow list", func(t *testing.T) {
		_, err := NewVerifierHMAC(testSecret, nil, testIssuer, nil)
		require.Error(t, err)
	})

	t.Run("rejects non-HMAC algorithms in the allow list", func(t *testing.T) {
		for _, alg := range []string{"none", "RS256", "ES256", "EdDSA"} {
			_, err := NewVerifierHMAC(testSecret, []string{alg}, testIssuer, nil)
			require.Error(t, err, "alg %s must be rejected", alg)
		}
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		_, err := NewVerifierHMAC([]byte("short"), []string{"HS256"}, testIssuer, nil)
		require.Error(t, err)
	})
}

func TestVerifyRoundtrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "HS256", testSecret)
	verifier := newTestVerifier(t, []string{"HS256"}, []string{AudienceAccess})

	token, err := signer.Sign(NewAccessClaims("user-1", "admin", time.Minute, testIssuer, time.Now()))
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, testIssuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestVerifyRejections(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "HS256", testSecret)
	verifier := newTestVerifier(t, []string{"HS256"}, []string{AudienceAccess})

	t.Run("expired token", func(t *testing.T) {
		token, err := signer.Sign(NewAccessClaims("user-1", "user", time.Minute, testIssuer, time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("not yet valid token", func(t *testing.T) {
		token, err := signer.Sign(NewAccessClaims("user-1", "user", time.Minute, testIssuer, time.Now().Add(time.Hour)))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrNotYetValid)
	})

	t.Run("tampered signature", func(t *testing.T) {
		token, err := signer.Sign(NewAccessClaims("user-1", "user", time.Minute, testIssuer, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(flipLastChar(token))
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := signer.Sign(NewAccessClaims("user-1", "user", time.Minute, testIssuer, time.Now()))
		require.NoError(t, err)

		// Swap the payload for one claiming a different subject; signature
		// no longer matches.
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		forged, err := json.Marshal(map[string]any{"sub": "user-2", "role": "admin"})
		require.NoError(t, err)
		parts[1] = base64.RawURLEncoding.EncodeToString(forged)

		_, err = verifier.Verify(strings.Join(parts, "."))
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("wrong secret", func(t *testing.T) {
		badSigner := newTestSigner(t, "HS256", otherSecret)
		token, err := badSigner.Sign(NewAccessClaims("user-1", "user", time.Minute, testIssuer, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(NewAccessClaims("user-1", "user", time.Minute, "someone-else", time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("refresh token presented as access token", func(t *testing.T) {
		token, err := signer.Sign(NewRefreshClaims("user-1", time.Minute, testIssuer, time.Now()))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrAudience)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := verifier.Verify("not-a-jwt")
		require.ErrorIs(t, err, ErrMalformed)
	})
}

func TestVerifyAlgorithmPinning(t *testing.T) {
	t.Parallel()

	verifier := newTestVerifier(t, []string{"HS256"}, []string{AudienceAccess})

	t.Run("none algorithm is rejected", func(t *testing.T) {
		// Hand-rolled unsigned token claiming alg "none". The declared
		// algorithm must never select the verification behavior.
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
		payload, err := json.Marshal(NewAccessClaims("user-1", "admin", time.Minute, testIssuer, time.Now()))
		require.NoError(t, err)
		token := header + "." + base64.RawURLEncoding.EncodeToString(payload) + "."

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrAlgNotAllowed)
	})

	t.Run("HS512 outside the allow list is rejected", func(t *testing.T) {
		hs512 := newTestSigner(t, "HS512", testSecret)
		token, err := hs512.Sign(NewAccessClaims("user-1", "user", time.Minute, testIssuer, time.Now()))
		require.NoError(t, err)

		// Same secret, valid signature, but the algorithm is not allowed.
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrAlgNotAllowed)
	})

	t.Run("allowed algorithm list is honored", func(t *testing.T) {
		multi, err := NewVerifierHMAC(testSecret, []string{"HS256", "HS512"}, testIssuer, []string{AudienceAccess})
		require.NoError(t, err)

		hs512 := newTestSigner(t, "HS512", testSecret)
		token, err := hs512.Sign(NewAccessClaims("user-1", "user", time.Minute, testIssuer, time.Now()))
		require.NoError(t, err)

		claims, err := multi.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
	})
}

func TestDecodeUnverified(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "HS256", testSecret)
	token, err := signer.Sign(NewAccessClaims("user-1", "user", time.Minute, testIssuer, time.Now()))
	require.NoError(t, err)

	hdr, claims, err := DecodeUnverified(token)
	require.NoError(t, err)
	require.Equal(t, "HS256", hdr["alg"])
	require.Equal(t, "user-1", claims.Subject)
}

func flipLastChar(token string) string {
	last := token[len(token)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	return token[:len(token)-1] + string(replacement)
}
