package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	t.Run("verify accepts the right password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hash, "$argon2id$"))

		require.NoError(t, VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("verify rejects the wrong password", func(t *testing.T) {
		hash, err := HashPassword("password-one")
		require.NoError(t, err)

		require.ErrorIs(t, VerifyPassword("password-two", hash), ErrPasswordMismatch)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		a, err := HashPassword("same input")
		require.NoError(t, err)
		b, err := HashPassword("same input")
		require.NoError(t, err)

		require.NotEqual(t, a, b) // random salt
	})

	t.Run("garbage hash is an error, not a match", func(t *testing.T) {
		require.Error(t, VerifyPassword("anything", "not-a-phc-string"))
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	b, err := GenerateToken(TokenSize256)
	require.NoError(t, err)

	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp1 := FingerprintToken("some-token-value")
	fp2 := FingerprintToken("some-token-value")
	fp3 := FingerprintToken("other-token-value")

	require.Equal(t, fp1, fp2, "fingerprint must be deterministic")
	require.NotEqual(t, fp1, fp3)
	require.NotContains(t, fp1, "some-token-value")
}
