package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Abcd123!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := VerifyPassword("Abcd123!", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	ok, err := VerifyPassword("battery-staple", hash)
	require.NoError(t, err)
	assert.False(t, ok, "mismatch must return false, not an error")
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two hashes of the same password must use distinct salts")
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=64,t=3$short",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
	}

	for _, encoded := range cases {
		_, err := VerifyPassword("anything", encoded)
		assert.ErrorIs(t, err, ErrInvalidHash, "hash: %q", encoded)
	}
}

func TestFingerprintTokenDeterministic(t *testing.T) {
	fp1 := FingerprintToken("token-a")
	fp2 := FingerprintToken("token-a")
	fp3 := FingerprintToken("token-b")

	assert.Equal(t, fp1, fp2)
	assert.NotEqual(t, fp1, fp3)
	assert.Len(t, fp1, 43) // base64url of 32 bytes, no padding
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret(SecretSize)
	require.NoError(t, err)
	b, err := GenerateSecret(SecretSize)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)

	_, err = GenerateSecret(0)
	assert.Error(t, err)
}
