package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// SecretSize is the byte length used for generated signing secrets.
const SecretSize = 64

// GenerateSecret returns a cryptographically random secret of n bytes,
// base64url-encoded. Used for the dev-only ephemeral JWT signing secret.
func GenerateSecret(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: secret size must be positive, got %d", n)
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: generating secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns the deterministic SHA-256 fingerprint of an
// opaque token, base64url-encoded. Verification and reset tokens are stored
// only as fingerprints so a leaked database row yields no usable link.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
