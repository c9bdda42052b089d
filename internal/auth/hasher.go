package auth

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashPassword returns the base64-encoded SHA-256 digest of the password.
// The scheme is deliberately unsalted: stored digests from the previous
// system must keep verifying, and Verify recomputes the digest from the
// candidate password alone. Migrating to a salted KDF would require a
// re-hash-on-login pass first.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyPassword reports whether candidate hashes to the stored digest.
func VerifyPassword(storedDigest, candidate string) bool {
	return storedDigest == HashPassword(candidate)
}
