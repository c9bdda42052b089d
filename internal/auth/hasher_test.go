package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	digest := HashPassword("s3cretpass")

	// SHA-256 output is 32 bytes; base64 of that is always 44 characters.
	assert.Len(t, digest, 44)
	assert.Equal(t, digest, HashPassword("s3cretpass"))
	assert.NotEqual(t, digest, HashPassword("other-pass"))
}

func TestVerifyPassword(t *testing.T) {
	digest := HashPassword("s3cretpass")

	assert.True(t, VerifyPassword(digest, "s3cretpass"))
	assert.False(t, VerifyPassword(digest, "wrong"))
	assert.False(t, VerifyPassword(digest, ""))
	assert.False(t, VerifyPassword("not-a-digest", "s3cretpass"))
}
