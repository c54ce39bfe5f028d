package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("parola1")
	require.NoError(t, err)
	assert.NotEqual(t, "parola1", hash)

	assert.NoError(t, h.Compare(hash, "parola1"))
	assert.ErrorIs(t, h.Compare(hash, "parola2"), ErrMismatch)
}

func TestPolicy(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("12345")
	assert.ErrorIs(t, err, ErrTooShort)

	assert.NoError(t, Validate("123456"))
	assert.NoError(t, Validate("șțăîâșț"))
	assert.ErrorIs(t, Validate(""), ErrTooShort)
}
