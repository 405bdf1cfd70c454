package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher("secret")
	require.NoError(t, err)

	ct, err := c.Encrypt("entregou o projeto no prazo")
	require.NoError(t, err)
	assert.NotContains(t, ct, "prazo")

	pt, err := c.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "entregou o projeto no prazo", pt)
}

func TestCipher_NonceIsRandom(t *testing.T) {
	c, err := NewCipher("secret")
	require.NoError(t, err)

	a, err := c.Encrypt("same")
	require.NoError(t, err)
	b, err := c.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCipher_WrongKeyFails(t *testing.T) {
	c1, err := NewCipher("one")
	require.NoError(t, err)
	c2, err := NewCipher("two")
	require.NoError(t, err)

	ct, err := c1.Encrypt("x")
	require.NoError(t, err)

	_, err = c2.Decrypt(ct)
	require.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = c1.Decrypt("%%%")
	require.ErrorIs(t, err, ErrMalformedCiphertext)

	_, err = c1.Decrypt("AAAA")
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestNewCipher_EmptySecret(t *testing.T) {
	_, err := NewCipher("")
	require.Error(t, err)
}

func TestPlaceholderCredential(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}
	a, err := PlaceholderCredential(h)
	require.NoError(t, err)
	b, err := PlaceholderCredential(h)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	cost, err := bcrypt.Cost([]byte(a))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
