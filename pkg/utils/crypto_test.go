package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecrypt(t *testing.T) {
	ciphertext, err := Encrypt([]byte("long-lived-access-token"), []byte(testKey))
	require.NoError(t, err)
	assert.NotEqual(t, "long-lived-access-token", ciphertext)

	plaintext, err := Decrypt(ciphertext, []byte(testKey))
	require.NoError(t, err)
	assert.Equal(t, "long-lived-access-token", plaintext)
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	first, err := Encrypt([]byte("same input"), []byte(testKey))
	require.NoError(t, err)
	second, err := Encrypt([]byte("same input"), []byte(testKey))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptWrongKey(t *testing.T) {
	ciphertext, err := Encrypt([]byte("secret"), []byte(testKey))
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, []byte("ffffffffffffffffffffffffffffffff"))
	assert.Error(t, err)
}

func TestDecryptGarbage(t *testing.T) {
	_, err := Decrypt("not base64!!", []byte(testKey))
	assert.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", []byte(testKey))
	assert.Error(t, err)
}

func TestEncryptBadKeyLength(t *testing.T) {
	_, err := Encrypt([]byte("secret"), []byte("short-key"))
	assert.Error(t, err)
}
