package crypto

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestAESHelper_RoundTrip(t *testing.T) {
	helper, err := NewAESHelper(testKey(t))
	require.NoError(t, err)

	plaintext := []byte("glacier integrity payload")
	ciphertext, err := helper.Encrypt(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)

	decrypted, err := helper.Decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestAESHelper_DistinctNoncesPerCall(t *testing.T) {
	helper, err := NewAESHelper(testKey(t))
	require.NoError(t, err)

	plaintext := []byte("same input")
	a, err := helper.Encrypt(plaintext)
	require.NoError(t, err)
	b, err := helper.Encrypt(plaintext)
	require.NoError(t, err)

	require.NotEqual(t, a, b, "encrypting the same plaintext twice must use distinct nonces")
}

func TestAESHelper_TamperDetection(t *testing.T) {
	helper, err := NewAESHelper(testKey(t))
	require.NoError(t, err)

	ciphertext, err := helper.Encrypt([]byte("do not modify me"))
	require.NoError(t, err)

	tampered := append([]byte(nil), ciphertext...)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = helper.Decrypt(tampered)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAESHelper_RejectsShortCiphertext(t *testing.T) {
	helper, err := NewAESHelper(testKey(t))
	require.NoError(t, err)

	_, err = helper.Decrypt([]byte("short"))
	require.Error(t, err)
}

func TestNewAESHelper_RejectsBadKeySize(t *testing.T) {
	_, err := NewAESHelper([]byte("too-short"))
	require.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestKeystore_RoundTripWithPassphrase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "encryption.key")
	key := testKey(t)

	require.NoError(t, SaveKey(key, path, "correct horse battery staple"))

	loaded, err := LoadKey(path, "correct horse battery staple")
	require.NoError(t, err)
	require.Equal(t, key, loaded)
}

func TestKeystore_WrongPassphraseFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "encryption.key")
	key := testKey(t)

	require.NoError(t, SaveKey(key, path, "correct horse battery staple"))

	_, err := LoadKey(path, "wrong passphrase")
	require.ErrorIs(t, err, ErrInvalidPassphrase)
}

func TestKeystore_InsecureRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "encryption.key")
	key := testKey(t)

	require.NoError(t, SaveKey(key, path, ""))

	loaded, err := LoadKey(path+".insecure", "")
	require.NoError(t, err)
	require.Equal(t, key, loaded)
}
