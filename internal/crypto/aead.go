package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeySize is returned when the provided key is not 32 bytes
	ErrInvalidKeySize = errors.New("key must be exactly 32 bytes for AES-256")

	// ErrInvalidNonceSize is returned when the provided nonce is not 12 bytes
	ErrInvalidNonceSize = errors.New("nonce must be exactly 12 bytes for GCM")

	// ErrAuthenticationFailed is returned when GCM authentication tag verification fails
	ErrAuthenticationFailed = errors.New("authentication failed: ciphertext has been tampered with")
)

// Seal encrypts and authenticates plaintext using AES-256-GCM, returning
// the ciphertext with a 16-byte authentication tag appended.
//
// key must be exactly 32 bytes and nonce exactly 12 bytes. The nonce
// must never be reused under the same key — AESHelper generates a fresh
// random one for every call.
func Seal(key []byte, nonce []byte, plaintext []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}
	if len(nonce) != 12 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidNonceSize, len(nonce))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nil
}

// Open decrypts and verifies ciphertext produced by Seal under the same
// key and nonce. It never returns partial plaintext: if the
// authentication tag does not verify, it returns ErrAuthenticationFailed
// and nothing else.
func Open(key []byte, nonce []byte, ciphertext []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}
	if len(nonce) != 12 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidNonceSize, len(nonce))
	}
	if len(ciphertext) < 16 {
		return nil, errors.New("ciphertext too short (must be at least 16 bytes for tag)")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	return plaintext, nil
}
