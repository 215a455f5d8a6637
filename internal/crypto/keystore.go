package crypto

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters (recommended values for interactive use)
	argon2Time      = 3     // Number of iterations
	argon2Memory    = 65536 // Memory in KiB (64 MiB)
	argon2Threads   = 4     // Parallelism factor
	argon2KeyLen    = 32    // Output key length (AES-256)
	saltSize        = 32    // Salt size in bytes
	keystoreVersion = 1     // Keystore format version
)

var (
	// ErrInvalidPassphrase is returned when the passphrase fails to decrypt the keystore
	ErrInvalidPassphrase = errors.New("invalid passphrase or corrupted keystore")
)

// KeystoreEntry represents an encrypted encryption key stored on disk.
type KeystoreEntry struct {
	Version       int    `json:"version"`        // Format version (currently 1)
	KDF           string `json:"kdf"`             // Key derivation function ("argon2id")
	Argon2Time    int    `json:"argon2_time"`     // Argon2 time parameter
	Argon2Memory  int    `json:"argon2_memory"`   // Argon2 memory in KiB
	Argon2Threads int    `json:"argon2_threads"`  // Argon2 parallelism
	Salt          []byte `json:"salt"`            // Random salt for KDF
	Nonce         []byte `json:"nonce"`           // Random nonce for AES-GCM
	Ciphertext    []byte `json:"ciphertext"`      // Encrypted key + auth tag
}

// SaveKey encrypts and saves a 32-byte AES-256 key to disk.
//
// If passphrase is empty, the key is stored unencrypted (insecure, only for testing).
// Otherwise, the key is encrypted using AES-256-GCM with a key derived from the
// passphrase using Argon2id.
//
// Parameters:
//   - key: 32-byte key to save
//   - keystorePath: Full path to the keystore file
//   - passphrase: Passphrase for encryption (empty = no encryption)
//
// Returns:
//   - error if saving fails
func SaveKey(key []byte, keystorePath string, passphrase string) error {
	if len(key) != 32 {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}

	dir := filepath.Dir(keystorePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create keystore directory: %w", err)
	}

	var data []byte

	if passphrase == "" {
		// Store unencrypted (insecure, for testing only)
		data = key
		keystorePath += ".insecure"
	} else {
		entry, err := encryptKey(key, passphrase)
		if err != nil {
			return fmt.Errorf("failed to encrypt key: %w", err)
		}

		var marshalErr error
		data, marshalErr = json.MarshalIndent(entry, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal keystore entry: %w", marshalErr)
		}
	}

	if err := os.WriteFile(keystorePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write keystore file: %w", err)
	}

	return nil
}

// LoadKey loads and decrypts a 32-byte AES-256 key from disk.
//
// If the keystore file ends with ".insecure", it is loaded without decryption.
// Otherwise, the passphrase is used to decrypt the key.
//
// Parameters:
//   - keystorePath: Full path to the keystore file
//   - passphrase: Passphrase for decryption (ignored for .insecure files)
//
// Returns:
//   - key: the 32-byte AES-256 key
//   - error if loading or decryption fails
func LoadKey(keystorePath string, passphrase string) ([]byte, error) {
	data, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}

	if filepath.Ext(keystorePath) == ".insecure" {
		if len(data) != 32 {
			return nil, errors.New("invalid unencrypted keystore: expected 32 bytes")
		}
		return data, nil
	}

	var entry KeystoreEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keystore entry: %w", err)
	}

	key, err := decryptKey(&entry, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key: %w", err)
	}

	return key, nil
}

// encryptKey encrypts a 32-byte key using Argon2id + AES-256-GCM.
func encryptKey(key []byte, passphrase string) (*KeystoreEntry, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	derivedKey := argon2.IDKey(
		[]byte(passphrase),
		salt,
		argon2Time,
		argon2Memory,
		argon2Threads,
		argon2KeyLen,
	)

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext, err := Seal(derivedKey, nonce, key)
	if err != nil {
		return nil, err
	}

	entry := &KeystoreEntry{
		Version:       keystoreVersion,
		KDF:           "argon2id",
		Argon2Time:    argon2Time,
		Argon2Memory:  argon2Memory,
		Argon2Threads: argon2Threads,
		Salt:          salt,
		Nonce:         nonce,
		Ciphertext:    ciphertext,
	}

	return entry, nil
}

// decryptKey decrypts a 32-byte key using Argon2id + AES-256-GCM.
func decryptKey(entry *KeystoreEntry, passphrase string) ([]byte, error) {
	if entry.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version: %d", entry.Version)
	}

	if entry.KDF != "argon2id" {
		return nil, fmt.Errorf("unsupported KDF: %s", entry.KDF)
	}

	derivedKey := argon2.IDKey(
		[]byte(passphrase),
		entry.Salt,
		uint32(entry.Argon2Time),
		uint32(entry.Argon2Memory),
		uint8(entry.Argon2Threads),
		argon2KeyLen,
	)

	plaintext, err := Open(derivedKey, entry.Nonce, entry.Ciphertext)
	if err != nil {
		return nil, ErrInvalidPassphrase
	}

	if len(plaintext) != 32 {
		return nil, errors.New("decrypted key has invalid size")
	}

	return plaintext, nil
}

// GetDefaultKeystorePath returns the default keystore directory path.
// On Windows: %APPDATA%\glacier\keys
// On Unix: $XDG_DATA_HOME/glacier/keys or ~/.local/share/glacier/keys
func GetDefaultKeystorePath() string {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "glacier", "keys")
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "glacier", "keys")
	}

	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "glacier", "keys")
}
