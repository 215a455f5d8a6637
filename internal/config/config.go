// Package config loads Glacier's environment-driven configuration.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/neotoxic-off/glacier/internal/validation"
)

// Default directory names, mirroring the Rust agent's process-wide
// constants (utils/constants.rs) as explicit configuration instead of
// ambient globals.
const (
	DefaultGlacierDirectory = "/glacier"
	DefaultReportDirectory  = "/glacier-reports"
	DefaultLogDirectory     = "/glacier-logs"
)

// EncryptionKeySize is the required size, in bytes, of the at-rest
// encryption key (AES-256).
const EncryptionKeySize = 32

// Config holds everything the scan orchestrator needs to run one pass.
type Config struct {
	StorageDirectory string
	EncryptionKey    []byte // decoded, EncryptionKeySize bytes
	GlacierDirectory string
	ReportDirectory  string
	LogDirectory     string
	CatalogDBPath    string

	JaegerEndpoint string // optional; tracing disabled when empty
}

// Load reads configuration from the environment. A ".env" file in the
// working directory is loaded first, if present, without overriding
// variables already set in the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	storageDir, ok := os.LookupEnv("STORAGE_DIRECTORY")
	if !ok {
		return nil, fmt.Errorf("STORAGE_DIRECTORY not set")
	}
	if err := validation.ValidateStringNonEmpty(storageDir); err != nil {
		return nil, fmt.Errorf("STORAGE_DIRECTORY: %w", err)
	}
	if err := validation.ValidateFilePath(storageDir, true); err != nil {
		return nil, fmt.Errorf("STORAGE_DIRECTORY: %w", err)
	}

	keyHex, ok := os.LookupEnv("ENCRYPTION_KEY")
	if !ok {
		return nil, fmt.Errorf("ENCRYPTION_KEY not set")
	}
	if err := validation.ValidateStringNonEmpty(keyHex); err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY: %w", err)
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if err := validation.ValidateRangeInt(len(key), EncryptionKeySize, EncryptionKeySize); err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must decode to %d bytes: %w", EncryptionKeySize, err)
	}

	glacierDir := envOrDefault("GLACIER_DIRECTORY", DefaultGlacierDirectory)
	reportDir := envOrDefault("REPORT_DIRECTORY", DefaultReportDirectory)
	logDir := envOrDefault("LOG_DIRECTORY", DefaultLogDirectory)
	catalogPath := envOrDefault("CATALOG_DB_PATH", filepath.Join(glacierDir, "catalog.db"))

	return &Config{
		StorageDirectory: storageDir,
		EncryptionKey:    key,
		GlacierDirectory: glacierDir,
		ReportDirectory:  reportDir,
		LogDirectory:     logDir,
		CatalogDBPath:    catalogPath,
		JaegerEndpoint:   os.Getenv("JAEGER_ENDPOINT"),
	}, nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
