package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"STORAGE_DIRECTORY", "ENCRYPTION_KEY", "GLACIER_DIRECTORY", "REPORT_DIRECTORY", "LOG_DIRECTORY", "CATALOG_DB_PATH", "JAEGER_ENDPOINT"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoad_MissingStorageDirectory(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	require.ErrorContains(t, err, "STORAGE_DIRECTORY")
}

func TestLoad_MissingEncryptionKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DIRECTORY", t.TempDir())
	_, err := Load()
	require.ErrorContains(t, err, "ENCRYPTION_KEY")
}

func TestLoad_InvalidEncryptionKeyLength(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DIRECTORY", t.TempDir())
	t.Setenv("ENCRYPTION_KEY", hex.EncodeToString([]byte("too short")))
	_, err := Load()
	require.ErrorContains(t, err, "32 bytes")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	key := make([]byte, EncryptionKeySize)
	t.Setenv("STORAGE_DIRECTORY", dir)
	t.Setenv("ENCRYPTION_KEY", hex.EncodeToString(key))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, dir, cfg.StorageDirectory)
	require.Equal(t, DefaultGlacierDirectory, cfg.GlacierDirectory)
	require.Equal(t, DefaultReportDirectory, cfg.ReportDirectory)
	require.Equal(t, DefaultLogDirectory, cfg.LogDirectory)
	require.Equal(t, filepath.Join(DefaultGlacierDirectory, "catalog.db"), cfg.CatalogDBPath)
}

func TestLoad_StorageDirectoryMustExist(t *testing.T) {
	clearEnv(t)
	key := make([]byte, EncryptionKeySize)
	t.Setenv("STORAGE_DIRECTORY", filepath.Join(t.TempDir(), "does-not-exist"))
	t.Setenv("ENCRYPTION_KEY", hex.EncodeToString(key))

	_, err := Load()
	require.Error(t, err)
}
