package observability

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesRollingFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger("glacier", "test", dir)
	require.NoError(t, err)
	defer logger.Close()

	logger.FileValid("alpha.bin")
	logger.FileInitialized("beta.bin")
	logger.FileCorrupted("gamma.bin", []int{2, 5})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	require.Contains(t, string(data), "alpha.bin")
	require.Contains(t, string(data), "beta.bin")
	require.Contains(t, string(data), "gamma.bin")
}

func TestNewLogger_NoDirectorySkipsFile(t *testing.T) {
	logger, err := NewLogger("glacier", "test", "")
	require.NoError(t, err)
	defer logger.Close()

	logger.Info("no file backing this logger")
}

func TestMetrics_RecordFile(t *testing.T) {
	m := NewMetrics()
	m.RecordFile("valid")
	m.RecordFile("corrupted")
	m.RecordScan(1.5)
	m.RecordChunks(42)
	m.RecordCatalogOperation("save", true)
	m.RecordCryptoOperation("encrypt")
}

func TestHealthChecker_AggregatesWorstStatus(t *testing.T) {
	hc := NewHealthChecker("test")
	hc.RegisterCheck("catalog", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: HealthStatusOK}
	})
	hc.RegisterCheck("keystore", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: HealthStatusDegraded}
	})

	response := hc.Check(context.Background())
	require.Equal(t, HealthStatusDegraded, response.Status)
}

func TestKeystoreCheck(t *testing.T) {
	loaded := KeystoreCheck(true)(context.Background())
	require.Equal(t, HealthStatusOK, loaded.Status)

	missing := KeystoreCheck(false)(context.Background())
	require.Equal(t, HealthStatusDegraded, missing.Status)
}

func TestCatalogCheck_MissingPathIsHealthy(t *testing.T) {
	dir := t.TempDir()
	check := CatalogCheck(filepath.Join(dir, "does-not-exist.db"))
	result := check(context.Background())
	require.Equal(t, HealthStatusOK, result.Status)
}
