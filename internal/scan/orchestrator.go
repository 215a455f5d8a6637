// Package scan implements the Scan Orchestrator: one pass over a
// protected directory, enrolling files seen for the first time and
// verifying ones with an existing signature. Grounded on
// original_source/agent/src/core/core.rs's per-file enroll-or-verify
// loop.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/neotoxic-off/glacier/internal/catalog"
	"github.com/neotoxic-off/glacier/internal/crypto"
	"github.com/neotoxic-off/glacier/internal/observability"
	"github.com/neotoxic-off/glacier/internal/report"
	"github.com/neotoxic-off/glacier/internal/signature"
)

// Status is the terminal outcome recorded for one file in a scan.
type Status string

const (
	StatusValid       Status = "valid"
	StatusInitialized Status = "initialized"
	StatusCorrupted   Status = "corrupted"
	StatusError       Status = "error"
)

// Result is one file's outcome, keyed by Status and an optional
// human-readable detail (the signature for the report, or a message
// for errors).
type Result struct {
	FileName  string
	Status    Status
	Signature string
	Err       error
}

// Orchestrator ties the Signature Engine, Catalog Store, optional
// Crypto Helper, and observability together into a single directory
// scan. The crypto helper and encrypted-copy directory are optional;
// when either is unset, enrollment skips producing an at-rest copy.
type Orchestrator struct {
	StorageDirectory string
	ReportDirectory  string
	EncryptedCopyDir string // optional; empty disables at-rest encryption

	Store  catalog.Store
	Crypto crypto.Helper // optional

	Logger  *observability.Logger
	Metrics *observability.Metrics
}

// Run performs one scan: enumerate the storage directory, enroll or
// verify every regular file found, write the CSV report, and return
// the per-file results plus the report path. Directory-listing failure
// aborts the entire scan; per-file errors do not.
func (o *Orchestrator) Run(ctx context.Context) ([]Result, string, error) {
	start := time.Now()
	scanID := uuid.New().String()

	logger := o.Logger
	if logger != nil {
		logger = logger.WithScan(scanID)
	}

	entries, err := os.ReadDir(o.StorageDirectory)
	if err != nil {
		if logger != nil {
			logger.Error(err, "directory listing failed: aborting scan")
		}
		return nil, "", fmt.Errorf("scan: failed to list %s: %w", o.StorageDirectory, err)
	}

	results := make([]Result, 0, len(entries))
	rows := make([]report.Row, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		result := o.processFile(ctx, entry.Name(), logger)
		results = append(results, result)
		rows = append(rows, report.Row{
			FileName:  result.FileName,
			Status:    string(result.Status),
			Signature: result.Signature,
		})

		if o.Metrics != nil {
			o.Metrics.RecordFile(string(result.Status))
		}
	}

	path, err := report.Write(o.ReportDirectory, rows, time.Now())
	if err != nil {
		return results, "", fmt.Errorf("scan: failed to write report: %w", err)
	}

	if logger != nil {
		logger.ScanCompleted(len(results), count(results, StatusValid), count(results, StatusInitialized), count(results, StatusCorrupted), count(results, StatusError), time.Since(start))
	}
	if o.Metrics != nil {
		o.Metrics.RecordScan(time.Since(start).Seconds())
	}

	return results, path, nil
}

func (o *Orchestrator) processFile(ctx context.Context, fileName string, logger *observability.Logger) Result {
	path := filepath.Join(o.StorageDirectory, fileName)

	record, err := o.Store.Load(ctx, fileName)
	if o.Metrics != nil {
		o.Metrics.RecordCatalogOperation("load", err == nil || errors.Is(err, catalog.ErrNotFound))
	}

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return o.enroll(ctx, path, fileName, logger)
	case err != nil:
		if logger != nil {
			logger.FileErrored(fileName, err)
		}
		return Result{FileName: fileName, Status: StatusError, Err: err}
	default:
		return o.verify(path, fileName, record, logger)
	}
}

func (o *Orchestrator) enroll(ctx context.Context, path, fileName string, logger *observability.Logger) Result {
	rootHex, leavesHex, boundaries, err := signature.GenerateWithLeaves(path)
	if err != nil {
		if logger != nil {
			logger.FileErrored(fileName, err)
		}
		return Result{FileName: fileName, Status: StatusError, Err: err}
	}

	record := signature.Record{
		FileName:       fileName,
		Root:           rootHex,
		Leaves:         leavesHex,
		ChunkPositions: boundaries,
		ScannedAt:      time.Now(),
	}

	if err := o.Store.Save(ctx, record); err != nil {
		if logger != nil {
			logger.FileErrored(fileName, err)
		}
		if o.Metrics != nil {
			o.Metrics.RecordCatalogOperation("save", false)
		}
		return Result{FileName: fileName, Status: StatusError, Err: err}
	}
	if o.Metrics != nil {
		o.Metrics.RecordCatalogOperation("save", true)
		o.Metrics.RecordChunks(len(leavesHex))
	}

	if o.Crypto != nil && o.EncryptedCopyDir != "" {
		if err := o.writeEncryptedCopy(path, fileName); err != nil && logger != nil {
			logger.Warn(fmt.Sprintf("encrypted copy for %s failed: %v", fileName, err))
		}
	}

	if logger != nil {
		logger.FileInitialized(fileName)
	}
	return Result{FileName: fileName, Status: StatusInitialized, Signature: rootHex}
}

func (o *Orchestrator) verify(path, fileName string, record signature.Record, logger *observability.Logger) Result {
	corrupted, ambiguous, err := signature.CheckBrokenChunks(path, record.Root, record.Leaves, record.ChunkPositions)
	if err != nil {
		if logger != nil {
			logger.FileErrored(fileName, err)
		}
		return Result{FileName: fileName, Status: StatusError, Err: err}
	}

	if len(corrupted) == 0 {
		if logger != nil {
			logger.FileValid(fileName)
		}
		return Result{FileName: fileName, Status: StatusValid, Signature: record.Root}
	}

	if ambiguous && logger != nil {
		logger.FileAmbiguousMismatch(fileName)
	}
	if logger != nil {
		logger.FileCorrupted(fileName, corrupted)
	}
	return Result{FileName: fileName, Status: StatusCorrupted, Signature: record.Root}
}

func (o *Orchestrator) writeEncryptedCopy(path, fileName string) error {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scan: failed to read %s for encryption: %w", fileName, err)
	}

	ciphertext, err := o.Crypto.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("scan: failed to encrypt %s: %w", fileName, err)
	}
	if o.Metrics != nil {
		o.Metrics.RecordCryptoOperation("encrypt")
	}

	if err := os.MkdirAll(o.EncryptedCopyDir, 0o700); err != nil {
		return fmt.Errorf("scan: failed to create encrypted copy directory: %w", err)
	}

	dest := filepath.Join(o.EncryptedCopyDir, fileName+".enc")
	if err := os.WriteFile(dest, ciphertext, 0o600); err != nil {
		return fmt.Errorf("scan: failed to write encrypted copy of %s: %w", fileName, err)
	}

	return nil
}

func count(results []Result, status Status) int {
	n := 0
	for _, r := range results {
		if r.Status == status {
			n++
		}
	}
	return n
}
