// Package report writes the per-scan CSV summary.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Row is one processed file's outcome.
type Row struct {
	FileName  string
	Status    string // "valid", "initialized", "corrupted", or "error"
	Signature string // hex root; empty when Status is "error"
}

// Write emits rows to <reportsRoot>/<YYYY-MM-DD>/<HH-MM-SS>.csv and
// returns the path written.
func Write(reportsRoot string, rows []Row, now time.Time) (string, error) {
	dayDir := filepath.Join(reportsRoot, now.Format("2006-01-02"))
	if err := os.MkdirAll(dayDir, 0o700); err != nil {
		return "", fmt.Errorf("report: failed to create report directory: %w", err)
	}

	path := filepath.Join(dayDir, now.Format("15-04-05")+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: failed to create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"file", "status", "signature"}); err != nil {
		return "", fmt.Errorf("report: failed to write header: %w", err)
	}

	for _, row := range rows {
		if err := w.Write([]string{row.FileName, row.Status, row.Signature}); err != nil {
			return "", fmt.Errorf("report: failed to write row for %s: %w", row.FileName, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("report: failed to flush report: %w", err)
	}

	return path, nil
}
