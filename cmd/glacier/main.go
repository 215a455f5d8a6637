package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/neotoxic-off/glacier/internal/catalog"
	"github.com/neotoxic-off/glacier/internal/config"
	"github.com/neotoxic-off/glacier/internal/crypto"
	"github.com/neotoxic-off/glacier/internal/observability"
	"github.com/neotoxic-off/glacier/internal/scan"
)

func main() {
	encryptCopies := flag.Bool("encrypt-copies", false, "Write an encrypted at-rest copy of every newly enrolled file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "glacier: configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger("glacier", "dev", cfg.LogDirectory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glacier: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	metrics := observability.NewMetrics()

	if cfg.JaegerEndpoint != "" {
		os.Setenv("OTEL_EXPORTER_JAEGER_ENDPOINT", cfg.JaegerEndpoint)
	}
	shutdownTracing, err := observability.InitTracing(context.Background(), "glacier")
	if err != nil {
		logger.Warn(fmt.Sprintf("tracing disabled: %v", err))
	} else {
		defer shutdownTracing(context.Background())
	}

	store, err := catalog.OpenBoltStore(cfg.CatalogDBPath)
	if err != nil {
		logger.Fatal(err, "failed to open catalog store")
	}
	defer store.Close()

	orchestrator := &scan.Orchestrator{
		StorageDirectory: cfg.StorageDirectory,
		ReportDirectory:  cfg.ReportDirectory,
		Store:            store,
		Logger:           logger,
		Metrics:          metrics,
	}

	if *encryptCopies {
		helper, err := crypto.NewAESHelper(cfg.EncryptionKey)
		if err != nil {
			logger.Fatal(err, "failed to initialize encryption helper")
		}
		orchestrator.Crypto = helper
		orchestrator.EncryptedCopyDir = cfg.GlacierDirectory
	}

	results, reportPath, err := orchestrator.Run(context.Background())
	if err != nil {
		logger.Fatal(err, "scan aborted")
	}

	corrupted := 0
	for _, r := range results {
		if r.Status == scan.StatusCorrupted {
			corrupted++
		}
	}

	fmt.Printf("scanned %d files, %d corrupted, report: %s\n", len(results), corrupted, reportPath)

	if corrupted > 0 {
		os.Exit(2)
	}
}
