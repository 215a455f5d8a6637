package observability

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// logTimeLayout matches the `YYYY-MM-DD HH:MM:SS [LEVEL] - message` line
// format: scan output is read by operators tailing a file, not by a log
// aggregator, so it stays human-first rather than switching to JSON.
const logTimeLayout = "2006-01-02 15:04:05"

// Logger wraps zerolog for structured logging, rendered in the
// timestamped bracket-level style the scan report expects.
type Logger struct {
	logger zerolog.Logger
	file   *os.File
}

// NewLogger creates a logger that writes to stdout and, when
// logDirectory is non-empty, to a dated rolling file under it.
func NewLogger(service, version, logDirectory string) (*Logger, error) {
	zerolog.TimeFieldFormat = logTimeLayout

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: logTimeLayout,
			NoColor:    true,
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("[%s]", formatLevel(i))
			},
			FormatMessage: func(i interface{}) string {
				return fmt.Sprintf("- %s", i)
			},
		},
	}

	var file *os.File
	if logDirectory != "" {
		if err := os.MkdirAll(logDirectory, 0o700); err != nil {
			return nil, fmt.Errorf("observability: failed to create log directory: %w", err)
		}

		logPath := filepath.Join(logDirectory, time.Now().Format("2006-01-02")+".log")
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("observability: failed to open log file: %w", err)
		}
		file = f
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: logTimeLayout,
			NoColor:    true,
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("[%s]", formatLevel(i))
			},
			FormatMessage: func(i interface{}) string {
				return fmt.Sprintf("- %s", i)
			},
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Logger()

	return &Logger{logger: logger, file: file}, nil
}

func formatLevel(i interface{}) string {
	s, ok := i.(string)
	if !ok {
		return "INFO"
	}
	switch s {
	case "debug":
		return "DEBUG"
	case "info":
		return "INFO"
	case "warn":
		return "WARN"
	case "error":
		return "ERROR"
	case "fatal":
		return "FATAL"
	default:
		return "INFO"
	}
}

// Close releases the underlying log file, if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// WithFile adds file context to logger.
func (l *Logger) WithFile(fileName string) *Logger {
	return &Logger{
		logger: l.logger.With().Str("file", fileName).Logger(),
		file:   l.file,
	}
}

// WithScan adds a scan_id field, correlating every log line emitted
// during one Orchestrator.Run.
func (l *Logger) WithScan(scanID string) *Logger {
	return &Logger{
		logger: l.logger.With().Str("scan_id", scanID).Logger(),
		file:   l.file,
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(err error, msg string) {
	l.logger.Fatal().Err(err).Msg(msg)
}

// FileInitialized logs a newly-enrolled file (WARN per the log-level
// contract: initialized files have no prior baseline to trust yet).
func (l *Logger) FileInitialized(fileName string) {
	l.logger.Warn().Str("file", fileName).Msg("file initialized: no prior signature found")
}

// FileValid logs a file whose stored signature matched.
func (l *Logger) FileValid(fileName string) {
	l.logger.Info().Str("file", fileName).Msg("file valid: signature matches")
}

// FileCorrupted logs a file with one or more broken chunks.
func (l *Logger) FileCorrupted(fileName string, brokenChunks []int) {
	l.logger.Error().
		Str("file", fileName).
		Ints("broken_chunks", brokenChunks).
		Msg("file corrupted: signature mismatch")
}

// FileAmbiguousMismatch logs a root mismatch that could not be localized
// to specific chunks.
func (l *Logger) FileAmbiguousMismatch(fileName string) {
	l.logger.Warn().Str("file", fileName).Msg("ambiguous mismatch: root differs but no chunk boundary localized it")
}

// FileErrored logs a file that could not be processed.
func (l *Logger) FileErrored(fileName string, err error) {
	l.logger.Error().Str("file", fileName).Err(err).Msg("file errored during scan")
}

// ScanCompleted logs the end-of-scan summary line.
func (l *Logger) ScanCompleted(total, valid, initialized, corrupted, errored int, duration time.Duration) {
	l.logger.Info().
		Int("files_total", total).
		Int("files_valid", valid).
		Int("files_initialized", initialized).
		Int("files_corrupted", corrupted).
		Int("files_errored", errored).
		Float64("duration_seconds", duration.Seconds()).
		Msg("scan completed")
}
