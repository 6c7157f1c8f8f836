// internal/logger/logger.go
package logger

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogFile       string
	Debug         bool
	FlushInterval time.Duration
	JournalSize   int
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		LogFile:       "sniper.log",
		FlushInterval: time.Second,
		JournalSize:   1000,
	}
}

// Logger bundles the zap logger with its file sink and journal.
type Logger struct {
	*zap.Logger
	Events  *EventLogger
	file    *SafeFileWriter
	journal *Journal
}

// New builds a logger that mirrors every entry to a colorized console and
// appends it as JSON to the log file.
func New(cfg Config) (*Logger, error) {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.JournalSize <= 0 {
		cfg.JournalSize = 1000
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	file, err := NewSafeFileWriter(cfg.LogFile, cfg.FlushInterval, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.MessageKey = "message"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	fileEncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewTee(
		NewCategoryCore(zapcore.NewCore(PrettyEncoder(), zapcore.Lock(os.Stdout), level)),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), file, level),
	)

	zl := zap.New(core)
	journal := NewJournal(cfg.JournalSize)

	return &Logger{
		Logger:  zl,
		Events:  NewEventLogger(zl, journal),
		file:    file,
		journal: journal,
	}, nil
}

// Journal returns the in-memory record journal.
func (l *Logger) Journal() *Journal {
	return l.journal
}

// Sync flushes zap and ignores the harmless errors returned for terminals.
func (l *Logger) Sync() error {
	err := l.Logger.Sync()
	if err != nil && (err.Error() == "sync /dev/stdout: invalid argument" ||
		err.Error() == "sync /dev/stdout: inappropriate ioctl for device") {
		return nil
	}
	return err
}

// Close flushes and closes the file sink.
func (l *Logger) Close() error {
	_ = l.Sync()
	return l.file.Close()
}
