// Package logging builds the shell's structured, file-only logger. Log
// output never reaches the terminal: a command's stdout/stderr bytes are
// a tested, byte-exact contract and must never be contaminated by
// diagnostic output.
package logging

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// NewSessionID returns a fresh UUID used to correlate every log entry
// emitted by one shell process.
func NewSessionID() string {
	return uuid.NewString()
}

// New builds a *zap.SugaredLogger that writes JSON lines to a rotating
// file at path (100MB per file, 3 backups, 28 days), tagged with
// sessionID on every entry. level is one of "debug", "info", "warn",
// "error" (anything else falls back to "info"). The returned sync func
// flushes the logger's buffers and should be called before process exit.
func New(path, level, sessionID string) (*zap.SugaredLogger, func() error, error) {
	if path == "" {
		return zap.NewNop().Sugar(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(rotator),
		parseLevel(level),
	)

	logger := zap.New(core).With(zap.String("session_id", sessionID)).Sugar()
	return logger, func() error { _ = logger.Sync(); return rotator.Close() }, nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
