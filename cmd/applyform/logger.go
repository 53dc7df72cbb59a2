package main

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/npratt/applyform/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DebugLogName is the TUI debug log written beside the activity log.
const DebugLogName = "applyform-debug.log"

// TUILoggerResult contains the results of setting up logging for TUI mode.
type TUILoggerResult struct {
	Logger   *slog.Logger
	LogFile  io.WriteCloser
	FilePath string
}

// Close closes the log file if it was opened.
func (r *TUILoggerResult) Close() error {
	if r.LogFile != nil {
		return r.LogFile.Close()
	}
	return nil
}

// SetupTUILogger creates a logger that writes to a rotating file instead of stderr,
// so log output never lands on top of the full-screen form.
func SetupTUILogger(logDir string, level slog.Leveler, rotationCfg config.LogRotationConfig) *TUILoggerResult {
	debugLogPath := filepath.Join(logDir, DebugLogName)

	debugLogWriter := &lumberjack.Logger{
		Filename:   debugLogPath,
		MaxSize:    rotationCfg.MaxSizeMB,
		MaxBackups: rotationCfg.MaxBackups,
		MaxAge:     rotationCfg.MaxAgeDays,
		Compress:   rotationCfg.Compress,
	}

	return &TUILoggerResult{
		Logger:   SetupTUILoggerWithWriter(debugLogWriter, level),
		LogFile:  debugLogWriter,
		FilePath: debugLogPath,
	}
}

// SetupTUILoggerWithWriter creates a logger that writes to the given writer.
func SetupTUILoggerWithWriter(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
