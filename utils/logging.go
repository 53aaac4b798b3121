package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	logMu   sync.RWMutex
	logger  = log.New(io.Discard)
	logFile *os.File
)

// InitLogging points the package logger at an append-mode file. An empty path
// discards all output; the TUI owns stdout.
func InitLogging(path, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	var out io.Writer = io.Discard
	var f *os.File
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
	}

	l := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
		Prefix:          appName,
	})

	logMu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logger, logFile = l, f
	logMu.Unlock()
	return nil
}

// CloseLogging flushes and closes the log file
func CloseLogging() {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = log.New(io.Discard)
}

func Logger() *log.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

func Info(msg string, keyvals ...interface{})  { Logger().Info(msg, keyvals...) }
func Debug(msg string, keyvals ...interface{}) { Logger().Debug(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { Logger().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { Logger().Error(msg, keyvals...) }
