package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	logDir          = "logs"
	fileBufferSize  = 32 * 1024
	consoleFallback = "console"
)

// NewLogger writes JSON lines to logs/<component>.log through an async
// buffered writer and mirrors every entry on stdout. When the log file
// cannot be opened the logger stays console only. The returned closer flushes
// pending lines.
func NewLogger(component string) (*logrus.Logger, io.Closer) {
	logger := newJSONLogger()

	logFile := filepath.Clean(filepath.Join(logDir, component+".log"))
	if !strings.HasPrefix(logFile, logDir+string(filepath.Separator)) {
		logger.SetOutput(os.Stdout)
		logger.WithField("component", component).Warn("invalid log file name, logging to " + consoleFallback)
		return logger, io.NopCloser(nil)
	}

	writer, err := openLogFile(logFile)
	if err != nil {
		logger.SetOutput(os.Stdout)
		logger.WithError(err).Warn("failed to open log file, logging to " + consoleFallback)
		return logger, io.NopCloser(nil)
	}

	logger.SetOutput(writer)
	logger.AddHook(NewConsoleHook(os.Stdout))
	return logger, writer
}

// NewConsoleLogger is used by one-shot commands that should not leave log
// files behind.
func NewConsoleLogger(w io.Writer) *logrus.Logger {
	logger := newJSONLogger()
	logger.SetOutput(w)
	return logger
}

func newJSONLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(levelFromEnv())
	return logger
}

func levelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func openLogFile(path string) (*AsyncFileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	return NewAsyncFileWriter(path, fileBufferSize)
}
