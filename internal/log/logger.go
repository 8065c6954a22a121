package log

import (
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// NewLogger constructs a logrus logger with JSON output at the provided level.
func NewLogger(level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.SetReportCaller(false)
	logger.SetLevel(logrus.InfoLevel)

	if level == "" {
		return logger, nil
	}

	parsedLevel, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, eris.Wrapf(err, "invalid log level: %s", level)
	}

	logger.SetLevel(parsedLevel)
	return logger, nil
}

// Discard returns a logger that drops every entry, for tests and one-shot tools.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
