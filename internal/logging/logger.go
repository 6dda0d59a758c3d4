package logging

import (
	"github.com/sirupsen/logrus"
)

// NewLogger creates a JSON-formatted logger at the given level, with a
// service field on every entry.
func NewLogger(service, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger.WithField("service", service).Logger
}
