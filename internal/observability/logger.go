package observability

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// ServiceLogger adapts a logrus entry to the narrow Info/Error interface the
// application services depend on.
type ServiceLogger struct {
	entry *logrus.Entry
}

func NewServiceLogger(logger logrus.FieldLogger, component string) *ServiceLogger {
	return &ServiceLogger{entry: logger.WithField("component", component)}
}

func (l *ServiceLogger) Info(msg string) {
	l.entry.Info(msg)
}

func (l *ServiceLogger) Error(msg string) {
	l.entry.Error(msg)
}
