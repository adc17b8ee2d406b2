package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Warn(action, message, requestID string, details map[string]interface{}, err error)
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	entry *logrus.Entry
}

func New(service, level string) Logger {
	return NewWithOutput(service, level, os.Stdout)
}

// NewWithOutput is New writing to out instead of stdout.
func NewWithOutput(service, level string, out io.Writer) Logger {
	hostname, _ := os.Hostname()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	base := &logrus.Logger{
		Out: out,
		Formatter: &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		},
		Hooks: make(logrus.LevelHooks),
		Level: lvl,
	}

	return &jsonLogger{
		entry: base.WithFields(logrus.Fields{
			"service":  service,
			"hostname": hostname,
		}),
	}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.with(action, requestID, details, nil).Info(message)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.with(action, requestID, details, nil).Debug(message)
}

func (l *jsonLogger) Warn(action, message, requestID string, details map[string]interface{}, err error) {
	l.with(action, requestID, details, err).Warn(message)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.with(action, requestID, details, err).Error(message)
}

func (l *jsonLogger) with(action, requestID string, details map[string]interface{}, err error) *logrus.Entry {
	fields := logrus.Fields{
		"action":     action,
		"request_id": requestID,
	}
	if len(details) > 0 {
		fields["details"] = details
	}
	if err != nil {
		fields["error"] = ErrorInfo{Msg: err.Error()}
	}
	return l.entry.WithFields(fields)
}
