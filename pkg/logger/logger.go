package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
}

// Configure sets the level and formatter. Production gets JSON output.
func Configure(level string, production bool) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	if production {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}

// Logger exposes the underlying logrus instance for middleware wiring.
func Logger() *logrus.Logger {
	return log
}

func Info(format string, v ...interface{}) {
	log.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	log.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// LogTransitionError records a work transition whose follow-up failed.
func LogTransitionError(workID, action string, err error) {
	log.WithFields(logrus.Fields{
		"work_id": workID,
		"action":  action,
	}).Warnf("transition follow-up failed: %v", err)
}

func Fatal(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}
