// Package log is a tiny package-level shim around logrus: a handful of
// free functions wrapping one shared logger so callers never import
// logrus directly.
package log

import "github.com/sirupsen/logrus"

var logger = logrus.New()

func init() {
	logger.SetLevel(logrus.WarnLevel)
}

// SetLevel controls verbosity; the refactor loop logs pivot selection at
// Debug, so tests or callers that want a trace should raise it.
func SetLevel(level logrus.Level) {
	logger.SetLevel(level)
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}
