// Package log wraps logrus behind a small Logger interface so the rest of
// the module never imports a logging library directly.
package log

import "sync"

type Logger interface {
	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsDebugEnabled() bool
}

var (
	mu     sync.Mutex
	logger Logger
)

// GetLogger returns the process logger, initializing a default console
// logger on first use when Init was never called.
func GetLogger() Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		l, _ := build(DefaultConfig())
		logger = l
	}
	return logger
}

// Init configures the process logger. Later calls replace the logger, so
// the CLI can re-init after flags are parsed.
func Init(cfg *LoggerConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l, err := build(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}
