package logger

import "log"

// Level is the minimum severity a DefaultLogger prints.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel maps a LOG_LEVEL value to a Level, defaulting to InfoLevel.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger is the leveled logger injected into services, jobs and the availability checker.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// DefaultLogger implements Logger on top of the log package.
type DefaultLogger struct {
	level Level
}

// NewDefaultLogger creates a DefaultLogger that drops messages below level.
func NewDefaultLogger(level Level) *DefaultLogger {
	return &DefaultLogger{
		level: level,
	}
}

func (l *DefaultLogger) Info(format string, v ...interface{}) {
	if l.level <= InfoLevel {
		log.Printf("[INFO] "+format, v...)
	}
}

func (l *DefaultLogger) Warn(format string, v ...interface{}) {
	if l.level <= WarnLevel {
		log.Printf("[WARN] "+format, v...)
	}
}

func (l *DefaultLogger) Error(format string, v ...interface{}) {
	if l.level <= ErrorLevel {
		log.Printf("[ERROR] "+format, v...)
	}
}

func (l *DefaultLogger) Debug(format string, v ...interface{}) {
	if l.level <= DebugLevel {
		log.Printf("[DEBUG] "+format, v...)
	}
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Debug(string, ...interface{}) {}
