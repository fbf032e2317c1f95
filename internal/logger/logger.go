package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Encodings accepted by Init.
const (
	ConsoleEncoding = "console"
	JSONEncoding    = "json"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Init configures the process logger. Only the first call to Init or Get
// takes effect.
func Init(level, encoding string) *Logger {
	once.Do(func() {
		globalLogger = New(level, encoding)
	})
	return globalLogger
}

// Get returns the process logger, creating a console logger at level if
// Init has not run yet.
func Get(level string) *Logger {
	return Init(level, ConsoleEncoding)
}
