package logging

import (
	"io"
	"log"
)

// SetOutput redirects all levels, e.g. to a file while the terminal UI owns stdout.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Info logs an info-level message.
func Info(format string, v ...any) {
	log.Printf("[INFO] "+format, v...)
}

// Warn logs a warning-level message.
func Warn(format string, v ...any) {
	log.Printf("[WARN] "+format, v...)
}

// Error logs an error-level message.
func Error(format string, v ...any) {
	log.Printf("[ERROR] "+format, v...)
}

// Fatal logs a fatal error and exits.
func Fatal(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}
