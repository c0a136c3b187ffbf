package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// Logger wraps standard log with level-based output
type Logger struct {
	min   int
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
	debug *log.Logger
}

// NewLogger creates a new leveled logger. Messages below the given level
// ("DEBUG", "INFO", "WARN", "ERROR") are suppressed; unknown levels mean INFO.
func NewLogger(level string) *Logger {
	flags := log.Lmsgprefix
	return &Logger{
		min:   parseLevel(level),
		info:  log.New(os.Stdout, "[INFO]  ", flags),
		warn:  log.New(os.Stdout, "[WARN]  ", flags),
		error: log.New(os.Stderr, "[ERROR] ", flags),
		debug: log.New(os.Stdout, "[DEBUG] ", flags),
	}
}

func parseLevel(level string) int {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return levelDebug
	case "WARN", "WARNING":
		return levelWarn
	case "ERROR":
		return levelError
	default:
		return levelInfo
	}
}

func (l *Logger) prefix() string {
	return fmt.Sprintf(" %s ", time.Now().Format("15:04:05"))
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.min <= levelInfo {
		l.info.Printf(l.prefix()+msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.min <= levelWarn {
		l.warn.Printf(l.prefix()+msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...interface{}) {
	if l.min <= levelError {
		l.error.Printf(l.prefix()+msg, args...)
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.min <= levelDebug {
		l.debug.Printf(l.prefix()+msg, args...)
	}
}
