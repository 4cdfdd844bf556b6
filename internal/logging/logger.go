package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var (
	loggerInstance *Logger
	loggerOnce     sync.Once
)

// Logger provides component-scoped printf-style logging to stderr and an
// optional debug log file.
type Logger struct {
	file      *os.File
	fileLog   *log.Logger
	level     LogLevel
	mu        *sync.Mutex
	component string
}

// GetLogger returns the singleton logger instance.
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		loggerInstance = newLogger("", INFO)
	})
	return loggerInstance
}

// NewComponentLogger creates a logger for a specific component sharing the
// singleton's sinks.
func NewComponentLogger(component string) *Logger {
	base := GetLogger()
	return &Logger{
		file:      base.file,
		fileLog:   base.fileLog,
		level:     base.level,
		mu:        base.mu,
		component: component,
	}
}

func newLogger(component string, level LogLevel) *Logger {
	l := &Logger{
		level:     level,
		component: component,
		mu:        &sync.Mutex{},
	}

	if os.Getenv("DEEPSEARCH_DEBUG") != "" {
		l.level = DEBUG
	}

	dir := os.Getenv("DEEPSEARCH_LOG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return l
		}
		dir = home
	}

	logPath := filepath.Join(dir, "deepsearch-debug.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("Failed to open log file: %v", err)
		return l
	}

	l.file = file
	l.fileLog = log.New(file, "", 0) // we format ourselves
	return l
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	} else {
		file = "???"
		line = 0
	}

	// Format: 2025-09-30 12:34:56 [INFO] [Component] file.go:123 - Message
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	component := l.component
	if component == "" {
		component = "DeepSearch"
	}

	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("%s [%s] [%s] %s:%d - %s\n",
		timestamp, levelToString(level), component, file, line, maskSecrets(message))

	if l.fileLog != nil {
		l.fileLog.Print(logLine)
	}
	fmt.Fprint(os.Stderr, logLine)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

func levelToString(level LogLevel) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var bearerTokenPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/-]{8,}=*`)

// maskSecrets strips credential material from log output.
func maskSecrets(line string) string {
	return bearerTokenPattern.ReplaceAllString(line, "${1}(hidden)")
}
