package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogDirEnv overrides the log directory when set.
const LogDirEnv = "EDB_LOG_DIR"

// Level controls which entries a Logger writes.
type Level int

const (
	// LevelQuiet writes only warnings and errors.
	LevelQuiet Level = iota
	// LevelNormal adds informational entries (default).
	LevelNormal
	// LevelVerbose adds debug entries.
	LevelVerbose
	// LevelDebug adds the caller location to every entry.
	LevelDebug
)

var levelNames = map[string]Level{
	"quiet":   LevelQuiet,
	"normal":  LevelNormal,
	"verbose": LevelVerbose,
	"debug":   LevelDebug,
}

// ParseLevel maps a verbosity name to a Level. An empty name is LevelNormal.
func ParseLevel(name string) (Level, error) {
	if name == "" {
		return LevelNormal, nil
	}
	level, ok := levelNames[strings.ToLower(name)]
	if !ok {
		return LevelNormal, fmt.Errorf("invalid verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", name)
	}
	return level, nil
}

func (l Level) String() string {
	for name, level := range levelNames {
		if level == l {
			return name
		}
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Logger writes leveled, component-tagged entries to a run-specific file in
// ~/.edb/logs/ or to any io.Writer.
type Logger struct {
	runID     string
	component string
	level     Level
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	// runID identifies this process in log file names.
	runID     string
	runIDOnce sync.Once

	// logDir is the directory where log files are stored
	logDir string

	initOnce sync.Once
	initErr  error
)

func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// initLogDirectory ensures the log directory exists
func initLogDirectory() error {
	initOnce.Do(func() {
		dir := os.Getenv(LogDirEnv)
		if dir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				initErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			dir = filepath.Join(homeDir, ".edb", "logs")
		}

		if err := os.MkdirAll(dir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
		logDir = dir
	})
	return initErr
}

// NewLogger creates a file logger for a component at LevelNormal.
// The logger writes to ~/.edb/logs/<run-id>-session.log.
//
// If the log file cannot be opened it returns a logger writing to stderr
// together with the error, so callers can warn and carry on.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	id := getRunID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-session.log", id))

	// Append mode: every component of this run shares the file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return newFallbackLogger(component, fmt.Errorf("failed to open log file: %w", err)), err
	}

	return &Logger{
		runID:     id,
		component: component,
		level:     LevelNormal,
		file:      file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}, nil
}

// NewWriterLogger creates a logger writing to w.
func NewWriterLogger(w io.Writer, component string, level Level) *Logger {
	return &Logger{
		runID:     getRunID(),
		component: component,
		level:     level,
		logger:    log.New(w, "", 0),
	}
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return NewWriterLogger(io.Discard, "", LevelQuiet)
}

func newFallbackLogger(component string, err error) *Logger {
	l := NewWriterLogger(os.Stderr, component, LevelNormal)
	l.Warnf("failed to initialize file logging: %v; falling back to stderr", err)
	return l
}

// SetLevel changes the verbosity.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current verbosity.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// With returns a logger for another component sharing the same output.
func (l *Logger) With(component string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		runID:     l.runID,
		component: component,
		level:     l.level,
		logger:    l.logger,
		logPath:   l.logPath,
	}
}

func (l *Logger) write(min Level, tag, format string, v []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level < min {
		return
	}

	message := fmt.Sprintf(format, v...)
	if l.level >= LevelDebug {
		// skip write and the exported method
		if _, file, line, ok := runtime.Caller(2); ok {
			message = fmt.Sprintf("%s:%d: %s", filepath.Base(file), line, message)
		}
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	if l.component == "" {
		l.logger.Printf("[%s] [%s] %s", timestamp, tag, message)
		return
	}
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, tag, message)
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write(LevelVerbose, "DEBUG", format, v)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write(LevelNormal, "INFO", format, v)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(LevelQuiet, "WARN", format, v)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(LevelQuiet, "ERROR", format, v)
}

// RunID returns the identifier shared by every logger in this process.
func (l *Logger) RunID() string {
	return l.runID
}

// LogPath returns the path to the log file, or "" for writer loggers.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetLogDirectory returns the directory where logs are stored
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}
