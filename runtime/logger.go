package runtime

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel orders log messages by severity. LogLevelOff silences everything.
type LogLevel int32

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelOff
)

// LogLevelEnvVar selects the initial level of the global logger.
const LogLevelEnvVar = "ION_LOG_LEVEL"

var levelNames = [...]string{
	LogLevelDebug: "DEBUG",
	LogLevelInfo:  "INFO",
	LogLevelWarn:  "WARN",
	LogLevelError: "ERROR",
	LogLevelOff:   "OFF",
}

// extra spellings accepted by ParseLogLevel
var levelAliases = map[string]LogLevel{
	"WARNING": LogLevelWarn,
	"NONE":    LogLevelOff,
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel accepts a level name in any case, ignoring surrounding space.
// On failure it returns LogLevelInfo along with the error.
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}
	if level, ok := levelAliases[name]; ok {
		return level, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level: %s", s)
}

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// DefaultLogger writes "[LEVEL] message" lines with a timestamp.
// The level can be changed while other goroutines are logging.
type DefaultLogger struct {
	level atomic.Int32
	out   *log.Logger
}

func NewLogger(output io.Writer, level LogLevel) *DefaultLogger {
	l := &DefaultLogger{out: log.New(output, "", log.LstdFlags)}
	l.level.Store(int32(level))
	return l
}

func (l *DefaultLogger) SetLevel(level LogLevel) { l.level.Store(int32(level)) }
func (l *DefaultLogger) GetLevel() LogLevel      { return LogLevel(l.level.Load()) }

func (l *DefaultLogger) Debug(format string, args ...any) { l.emit(LogLevelDebug, format, args) }
func (l *DefaultLogger) Info(format string, args ...any)  { l.emit(LogLevelInfo, format, args) }
func (l *DefaultLogger) Warn(format string, args ...any)  { l.emit(LogLevelWarn, format, args) }
func (l *DefaultLogger) Error(format string, args ...any) { l.emit(LogLevelError, format, args) }

func (l *DefaultLogger) emit(level LogLevel, format string, args []any) {
	if level < l.GetLevel() {
		return
	}
	// log.Logger serializes concurrent writes itself
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

var globalLogger Logger = NewLogger(os.Stderr, startupLevel())

// startupLevel is WARN unless ION_LOG_LEVEL says otherwise. Test binaries
// only show errors.
func startupLevel() LogLevel {
	if strings.HasSuffix(os.Args[0], ".test") {
		return LogLevelError
	}
	if level, err := ParseLogLevel(os.Getenv(LogLevelEnvVar)); err == nil {
		return level
	}
	return LogLevelWarn
}

// SetLogger replaces the global logger, returning the previous one.
func SetLogger(l Logger) Logger {
	old := globalLogger
	globalLogger = l
	return old
}

func SetLogLevel(level LogLevel) { globalLogger.SetLevel(level) }
func GetLogLevel() LogLevel      { return globalLogger.GetLevel() }

func Debug(format string, args ...any) { globalLogger.Debug(format, args...) }
func Info(format string, args ...any)  { globalLogger.Info(format, args...) }
func Warn(format string, args ...any)  { globalLogger.Warn(format, args...) }
func Error(format string, args ...any) { globalLogger.Error(format, args...) }
