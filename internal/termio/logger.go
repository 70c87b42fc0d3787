package termio

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name, in any case, to its LogLevel.
func ParseLevel(s string) (LogLevel, bool) {
	for l := LevelDebug; l <= LevelError; l++ {
		if strings.EqualFold(s, l.String()) {
			return l, true
		}
	}
	if strings.EqualFold(s, "warning") {
		return LevelWarning, true
	}
	return LevelInfo, false
}

// LogFormat defines the prefix style of log lines
type LogFormat int

const (
	LogFormatSymbols LogFormat = iota // ● ◆ ✓ ▲ ✗
	LogFormatTagged                   // [DEBUG] [INFO] [SUCCESS] [WARN] [ERROR]
	LogFormatPlain                    // No prefix
)

var symbolPrefixes = [...]string{
	LevelDebug:   "●",
	LevelInfo:    "◆",
	LevelSuccess: "✓",
	LevelWarning: "▲",
	LevelError:   "✗",
}

// levelColors are the SGR codes applied to whole lines.
var levelColors = [...]string{
	LevelDebug:   "35",
	LevelInfo:    "34",
	LevelSuccess: "32",
	LevelWarning: "33",
	LevelError:   "31",
}

// Logger writes levelled, optionally coloured lines to an IOManager
type Logger struct {
	io           *IOManager
	format       LogFormat
	minLevel     LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
	now          func() time.Time
}

// NewLogger creates a new logger bound to the given IOManager
func NewLogger(io *IOManager) *Logger {
	return &Logger{
		io:           io,
		format:       LogFormatSymbols,
		minLevel:     LevelInfo,
		timeFormat:   "15:04:05",
		errorsStderr: true,
		now:          time.Now,
	}
}

// WithFormat sets the log format and returns the logger for chaining
func (l *Logger) WithFormat(format LogFormat) *Logger { l.format = format; return l }

// WithLevel drops messages below level
func (l *Logger) WithLevel(level LogLevel) *Logger { l.minLevel = level; return l }

// WithTimestamp enables or disables timestamp in log output
func (l *Logger) WithTimestamp(enabled bool) *Logger { l.withTime = enabled; return l }

// ErrorsToStderr controls whether errors and warnings go to stderr
func (l *Logger) ErrorsToStderr(enabled bool) *Logger { l.errorsStderr = enabled; return l }

// Enabled reports whether messages at level are written
func (l *Logger) Enabled(level LogLevel) bool { return level >= l.minLevel }

// Log outputs a log message at the specified level
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(l.writer(level), l.formatMessage(level, msg))
}

func (l *Logger) formatMessage(level LogLevel, msg string) string {
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	var b strings.Builder
	switch l.format {
	case LogFormatSymbols:
		b.WriteString(symbolPrefixes[level])
		b.WriteByte(' ')
	case LogFormatTagged:
		b.WriteByte('[')
		b.WriteString(level.String())
		b.WriteString("] ")
	}
	if l.withTime {
		b.WriteString(l.now().Format(l.timeFormat))
		b.WriteByte(' ')
	}
	b.WriteString(msg)
	return l.io.Colorize(b.String(), levelColors[level])
}

func (l *Logger) writer(level LogLevel) io.Writer {
	if l.errorsStderr && level >= LevelWarning {
		return l.io.Err()
	}
	return l.io.Out()
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) { l.Log(LevelDebug, format, args...) }

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) { l.Log(LevelInfo, format, args...) }

// Success logs a success message
func (l *Logger) Success(format string, args ...any) { l.Log(LevelSuccess, format, args...) }

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...any) { l.Log(LevelWarning, format, args...) }

// Error logs an error message
func (l *Logger) Error(format string, args ...any) { l.Log(LevelError, format, args...) }
