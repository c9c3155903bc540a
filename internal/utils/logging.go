package utils

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	TraceLevel LogLevel = iota + 1
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	NoLevel
)

func (l LogLevel) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case NoLevel:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// LevelFromString parses a level name; unknown names map to InfoLevel.
func LevelFromString(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "info", "":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "disable", "disabled", "none", "off":
		return NoLevel
	default:
		return InfoLevel
	}
}

var (
	colorReset  = "\033[0m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func levelColor(l LogLevel) string {
	switch l {
	case TraceLevel:
		return colorDim
	case DebugLevel:
		return colorCyan
	case InfoLevel:
		return colorBlue
	case WarnLevel:
		return colorYellow
	case ErrorLevel:
		return colorRed
	default:
		return colorReset
	}
}

// Logger is a small leveled logger with prefix and field clones. Clones
// share the output writer, so derived loggers stay cheap.
type Logger struct {
	mu              sync.RWMutex
	level           LogLevel
	prefix          string
	output          io.Writer
	fields          map[string]any
	color           bool
	timestampFormat string
}

func NewLogger(prefix string) *Logger {
	return &Logger{
		level:           InfoLevel,
		prefix:          prefix,
		output:          os.Stdout,
		fields:          make(map[string]any),
		timestampFormat: "2006-01-02 15:04:05.000",
	}
}

func (l *Logger) Clone() *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	clone := &Logger{
		level:           l.level,
		prefix:          l.prefix,
		output:          l.output,
		fields:          make(map[string]any),
		color:           l.color,
		timestampFormat: l.timestampFormat,
	}
	maps.Copy(clone.fields, l.fields)
	return clone
}

func (l *Logger) WithPrefix(prefix string) *Logger {
	clone := l.Clone()
	clone.prefix = prefix
	return clone
}

func (l *Logger) WithField(key string, value any) *Logger {
	clone := l.Clone()
	clone.fields[key] = value
	return clone
}

func (l *Logger) WithError(err error) *Logger {
	clone := l.Clone()
	clone.fields["error"] = err
	return clone
}

func (l *Logger) SetLevel(level LogLevel) *Logger {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
	return l
}

// SetLevelString sets the level from its name ("debug", "warn", ...).
func (l *Logger) SetLevelString(level string) *Logger {
	return l.SetLevel(LevelFromString(level))
}

func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.mu.Lock()
	l.output = w
	l.mu.Unlock()
	return l
}

func (l *Logger) SetColor(enabled bool) *Logger {
	l.mu.Lock()
	l.color = enabled
	l.mu.Unlock()
	return l
}

func (l *Logger) Level() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.mu.RLock()
	if level < l.level || l.level == NoLevel {
		l.mu.RUnlock()
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format(l.timestampFormat))
	sb.WriteString(" ")
	if l.color {
		sb.WriteString(levelColor(level))
	}
	sb.WriteString(fmt.Sprintf("%-5s", level.String()))
	if l.color {
		sb.WriteString(colorReset)
	}
	if l.prefix != "" {
		sb.WriteString(" " + l.prefix)
	}
	sb.WriteString(" " + msg)
	for k, v := range l.fields {
		sb.WriteString(fmt.Sprintf(" %s=%v", k, v))
	}
	sb.WriteString("\n")

	out := l.output
	l.mu.RUnlock()

	fmt.Fprint(out, sb.String())
}

func (l *Logger) Trace(format string, args ...any) { l.log(TraceLevel, format, args...) }
func (l *Logger) Debug(format string, args ...any) { l.log(DebugLevel, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(InfoLevel, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(WarnLevel, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(ErrorLevel, format, args...) }
