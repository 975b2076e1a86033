package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// Logger is a zerolog.Logger bound to a service name. Derived loggers
// (WithComponent, WithContext, ...) keep the service.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// New creates a logger writing to the configured output.
func New(cfg *Config, service string) *Logger {
	return NewWithWriter(cfg, service, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger that writes to w instead of the configured output.
// An empty or unknown level means info.
func NewWithWriter(cfg *Config, service string, w io.Writer) *Logger {
	var zl zerolog.Logger
	switch {
	case isConsole(cfg.Format):
		zl = consoleLogger(w, service, cfg.NoColor)
	case cfg.Timestamp:
		zl = zerolog.New(w).With().Timestamp().Logger()
	default:
		zl = zerolog.New(w)
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}
	return &Logger{zl: zl.Level(parseLevel(cfg.Level)), service: service}
}

// NewDefault creates a logger with the default configuration.
func NewDefault(service string) *Logger {
	var cfg Config
	cfg.ApplyDefaults()
	return New(&cfg, service)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) derive(fn func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{zl: fn(l.zl.With()).Logger(), service: l.service}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(func(c zerolog.Context) zerolog.Context { return c.Str(FieldComponent, name) })
}

// WithFields returns a logger carrying fields on every line.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return l.derive(func(c zerolog.Context) zerolog.Context { return c.Fields(fields) })
}

// WithError returns a logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return l.derive(func(c zerolog.Context) zerolog.Context { return c.Err(err) })
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

// emit is a no-op for events below the logger's level (zerolog hands back nil).
func emit(e *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, f := range fields {
		e.Fields(f)
	}
	e.Msg(msg)
}

// --- global logger ---

var globalLogger *Logger

// Init replaces the global logger and zerolog's global level from cfg.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	globalLogger = New(&cfg, "default")
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	if isConsole(cfg.Format) {
		log.Logger = consoleLogger(outputWriter(cfg.Output), "", cfg.NoColor)
	}
}

// SetGlobalLogger sets the global logger instance.
func SetGlobalLogger(l *Logger) { globalLogger = l }

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault("default")
	}
	return globalLogger
}

func Debug(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]interface{})  { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]interface{}) { GetGlobalLogger().Error(msg, fields...) }

// WithComponent returns a component-tagged logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

// --- helpers ---

func parseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func isConsole(format string) bool {
	switch strings.ToLower(format) {
	case FormatConsole, FormatPretty:
		return true
	}
	return false
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

// levelTags maps zerolog level names to their short tag and ANSI color.
var levelTags = map[string]struct{ tag, color string }{
	"debug": {"DBG", "36"},
	"info":  {"INF", "32"},
	"warn":  {"WRN", "33"},
	"error": {"ERR", "31"},
	"fatal": {"FTL", "35"},
}

func paint(s, color string, noColor bool) string {
	if noColor || color == "" {
		return "[" + s + "]"
	}
	return "\033[" + color + "m[" + s + "]\033[0m"
}

// consoleLogger renders lines as "15:04:05 [ENG][INF] message key:value".
// Services with names shorter than three characters get no prefix.
func consoleLogger(w io.Writer, service string, noColor bool) zerolog.Logger {
	var prefix string
	if service != "" && service != "default" && len(service) >= 3 {
		prefix = paint(strings.ToUpper(service[:3]), "34", noColor)
	}
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			name := strings.ToLower(fmt.Sprint(i))
			lt, ok := levelTags[name]
			if !ok {
				lt.tag = strings.ToUpper(name)
			}
			return prefix + paint(lt.tag, lt.color, noColor)
		},
		FormatFieldName: func(i interface{}) string { return fmt.Sprint(i) + ":" },
	}
	return zerolog.New(cw).With().Timestamp().Logger()
}
