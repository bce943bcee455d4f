package logger

import (
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with the owning service name.
type Logger struct {
	logger  zerolog.Logger
	service string
}

// New creates a logger writing to the configured output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger writing to w. Console format wraps w in a
// zerolog.ConsoleWriter.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: cfg.NoColor}
	}

	zc := zerolog.New(w).Level(level).With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	if serviceName != "" {
		zc = zc.Str("service", serviceName)
	}
	return &Logger{logger: zc.Logger(), service: serviceName}
}

// NewDefault creates a console logger at info level on stderr.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return New(cfg, serviceName)
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.with(l.logger.With().Str(FieldComponent, name))
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return l.with(l.logger.With().Fields(fields))
}

// WithCall returns a logger carrying the identity of one call.
func (l *Logger) WithCall(callID, method, mode string) *Logger {
	return l.with(l.logger.With().
		Str(FieldCallID, callID).
		Str(FieldMethod, method).
		Str(FieldMode, mode))
}

func (l *Logger) with(zc zerolog.Context) *Logger {
	return &Logger{logger: zc.Logger(), service: l.service}
}

// GetLogger returns the underlying zerolog.Logger.
func (l *Logger) GetLogger() zerolog.Logger {
	return l.logger
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields ...map[string]any) { emit(l.logger.Debug(), msg, fields) }

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...map[string]any) { emit(l.logger.Info(), msg, fields) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...map[string]any) { emit(l.logger.Warn(), msg, fields) }

// Error logs at error level.
func (l *Logger) Error(msg string, fields ...map[string]any) { emit(l.logger.Error(), msg, fields) }

// emit is a no-op when the level is disabled; zerolog returns a nil event.
func emit(event *zerolog.Event, msg string, fields []map[string]any) {
	if event == nil {
		return
	}
	for _, fm := range fields {
		event.Fields(fm)
	}
	event.Msg(msg)
}

// sensitiveParams are query keys whose values never reach a log line.
var sensitiveParams = []string{
	"oauth_signature", "oauth_token", "oauth_consumer_key",
	"access_token", "api_key", "token", "key",
}

// RedactURL renders u with its password and credential-bearing query
// values replaced by "xxxxx".
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.RawQuery == "" {
		return u.Redacted()
	}
	q := u.Query()
	changed := false
	for _, k := range sensitiveParams {
		if q.Has(k) {
			q.Set(k, "xxxxx")
			changed = true
		}
	}
	if !changed {
		return u.Redacted()
	}
	c := *u
	c.RawQuery = q.Encode()
	return c.Redacted()
}

func outputWriter(output string) io.Writer {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	default:
		return os.Stderr
	}
}
