// Package logging provides the zerolog-backed implementation of xmrest.Logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fivetwenty-io/xmrest/internal/constants"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	validFormats = []string{FormatConsole, FormatJSON}
)

// Options contains logging configuration.
type Options struct {
	Level     string    `json:"level"     mapstructure:"level"     yaml:"level"`
	Format    string    `json:"format"    mapstructure:"format"    yaml:"format"`
	NoColor   bool      `json:"no_color"  mapstructure:"no_color"  yaml:"no_color"`
	Timestamp bool      `json:"timestamp" mapstructure:"timestamp" yaml:"timestamp"`
	Output    io.Writer `json:"-"         mapstructure:"-"         yaml:"-"`
}

// ApplyDefaults fills unset options.
func (o *Options) ApplyDefaults() {
	if o.Level == "" {
		o.Level = constants.DefaultLogLevel
	}

	if o.Format == "" {
		o.Format = constants.DefaultLogFormat
	}

	if o.Output == nil {
		o.Output = os.Stderr
	}
}

// Validate checks level and format.
func (o *Options) Validate() error {
	if !slices.Contains(validLevels, strings.ToLower(o.Level)) {
		return fmt.Errorf("%w: must be one of %v (got: %s)", constants.ErrInvalidLogLevel, validLevels, o.Level)
	}

	if !slices.Contains(validFormats, strings.ToLower(o.Format)) {
		return fmt.Errorf("%w: must be one of %v (got: %s)", constants.ErrInvalidLogFormat, validFormats, o.Format)
	}

	return nil
}

// Logger wraps zerolog.Logger.
type Logger struct {
	logger zerolog.Logger
}

var _ xmrest.Logger = (*Logger)(nil)

// New creates a logger. Invalid levels fall back to info.
func New(opts Options) *Logger {
	opts.ApplyDefaults()

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if strings.EqualFold(opts.Format, FormatConsole) {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        opts.Output,
			NoColor:    opts.NoColor,
			TimeFormat: time.RFC3339,
		})
	} else {
		zl = zerolog.New(opts.Output)
	}

	if opts.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}

	return &Logger{logger: zl.Level(level)}
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zc := l.logger.With()
	for k, v := range fields {
		zc = zc.Interface(k, v)
	}

	return &Logger{logger: zc.Logger()}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	write(l.logger.Debug(), msg, fields)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	write(l.logger.Info(), msg, fields)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	write(l.logger.Warn(), msg, fields)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	write(l.logger.Error(), msg, fields)
}

func write(event *zerolog.Event, msg string, fields map[string]interface{}) {
	if event == nil {
		return
	}

	for k, v := range fields {
		switch value := v.(type) {
		case error:
			event = event.AnErr(k, value)
		case string:
			event = event.Str(k, value)
		default:
			event = event.Interface(k, value)
		}
	}

	event.Msg(msg)
}
