// Package logger provides structured logging for the workspace API.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with a few component helpers.
type Logger struct {
	zlog zerolog.Logger
}

type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // console output for development
	Output io.Writer
}

func NewLogger(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "prd-workspace").
		Logger()

	return &Logger{zlog: zlog}
}

// Nop discards everything; used by tests.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str(zerolog.MessageFieldName, msg)
}

func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str(zerolog.MessageFieldName, msg)
}

func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str(zerolog.MessageFieldName, msg)
}

func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str(zerolog.MessageFieldName, msg)
}

func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str(zerolog.MessageFieldName, msg)
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", name).Logger()}
}

// HTTPLogger returns a child logger for one request.
func (l *Logger) HTTPLogger(method, path, requestID string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "http").
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Logger(),
	}
}

// LogTransition records a committed or rejected document transition.
func (l *Logger) LogTransition(kind, documentID string, fromVersion int, duration time.Duration, err error) {
	var event *zerolog.Event
	if err != nil {
		event = l.zlog.Warn().Err(err)
	} else {
		event = l.zlog.Info()
	}
	event.
		Str("kind", kind).
		Str("document_id", documentID).
		Int("from_version", fromVersion).
		Dur("duration", duration).
		Msg("document transition")
}
