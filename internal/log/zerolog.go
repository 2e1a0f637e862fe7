package log

import (
	"io"

	"github.com/rs/zerolog"
)

// ZerologLogger is a leveled logging engine that emits one JSON object per message.
type ZerologLogger struct {
	backend zerolog.Logger
	level   Level
}

// NewZerologLogger creates a JSON logger writing to out, limited to the specified level.
func NewZerologLogger(out io.Writer, level Level) Logger {
	backend := zerolog.New(out).
		Level(zerologLevel(level)).
		With().
		Timestamp().
		Logger()

	return &ZerologLogger{backend: backend, level: level}
}

// Debug logs a debug message, if permitted by the current level.
func (l *ZerologLogger) Debug(format string, v ...interface{}) {
	l.backend.Debug().Msgf(format, v...)
}

// Info logs an informational message, if permitted by the current level.
func (l *ZerologLogger) Info(format string, v ...interface{}) {
	l.backend.Info().Msgf(format, v...)
}

// Warn logs a warning message, if permitted by the current level.
func (l *ZerologLogger) Warn(format string, v ...interface{}) {
	l.backend.Warn().Msgf(format, v...)
}

// Error logs an error message, if permitted by the current level.
func (l *ZerologLogger) Error(format string, v ...interface{}) {
	l.backend.Error().Msgf(format, v...)
}

// Level reads the current logging level.
func (l *ZerologLogger) Level() Level {
	return l.level
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
