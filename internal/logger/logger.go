package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultLogger zerolog.Logger
	once          sync.Once
)

// Init initializes the default logger writing structured JSON to os.Stderr.
// It ensures that the logger is initialized only once.
func Init() {
	once.Do(func() {
		defaultLogger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
		defaultLogger.Debug().Msg("Logger initialized")
	})
}

// Get returns the initialized default logger.
// It calls Init() to ensure the logger is ready before returning it.
func Get() zerolog.Logger {
	Init()
	return defaultLogger
}

// SetLevel adjusts the default logger's level. Unknown level strings are
// ignored and leave the current level in place.
func SetLevel(level string) {
	Init()
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return
	}
	defaultLogger = defaultLogger.Level(lvl)
}

// Info logs an informational message with alternating key/value args.
func Info(msg string, args ...any) {
	l := Get()
	event(l.Info(), args).Msg(msg)
}

// Warn logs a warning message with alternating key/value args.
func Warn(msg string, args ...any) {
	l := Get()
	event(l.Warn(), args).Msg(msg)
}

// Error logs an error message using the default logger.
func Error(msg string, err error, args ...any) {
	l := Get()
	event(l.Error().Err(err), args).Msg(msg)
}

// Debug logs a debug message with alternating key/value args.
func Debug(msg string, args ...any) {
	l := Get()
	event(l.Debug(), args).Msg(msg)
}

func event(e *zerolog.Event, args []any) *zerolog.Event {
	if len(args) > 0 {
		e = e.Fields(args)
	}
	return e
}
