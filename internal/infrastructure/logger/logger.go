package logger

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New constructs a zerolog logger based on level and format configuration and installs
// it as the global logger. Output goes to out, or stdout when out is nil.
func New(level, format string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, err
	}
	if out == nil {
		out = os.Stdout
	}

	var writer zerolog.Logger
	switch strings.ToLower(format) {
	case "json":
		writer = zerolog.New(out).With().Timestamp().Logger()
	case "console":
		consoleWriter := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
		writer = zerolog.New(consoleWriter).With().Timestamp().Logger()
	default:
		return zerolog.Logger{}, errors.New("unsupported log format")
	}

	zerolog.SetGlobalLevel(lvl)
	logger := writer.Level(lvl)
	log.Logger = logger

	return logger, nil
}

// Init configures the global logger, falling back to info/json on bad settings.
func Init(level, format string, out io.Writer) zerolog.Logger {
	logger, err := New(level, format, out)
	if err != nil {
		logger, _ = New("info", "json", out)
		logger.Warn().Err(err).Str("level", level).Str("format", format).Msg("invalid log settings, using defaults")
	}
	return logger
}
