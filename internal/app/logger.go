package app

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger. Pretty output uses zerolog's
// console writer; otherwise one JSON object is written per line.
func NewLogger(w io.Writer, level string, pretty bool) zerolog.Logger {
	var log zerolog.Logger
	if pretty {
		output := zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
		log = zerolog.New(output).With().Timestamp().Logger()
	} else {
		log = zerolog.New(w).With().Timestamp().Logger()
	}

	switch strings.ToLower(level) {
	case "trace":
		log = log.Level(zerolog.TraceLevel)
	case "debug":
		log = log.Level(zerolog.DebugLevel)
	case "warn", "warning":
		log = log.Level(zerolog.WarnLevel)
	case "error":
		log = log.Level(zerolog.ErrorLevel)
	case "disabled", "off":
		log = log.Level(zerolog.Disabled)
	default:
		log = log.Level(zerolog.InfoLevel)
	}

	return log
}
