package shared

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type LogConfig struct {
	Level  string
	Pretty bool
	Writer io.Writer
}

// NewLogger builds a zerolog logger. Unknown levels fall back to info.
func NewLogger(config LogConfig) zerolog.Logger {
	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}
	if config.Pretty {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(config.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
