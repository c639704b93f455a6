package cliconfig

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger: a console writer with RFC3339
// timestamps, or JSON lines when format is "json".
func NewLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
