// Package logging builds this system's zerolog.Logger the way the
// error taxonomy in the design needs it: leveled (debug for dropped
// frames, warn/error for transport and contract failures), with the
// component name carried as a structured field rather than the
// teacher's bracket-prefixed string tag.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config mirrors the teacher's common/config.LogConfig shape.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// New builds a root logger at the configured level and format.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the given component
// name, the structured-logging equivalent of the teacher's
// "[Binance] ..." prefix.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
