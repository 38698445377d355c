// Package logging builds the zerolog logger shared by the CLI and the engine.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/config"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
}

// New returns a logger writing to w at the configured level. The local env
// gets a human-readable console writer; dev and prod log JSON lines.
func New(cfg *config.Config, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}

	if cfg.Env == config.EnvLocal {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = w
		w = consoleWriter
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger(), nil
}
