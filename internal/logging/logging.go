// Package logging provides the structured logger the engine and CLI share.
// It is quiet by default: nothing is logged until SetVerbose(true) raises
// the level, which the CLI's -v flag does.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	Level(zerolog.Disabled).
	With().Timestamp().Logger()

// SetVerbose raises the shared logger to debug level when v is true, and
// silences it otherwise.
func SetVerbose(v bool) {
	if v {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.Disabled)
	}
}

// Default returns the shared logger used across the engine and CLI.
func Default() *zerolog.Logger {
	return &logger
}
