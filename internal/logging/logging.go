// Package logging configures the global zerolog logger for the CLI.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitDefault sets up a sane pre-flag logger so anything logged before
// flag parsing still looks right.
func InitDefault() {
	Init("info", false)
}

// Init configures the global logger with the given level and color
// preference. Unknown levels fall back to info.
func Init(level string, noColor bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
}
