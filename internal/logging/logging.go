// Package logging builds the one zerolog.Logger this runtime's
// packages share for diagnostics, grounded on
// itohio-EasyRobot/pkg/logger/logger.go's console-writer-plus-caller
// construction, retargeted from a package-level singleton to an
// explicit constructor so a host can run more than one runtime instance
// with independently configured logging.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// New builds a logger writing human-readable console output to w
// (os.Stderr when w is nil), at the given level, with caller location
// attached — the same shape as the teacher's package-level Log, built
// per call instead of once so callers can wire it into
// schedule.SetLogger and kernel.SetLogger independently of each other
// or of a CLI wrapper's own logger.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Nop returns a logger that discards everything, the default every
// diagnostic-emitting package in this module starts with until a host
// calls SetLogger.
func Nop() zerolog.Logger { return zerolog.Nop() }
