package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.InfoLevel)
	log.Info().Msg("hello")
	if buf.Len() == 0 {
		t.Error("New(w, InfoLevel).Info() wrote nothing to w")
	}
}

func TestNewDefaultsToStderrOnNilWriter(t *testing.T) {
	// Must not panic when w is nil.
	log := New(nil, zerolog.InfoLevel)
	log.Info().Msg("should not panic")
}

func TestNewHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.ErrorLevel)
	log.Info().Msg("filtered out")
	if buf.Len() != 0 {
		t.Errorf("Info() below the configured ErrorLevel was written: %q", buf.String())
	}
	log.Error().Msg("kept")
	if buf.Len() == 0 {
		t.Error("Error() at the configured level was not written")
	}
}

func TestNopDiscardsOutput(t *testing.T) {
	log := Nop()
	// Nop's event is disabled; calling it must not panic and produces
	// no observable output since it has no writer at all.
	log.Info().Msg("discarded")
}
