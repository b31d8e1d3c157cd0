// ABOUTME: Process-wide zerolog logger shared by the server, pipeline and CLI.
// ABOUTME: Init picks level and console/JSON output once at startup.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process logger. It is silent until Init is called.
var Logger = zerolog.Nop()

// Init configures Logger. Unknown levels fall back to info. pretty selects a
// human-readable console writer on stderr.
func Init(level string, pretty bool) {
	Logger = New(os.Stderr, level, pretty)
}

// New builds a logger writing to w.
func New(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
