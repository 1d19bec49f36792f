// Package mlog provides the package-level debug/tracing logger spec.md §1
// names as an external collaborator without specifying it. It is used only
// for non-fatal, recovered conditions (unmatched freeze markers, PEG scan
// recovery, backend position anomalies): every condition logged here also
// surfaces as a Problem in the value returned to the caller,
// so logging is strictly additive and mdmerge's correctness never depends
// on a caller reading these logs.
package mlog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(io.Discard).With().Timestamp().Logger()
)

// SetOutput redirects the package logger to w at the given level. The CLI's
// merge command calls it (through Default) at the start of each run;
// library callers never need to.
func SetOutput(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Default wires output to stderr at debug level when debug is true and at
// info level otherwise; convenience for CLI
// wiring that mirrors zerolog's own ConsoleWriter recipe.
func Default(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

// Logger returns the current package logger.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &logger
}
