// Package logging builds the *log.Logger handed into every component: a
// rotating file under the vault's state directory, tee'd to stderr when one
// is attached.
package logging

import (
	"io"
	"log"
	"os"

	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Path is the log file. Empty means stderr only.
	Path string

	// Quiet suppresses the stderr copy even on a terminal.
	Quiet bool
}

// New returns a logger writing to the rotating file at opts.Path and, when
// stderr is a terminal and Quiet is unset, to stderr as well.
func New(opts Options) *log.Logger {
	var writers []io.Writer

	if opts.Path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   true,
		})
	}
	if !opts.Quiet && term.IsTerminal(int(os.Stderr.Fd())) {
		writers = append(writers, os.Stderr)
	}

	if len(writers) == 0 {
		return log.New(io.Discard, "", 0)
	}
	return log.New(io.MultiWriter(writers...), "", log.LstdFlags)
}
