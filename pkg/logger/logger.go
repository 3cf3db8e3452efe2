// Package logger holds the process-wide zerolog logger of the cards API.
//
// Entry points call Setup once; components receive the returned logger by
// value and enrich it with their own fields.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Format selects how entries are rendered.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Config describes the logger built by Setup.
type Config struct {
	// Level is a zerolog level name; "warning" is accepted for warn.
	// Unknown or empty values mean info.
	Level  string
	Format Format
	// Writer defaults to os.Stdout.
	Writer io.Writer
	// Service and Version are stamped on every entry when set.
	Service string
	Version string
}

var (
	mu     sync.Mutex
	root   zerolog.Logger
	active bool
)

// Setup builds the process logger from cfg and also installs its level as
// the zerolog global level. Later calls return the logger built first.
func Setup(cfg Config) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if active {
		return root
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl := levelOf(cfg.Level)
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(writerFor(cfg)).Level(lvl).With().Timestamp().Caller()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	root, active = ctx.Logger(), true
	return root
}

// Default returns the logger built by Setup, or a disabled logger when Setup
// has not run yet.
func Default() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !active {
		return zerolog.Nop()
	}
	return root
}

// reset forgets the process logger. Tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	root, active = zerolog.Logger{}, false
}

func writerFor(cfg Config) io.Writer {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.Format == FormatConsole {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return w
}

func levelOf(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
