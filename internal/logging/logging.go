package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"gowakeonlan/internal/config"
)

// Options selects the level and destination of the logger.
type Options struct {
	Verbose bool
	Debug   bool
	Quiet   bool
	// ToFile sends logs to the rotating file instead of stderr, for when the
	// terminal belongs to the TUI.
	ToFile bool
}

// New builds the process logger from the logging configuration and flags.
func New(cfg config.LoggingConfig, opts Options) (logr.Logger, io.Closer, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"

	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.ToFile {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return logr.Discard(), nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		}
		w, closer = lj, lj
	}

	zl := zerolog.New(w)
	if !opts.ToFile && isatty.IsTerminal(os.Stderr.Fd()) {
		zl = zl.Output(zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isColorTerminal(),
			TimeFormat: time.RFC3339,
		})
	}

	level := ParseLevel(cfg.Level, opts)
	zl = zl.Level(level).With().Timestamp().Logger()
	return zerologr.New(&zl), closer, nil
}

// ParseLevel resolves the effective level. Flags win over the configured level.
func ParseLevel(configured string, opts Options) zerolog.Level {
	switch {
	case opts.Debug:
		return zerolog.DebugLevel
	case opts.Verbose:
		return zerolog.InfoLevel
	case opts.Quiet:
		return zerolog.ErrorLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(configured))
	if err != nil || configured == "" {
		return zerolog.WarnLevel
	}
	return level
}

func isColorTerminal() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return true
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
