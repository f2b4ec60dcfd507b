package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fixturefit/pkg/observability"
)

// logFormats maps --log-format values to charmbracelet/log formatters.
var logFormats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// newLogger returns a text logger stamped with "15:04:05.00" times.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// configureLogger applies the global logging flags.
func (c *CLI) configureLogger() error {
	switch {
	case c.verbose && c.quiet:
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	case c.verbose:
		c.SetLogLevel(LogDebug)
		observability.LogHooks{Logger: c.Logger}.Install()
	case c.quiet:
		c.SetLogLevel(log.WarnLevel)
	}
	f, ok := logFormats[strings.ToLower(c.logFormat)]
	if !ok {
		return fmt.Errorf("unknown log format %q (want text, json or logfmt)", c.logFormat)
	}
	c.Logger.SetFormatter(f)
	return nil
}

// progress logs how long a step took once it finishes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))...)
}
