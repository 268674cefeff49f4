// Package logger adapts charmbracelet/log to ports.Logger.
package logger

import (
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"
)

// CharmLogger writes leveled, structured lines to stderr.
type CharmLogger struct {
	l *log.Logger
}

// New creates a logger; verbose enables debug output, otherwise only
// warnings and errors are printed.
func New(w io.Writer, verbose bool) *CharmLogger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{Prefix: "gai"})
	if verbose {
		l.SetLevel(log.DebugLevel)
		l.SetReportTimestamp(true)
	} else {
		l.SetLevel(log.WarnLevel)
	}
	return &CharmLogger{l: l}
}

// NewStd creates a stderr logger, kept for call sites that only know verbosity.
func NewStd(verbose bool) *CharmLogger {
	return New(os.Stderr, verbose)
}

func (c *CharmLogger) Debug(msg string, fields map[string]interface{}) {
	c.l.Debug(msg, keyvals(fields)...)
}

func (c *CharmLogger) Info(msg string, fields map[string]interface{}) {
	c.l.Info(msg, keyvals(fields)...)
}

func (c *CharmLogger) Warn(msg string, fields map[string]interface{}) {
	c.l.Warn(msg, keyvals(fields)...)
}

func (c *CharmLogger) Error(msg string, err error, fields map[string]interface{}) {
	kv := keyvals(fields)
	if err != nil {
		kv = append(kv, "err", err)
	}
	c.l.Error(msg, kv...)
}

// keyvals flattens fields in key order so output is stable.
func keyvals(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	kv := make([]interface{}, 0, len(keys)*2)
	for _, key := range keys {
		kv = append(kv, key, fields[key])
	}
	return kv
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, map[string]interface{})        {}
func (Nop) Info(string, map[string]interface{})         {}
func (Nop) Warn(string, map[string]interface{})         {}
func (Nop) Error(string, error, map[string]interface{}) {}
