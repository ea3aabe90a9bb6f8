// Package tracing wires an hclog.Logger into the matcher the way the
// teacher's ContextMonitor (pkg/minikanren/context_utils.go) wires a
// nilable *log.Logger into constraint propagation: callers that want
// invariant violations logged pass one in (the matcher logs nothing
// else, not even individual match attempts),
// callers that don't leave it nil and get silence (or, for invariant
// violations, a panic — see pkg/dfpattern.Matcher.violate).
package tracing

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// New builds a named hclog.Logger at the given level ("trace", "debug",
// "info", "warn", "error", "off"), writing to stderr, the same default
// every hclog-based CLI in the corpus uses.
func New(name, level string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.LevelFromString(level),
		Output: os.Stderr,
	})
}

// Matcher is the subset of dfpattern's logging needs this package
// exposes to callers that don't want to import hclog directly just to
// build a default.
func Matcher() hclog.Logger { return New("dfpattern", "warn") }
