// Package registry is a global, mutex-guarded name-to-function table,
// the way the teacher's Model (pkg/minikanren/model.go) guards its
// variable/constraint lists with a sync.RWMutex for safe construction
// and lookup. It gives the matcher's entry points stable symbolic
// names (spec §6) that a caller — a CLI, a test, a future op-rewrite
// pass — can look up by string instead of importing pkg/dfpattern
// directly.
package registry

import (
	"fmt"
	"sync"
)

// MatchFunc is the shape every entry in this registry has: spec §6's
// "stable symbolic names" all name functions of this shape (Match and
// MatchExpr both reduce to it once their Option arguments are fixed).
// The trailing variadic slot carries match_expr_pattern's optional
// var2val map (spec §6) and, for both registrations, an optional
// *opattrs.Registry; match_pattern's registration ignores any var2val
// map.
type MatchFunc func(pat, candidate interface{}, opts ...interface{}) bool

type registry struct {
	mu      sync.RWMutex
	entries map[string]MatchFunc
}

var global = &registry{entries: make(map[string]MatchFunc)}

// Register adds fn under name, overwriting any previous registration.
// Safe to call from multiple goroutines, though in practice every
// registration happens once, at package init, exactly like the
// teacher's model construction (single-threaded build, then read-only
// use).
func Register(name string, fn MatchFunc) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.entries[name] = fn
}

// Get looks up name, reporting whether it was found.
func Get(name string) (MatchFunc, bool) {
	global.mu.RLock()
	defer global.mu.RUnlock()
	fn, ok := global.entries[name]
	return fn, ok
}

// MustGet looks up name and panics if it isn't registered — for call
// sites (the CLI, tests) where a missing entry is a programming error,
// not a runtime condition to handle gracefully.
func MustGet(name string) MatchFunc {
	fn, ok := Get(name)
	if !ok {
		panic(fmt.Sprintf("registry: no entry named %q", name))
	}
	return fn
}

// Names returns every registered name, for introspection (e.g. a CLI
// "list patterns" subcommand).
func Names() []string {
	global.mu.RLock()
	defer global.mu.RUnlock()
	out := make([]string, 0, len(global.entries))
	for k := range global.entries {
		out = append(out, k)
	}
	return out
}
