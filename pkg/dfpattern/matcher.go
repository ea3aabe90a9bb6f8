// Package dfpattern is the matcher core: recursive descent over a
// pattern.Pattern and an expr.Expr, memoized and with trail-based
// rollback so speculative sub-matches (commutative argument retries,
// dominator path exploration) never leave partial state behind on
// failure.
//
// The separation mirrors the teacher (pkg/minikanren): Match/MatchExpr
// play the role of Run/Eq driving a goal to a boolean answer, visit
// plays the role of a Goal's step function, and the memo+trail pairing
// is a direct generalization of FDStore's snapshot()/undo() (fd.go).
package dfpattern

import (
	"github.com/hashicorp/go-hclog"

	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/exprgraph"
	"github.com/gitrdm/dfpattern/pkg/opattrs"
	"github.com/gitrdm/dfpattern/pkg/oracle"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

// trailEntry records one pattern's memo insertion so rollback can undo
// it in reverse order (spec §4.1's matched_nodes rollback stack: memo
// and matched_nodes always have the same length, and rollback(w)
// erases matched_nodes[w..] from memo and truncates to w).
type trailEntry struct {
	pat pattern.Pattern
}

// Matcher holds the mutable state one Match/MatchExpr call threads
// through its recursion. A Matcher is not safe for concurrent use —
// spec §5 requires matching to be single-threaded and non-suspending,
// so there is no goroutine boundary to guard.
//
// memo is keyed on pattern identity alone, not on (pattern, candidate)
// — spec §3/§4.1: "after any step, every pattern in memo has exactly
// one associated expression", and a pattern already in memo succeeds
// only if the incoming candidate is *the same object* as what it
// matched before. This is what makes memo double as spec §9's capture
// table (Captures) and what makes two occurrences of one pattern
// pointer (e.g. Tuple(p, p)) enforce a genuine back-reference instead
// of matching independently.
type Matcher struct {
	memo  map[pattern.Pattern]expr.Expr
	trail []trailEntry

	memoize  bool
	autojump bool
	var2val  map[expr.Expr]expr.Expr // bound-value substitution for auto-jump (keyed by the *expr.Var's identity)

	opAttrs *opattrs.Registry

	graph    *exprgraph.Graph
	analyzer *oracle.Analyzer
	logger   hclog.Logger
}

// Option configures a Matcher. Memoize and autojump both start false;
// Match and MatchExpr apply WithMemoize(true) by default and leave
// autojump off unless the caller opts in (Match only).
type Option func(*Matcher)

// WithMemoize enables the pattern-keyed memo (each pattern node bound
// to the single expression it matched) across a single Match call.
func WithMemoize(on bool) Option { return func(m *Matcher) { m.memoize = on } }

// WithAutoJump enables substituting a bound Var with its bound value
// during recursion (spec §4.5: every recursion step except
// variable-identity-sensitive and shape/dtype predicate matching).
func WithAutoJump(on bool) Option { return func(m *Matcher) { m.autojump = on } }

// WithVarBindings supplies the var -> bound-value map auto-jump reads.
// Keys must be *expr.Var or *expr.DataflowVar values that also appear
// in the expression being matched.
func WithVarBindings(v2v map[expr.Expr]expr.Expr) Option {
	return func(m *Matcher) { m.var2val = v2v }
}

// WithGraph supplies the expression graph Dominator patterns walk.
// Required only when the pattern tree contains a pattern.Dominator
// node; reaching a Dominator with no graph configured raises a
// KindNoGraph InvariantViolation through violate (a panic when no
// logger is configured) and the match fails.
func WithGraph(g *exprgraph.Graph) Option { return func(m *Matcher) { m.graph = g } }

// WithOpAttrs supplies the op-attribute schema an Attr pattern
// consults when it targets an *expr.Op directly rather than a Call or
// Function's own attribute bag (spec §4.4's "Op expression" branch).
// Without it, an Attr pattern can still match a Call/Function's own
// attrs; against a bare Op it passes only with empty Attrs, and any
// non-empty Attrs raise a KindNoOpAttrs InvariantViolation.
func WithOpAttrs(r *opattrs.Registry) Option { return func(m *Matcher) { m.opAttrs = r } }

// WithLogger overrides the logger invariant violations are reported
// through. A nil logger (the default) means violations are raised as
// Go panics instead, exactly as the teacher's ContextMonitor treats a
// nil *log.Logger as "no monitoring, not a guaranteed no-op".
func WithLogger(l hclog.Logger) Option { return func(m *Matcher) { m.logger = l } }

func newMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		memo:     make(map[pattern.Pattern]expr.Expr),
		analyzer: oracle.NewAnalyzer(),
	}
	for _, o := range opts {
		o(m)
	}
	// spec §7: requesting autojump without a var2val map to jump
	// through is a caller bug, not an ordinary non-match — it means
	// every Var the matcher meets would silently fail to resolve.
	if m.autojump && m.var2val == nil {
		m.violate(newInvariantViolation(KindNoVar2Val,
			"autojump requested with no var2val mapping configured (WithVarBindings)"))
	}
	return m
}

// Match matches p against e with memoization on by default, autojump
// off unless the caller opts in with WithAutoJump(true) and
// WithVarBindings (spec §4.1's dispatcher default, "autojump?=false").
// This is the form callers reach for when e already carries checked
// types/shapes from a prior compiler pass and, optionally, a
// var-to-bound-value map from the enclosing dataflow block.
func Match(p pattern.Pattern, e expr.Expr, opts ...Option) bool {
	_, ok := match(p, e, opts)
	return ok
}

// MatchExpr matches p against e the way Match does, but never
// auto-jumps, even when opts include WithAutoJump(true). Type and
// DataType predicates read each node's checked type and fall back to
// oracle.InferType where none is attached, exactly as under Match.
func MatchExpr(p pattern.Pattern, e expr.Expr, opts ...Option) bool {
	_, ok := matchExpr(p, e, opts)
	return ok
}

// MatchCapture matches like Match, additionally returning the memo
// table built during the attempt: on success, every pattern node
// visited mapped to the single expression it matched (spec §9 — "the
// memo as a capture table"). On failure the returned map is empty,
// mirroring memo's own post-failure state (spec §8).
func MatchCapture(p pattern.Pattern, e expr.Expr, opts ...Option) (bool, map[pattern.Pattern]expr.Expr) {
	m, ok := match(p, e, opts)
	return ok, m.Captures()
}

// MatchExprCapture is MatchCapture built on MatchExpr's non-auto-jump,
// infer_type-consulting semantics.
func MatchExprCapture(p pattern.Pattern, e expr.Expr, opts ...Option) (bool, map[pattern.Pattern]expr.Expr) {
	m, ok := matchExpr(p, e, opts)
	return ok, m.Captures()
}

func match(p pattern.Pattern, e expr.Expr, opts []Option) (*Matcher, bool) {
	all := append([]Option{WithMemoize(true)}, opts...)
	m := newMatcher(all...)
	ok := m.visit(p, e)
	if !ok {
		m.rollback(0)
	}
	return m, ok
}

func matchExpr(p pattern.Pattern, e expr.Expr, opts []Option) (*Matcher, bool) {
	all := append(append([]Option{WithMemoize(true)}, opts...), WithAutoJump(false))
	m := newMatcher(all...)
	ok := m.visit(p, e)
	if !ok {
		m.rollback(0)
	}
	return m, ok
}

// Captures returns a copy of the matcher's memo table: every pattern
// node visited so far mapped to the single expression it matched
// (spec §9). Safe to call mid-match, though callers normally read it
// only after a successful top-level Match/MatchExpr call.
func (m *Matcher) Captures() map[pattern.Pattern]expr.Expr {
	out := make(map[pattern.Pattern]expr.Expr, len(m.memo))
	for k, v := range m.memo {
		out[k] = v
	}
	return out
}

// watermark returns the current trail length, a point visit() can
// roll back to if the sub-match it is about to attempt fails.
func (m *Matcher) watermark() int { return len(m.trail) }

// rollback undoes every trail entry recorded since mark, in reverse
// order, the way FDStore.undo (pkg/minikanren/fd.go) replays its trail
// backwards to restore prior variable domains. Spec §4.1: "for each
// pattern in matched_nodes[w..] erase it from memo; truncate
// matched_nodes to length w."
func (m *Matcher) rollback(mark int) {
	for i := len(m.trail) - 1; i >= mark; i-- {
		delete(m.memo, m.trail[i].pat)
	}
	m.trail = m.trail[:mark]
}

// recordMemo caches candidate as the single expression p matched and
// appends an undo entry, unless p already carries a memo entry (spec
// §3: a pattern is memoized with at most one expression; visit's
// identity re-check above guarantees this call only ever installs a
// fresh entry or confirms an existing one).
func (m *Matcher) recordMemo(p pattern.Pattern, candidate expr.Expr) {
	if !m.memoize {
		return
	}
	if _, existed := m.memo[p]; existed {
		return
	}
	m.memo[p] = candidate
	m.trail = append(m.trail, trailEntry{pat: p})
}

// resolve follows e through var2val when auto-jump is enabled and e is
// a variable with a recorded bound value; it stops at the first node
// that isn't itself bound, so a chain of aliases resolves to its
// ultimate value in one call.
func (m *Matcher) resolve(e expr.Expr) expr.Expr {
	if !m.autojump || m.var2val == nil {
		return e
	}
	seen := map[expr.Expr]bool{}
	for {
		v, ok := m.var2val[e]
		if !ok || v == nil || seen[e] {
			return e
		}
		seen[e] = true
		e = v
	}
}

// isIdentitySensitive reports whether p is a pattern kind that must
// see the literal variable expression, never its auto-jumped value
// (spec §4.5).
func isIdentitySensitive(p pattern.Pattern) bool {
	switch p.(type) {
	case *pattern.Var, *pattern.DataflowVar, *pattern.GlobalVar:
		return true
	default:
		return false
	}
}

// visit is the single recursive entry point every match rule funnels
// through, so memoization and rollback apply uniformly regardless of
// which pattern/expr kinds are involved.
func (m *Matcher) visit(p pattern.Pattern, e expr.Expr) bool {
	if p == nil || e == nil {
		return false
	}

	// Predicate and combinator wrappers are not memoized on their own
	// — they delegate to Inner/Left/Right, which are memoized at their
	// own level — because a predicate's result depends on attributes
	// of e that the expr/pattern identity pair alone doesn't capture
	// consistently across unrelated call sites.
	switch n := p.(type) {
	case *pattern.Alt:
		return m.matchAlt(n, e)
	case *pattern.And:
		return m.matchAnd(n, e)
	case *pattern.Not:
		return m.matchNot(n, e)
	case *pattern.Attr:
		return m.matchAttr(n, e)
	case *pattern.Type:
		return m.matchType(n, e)
	case *pattern.Shape:
		return m.matchShape(n, e)
	case *pattern.DataType:
		return m.matchDataType(n, e)
	case *pattern.Dominator:
		return m.matchDominator(n, e)
	}

	candidate := e
	if !isIdentitySensitive(p) {
		candidate = m.resolve(e)
	}

	// A pattern already in memo succeeds only when the stored
	// expression is the very object now offered as candidate; any other
	// candidate is reported as a KindMemoRebind invariant violation
	// (and the match fails). This is what makes two occurrences of the same
	// pattern pointer (e.g. Tuple(p, p)) enforce a genuine
	// back-reference instead of matching independently, and what makes
	// memo double as spec §9's capture table.
	if m.memoize {
		if prev, ok := m.memo[p]; ok {
			if prev == candidate {
				return true
			}
			m.violate(newInvariantViolation(KindMemoRebind,
				"pattern already matched to a different expression (memo invariant requires at most one)"))
			return false
		}
	}

	mark := m.watermark()
	result := m.matchStructural(p, candidate)
	if !result {
		m.rollback(mark)
		return false
	}
	m.recordMemo(p, candidate)
	return result
}
