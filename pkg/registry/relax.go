package registry

import (
	"github.com/gitrdm/dfpattern/pkg/dfpattern"
	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/opattrs"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

// defaultOpAttrs backs every match/match_expr call that doesn't supply
// its own *opattrs.Registry via opts, so an Attr pattern written
// against a bare op name (spec §4.4) has a schema to consult out of
// the box instead of failing with KindNoOpAttrs on every call site.
var defaultOpAttrs = opattrs.Default()

// opAttrsFrom scans opts for a caller-supplied *opattrs.Registry,
// falling back to defaultOpAttrs when none is present.
func opAttrsFrom(opts []interface{}) *opattrs.Registry {
	for _, o := range opts {
		if r, ok := o.(*opattrs.Registry); ok && r != nil {
			return r
		}
	}
	return defaultOpAttrs
}

// These are the stable symbolic names spec §6 requires: a caller that
// only knows "relax.dataflow_pattern.match" can invoke the matcher
// without importing pkg/dfpattern directly, the same way the teacher's
// high-level API (api_stability.go) fixes a small stable surface over
// an internal implementation that's free to change underneath it.
const (
	NameMatch     = "relax.dataflow_pattern.match"
	NameMatchExpr = "relax.dataflow_pattern.match_expr"
)

func init() {
	// match_pattern (spec §6): the non-auto-jump form. It never
	// substitutes a Var for its bound value, consulting infer_type on
	// whatever checked type the expression already carries instead —
	// dfpattern.MatchExpr is exactly this (WithAutoJump(false), falls
	// back to oracle.InferType for Type/DataType predicates).
	Register(NameMatch, func(pat, candidate interface{}, opts ...interface{}) bool {
		p, ok := pat.(pattern.Pattern)
		if !ok {
			return false
		}
		e, ok := candidate.(expr.Expr)
		if !ok {
			return false
		}
		return dfpattern.MatchExpr(p, e, dfpattern.WithOpAttrs(opAttrsFrom(opts)))
	})
	// match_expr_pattern (spec §6): takes an optional var2val map and
	// auto-jumps iff it is supplied. Supplying var2val turns on
	// WithAutoJump explicitly; omitting it leaves autojump off so the
	// call degrades to a plain structural match instead of tripping
	// dfpattern's "autojump requested with no var2val" invariant
	// violation (spec §7).
	Register(NameMatchExpr, func(pat, candidate interface{}, opts ...interface{}) bool {
		p, ok := pat.(pattern.Pattern)
		if !ok {
			return false
		}
		e, ok := candidate.(expr.Expr)
		if !ok {
			return false
		}
		opAttrs := dfpattern.WithOpAttrs(opAttrsFrom(opts))
		if len(opts) > 0 {
			if v2v, ok := opts[0].(map[expr.Expr]expr.Expr); ok && v2v != nil {
				return dfpattern.Match(p, e, dfpattern.WithAutoJump(true), dfpattern.WithVarBindings(v2v), opAttrs)
			}
		}
		return dfpattern.Match(p, e, opAttrs)
	})
}
