package dfpattern

import "fmt"

// InvariantViolation reports one of the handful of conditions that are
// programmer errors rather than ordinary match failures: the matcher
// hitting them means the caller misused the API, not that the pattern
// failed to match. Match and MatchExpr never return these as Go errors
// — a match is always a plain bool — they instead report them through
// the configured logger (pkg/tracing), or panic with them when no
// logger is configured, mirroring the teacher's
// ContextMonitor (pkg/minikanren/context_utils.go), which reports
// anomalies through an injected, nilable logger rather than by
// changing a goal's success/fail signature.
type InvariantViolation struct {
	// Kind names which invariant was broken, for callers that want to
	// switch on it (e.g. in tests) without string matching.
	Kind string
	Msg  string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("dfpattern: invariant violated (%s): %s", e.Kind, e.Msg)
}

const (
	// KindNoStructuralEqual fires when an ExprLiteral pattern or an
	// expr.Expr-valued Attr comparison needs expr.StructuralEqual and
	// none has been registered.
	KindNoStructuralEqual = "no_structural_equal"
	// KindNoOpAttrs fires when an Attr pattern with attributes to check
	// targets a bare Op and no op-attribute registry is configured
	// (WithOpAttrs).
	KindNoOpAttrs = "no_op_attrs"
	// KindMalformedPattern names a pattern node that carries a
	// structurally invalid field (see pkg/pattern.Validate). The
	// matcher itself never raises it: a malformed node, such as a
	// TupleGetItem with an index below -1, is an ordinary non-match.
	KindMalformedPattern = "malformed_pattern"
	// KindDominatorCycle fires when the expression graph's dominator
	// walk would revisit a node already on the current path, which
	// means the caller handed the matcher a graph that isn't a DAG.
	KindDominatorCycle = "dominator_cycle"
	// KindNoGraph fires when a Dominator pattern is matched without a
	// WithGraph option configured on the Matcher.
	KindNoGraph = "no_graph"
	// KindNoVar2Val fires when WithAutoJump(true) is configured without
	// WithVarBindings supplying the var2val map it needs (spec §7).
	KindNoVar2Val = "no_var2val"
	// KindMemoRebind fires when a pattern already present in memo is
	// matched again against a different expression object — spec §7's
	// "a pattern memoized with more than one expression" condition.
	KindMemoRebind = "memo_rebind"
	// KindUnsupportedAttrValue fires when an Attr pattern's expected
	// value is neither a numeric, string, bool, nor expr.Expr kind —
	// spec §4.8 enumerates exactly which attribute-value kinds
	// match_retvalue supports.
	KindUnsupportedAttrValue = "unsupported_attr_value"
)

func newInvariantViolation(kind, format string, args ...interface{}) *InvariantViolation {
	return &InvariantViolation{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
