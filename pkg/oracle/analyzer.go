// Package oracle provides the pure collaborators the matcher consults
// but does not implement itself: type inference and arithmetic
// simplification over symbolic shape dimensions (spec §3, §6).
package oracle

import "github.com/gitrdm/dfpattern/pkg/expr"

// Analyzer simplifies PrimExpr dimensions enough to decide whether two
// symbolic shape dimensions are equal (spec §4.5: "each symbolic
// dimension pattern_dims[i] == actual_dims[i] simplifies to one under
// the arithmetic analyzer"). It is deliberately a normalizer, not a
// general-purpose symbolic algebra system — exactly the scope spec §9
// assigns it ("no general algebraic rewriter is implied").
type Analyzer struct{}

// NewAnalyzer constructs an Analyzer. It carries no state: shape
// dimension equality in this IR needs no per-match context, only a
// normal form to compare against.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Simplify reduces a PrimExpr to a normal form: constant-folds nested
// PrimBinOp nodes over PrimIntImm operands and leaves symbolic PrimVar
// leaves untouched. Operands are never reordered or reassociated, so
// (n + 1) + 2 and n + 3 keep different normal forms.
func (a *Analyzer) Simplify(e expr.PrimExpr) expr.PrimExpr {
	switch n := e.(type) {
	case expr.PrimIntImm, expr.PrimVar:
		return n
	case expr.PrimBinOp:
		left := a.Simplify(n.Left)
		right := a.Simplify(n.Right)
		li, lok := left.(expr.PrimIntImm)
		ri, rok := right.(expr.PrimIntImm)
		if lok && rok {
			switch n.Op {
			case "+":
				return expr.PrimIntImm{Value: li.Value + ri.Value}
			case "-":
				return expr.PrimIntImm{Value: li.Value - ri.Value}
			case "*":
				return expr.PrimIntImm{Value: li.Value * ri.Value}
			}
		}
		return expr.PrimBinOp{Op: n.Op, Left: left, Right: right}
	default:
		return e
	}
}

// Equal reports whether two PrimExprs simplify to the same normal
// form — the predicate Shape-pattern matching (spec §4.5) needs.
func (a *Analyzer) Equal(x, y expr.PrimExpr) bool {
	return a.Simplify(x).String() == a.Simplify(y).String()
}
