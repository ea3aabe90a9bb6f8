package dfpattern

import (
	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

// matchStructural dispatches every leaf and structural pattern kind
// (everything visit doesn't already special-case). Each case mirrors
// spec §4.2's per-node-kind rule: wildcards always succeed, typed
// leaves check the expr's dynamic kind (and, where applicable, a name
// hint), and structural nodes recurse field-by-field before reporting
// success.
func (m *Matcher) matchStructural(p pattern.Pattern, e expr.Expr) bool {
	switch pn := p.(type) {
	case *pattern.Wildcard:
		return true

	case *pattern.ExprLiteral:
		if !expr.StructuralEqualRegistered() {
			m.violate(newInvariantViolation(KindNoStructuralEqual,
				"ExprLiteral match requires expr.RegisterStructuralEqual to be called first"))
			return false
		}
		return expr.StructuralEqual(pn.Expr, e, expr.EqualOptions{})

	case *pattern.Var:
		ve, ok := e.(*expr.Var)
		if !ok {
			return false
		}
		if pn.NameHint != "" && ve.NameHint != pn.NameHint {
			return false
		}
		// Back-reference consistency (two occurrences of this same
		// *pattern.Var pointer binding to the same expression) is
		// enforced uniformly by visit's identity-keyed memo, not here.
		return true

	case *pattern.DataflowVar:
		ve, ok := e.(*expr.DataflowVar)
		if !ok {
			return false
		}
		if pn.NameHint != "" && ve.NameHint != pn.NameHint {
			return false
		}
		return true

	case *pattern.GlobalVar:
		ve, ok := e.(*expr.GlobalVar)
		if !ok {
			return false
		}
		if pn.NameHint != "" && ve.Name != pn.NameHint {
			return false
		}
		return true

	case *pattern.Op:
		ve, ok := e.(*expr.Op)
		if !ok {
			return false
		}
		return pn.Name == "" || ve.Name == pn.Name

	case *pattern.ExternFunc:
		ve, ok := e.(*expr.ExternFunc)
		if !ok {
			return false
		}
		if pn.Symbol != "" && ve.Symbol != pn.Symbol {
			return false
		}
		return true

	case *pattern.Constant:
		_, ok := e.(*expr.Constant)
		return ok

	case *pattern.RuntimeDepShape:
		_, ok := e.(*expr.RuntimeDepShape)
		return ok

	case *pattern.PrimArr:
		se, ok := e.(*expr.ShapeExpr)
		if !ok || len(se.Values) != len(pn.Values) {
			return false
		}
		for i, want := range pn.Values {
			if !m.analyzer.Equal(want, se.Values[i]) {
				return false
			}
		}
		return true

	case *pattern.Tuple:
		te, ok := e.(*expr.Tuple)
		if !ok {
			return false
		}
		if pn.Fields != nil && len(pn.Fields) != len(te.Fields) {
			return false
		}
		for i, fp := range pn.Fields {
			if !m.visit(fp, te.Fields[i]) {
				return false
			}
		}
		return true

	case *pattern.TupleGetItem:
		tg, ok := e.(*expr.TupleGetItem)
		if !ok {
			return false
		}
		if pn.Index != -1 && pn.Index != tg.Index {
			return false
		}
		return m.visit(pn.TuplePat, tg.Tuple)

	case *pattern.Call:
		return m.matchCall(pn, e)

	case *pattern.Function:
		fe, ok := e.(*expr.Function)
		if !ok {
			return false
		}
		if pn.Params != nil {
			if len(pn.Params) != len(fe.Params) {
				return false
			}
			for i, pp := range pn.Params {
				if !m.visit(pp, fe.Params[i]) {
					return false
				}
			}
		}
		return m.visit(pn.Body, fe.Body)

	case *pattern.If:
		ie, ok := e.(*expr.If)
		if !ok {
			return false
		}
		return m.visit(pn.Cond, ie.Cond) &&
			m.visit(pn.Then, ie.Then) &&
			m.visit(pn.Else, ie.Else)

	default:
		return false
	}
}

// violate reports an invariant violation through the configured
// logger, or panics if none was configured — matching the teacher's
// ContextMonitor convention that a nil monitor means "nobody is
// watching", not "silently ignore".
func (m *Matcher) violate(v *InvariantViolation) {
	if m.logger == nil {
		panic(v)
	}
	m.logger.Error(v.Error(), "kind", v.Kind)
}
