package dfpattern

import (
	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

// commutativeOps names the ops whose two-argument calls may match a
// pattern with its arguments in either order (spec §4.3).
var commutativeOps = map[string]bool{"add": true, "multiply": true}

// associativeOps names the ops flattenAssociative will chase through
// nested calls before trying every argument-to-leaf permutation (spec
// §4.3). Only add/multiply are both associative and commutative in
// this IR's algebra, so these are the only two ops worth the
// combinatorial retry; "subtract"/"divide" are neither and match in
// strict declared order only.
var associativeOps = map[string]bool{"add": true, "multiply": true}

func opName(e expr.Expr) (string, bool) {
	op, ok := e.(*expr.Op)
	if !ok {
		return "", false
	}
	return op.Name, true
}

func patOpName(p pattern.Pattern) (string, bool) {
	switch n := p.(type) {
	case *pattern.Op:
		return n.Name, true
	case *pattern.ExternFunc:
		return n.Symbol, true
	case *pattern.GlobalVar:
		return n.NameHint, true
	default:
		return "", false
	}
}

// matchCall matches a Call pattern against a candidate expr.Call. It
// first tries arguments in declared order; if that fails and the
// callee names a commutative op, it retries with the two arguments
// swapped; if that still fails and the callee names an associative
// op, it flattens both pattern and expression into their leaf
// arguments (descending through nested calls of the same op) and
// tries every permutation of expression leaves against the pattern
// leaves in declared order. Every retry rolls back whatever bindings
// the previous attempt left behind before trying the next.
func (m *Matcher) matchCall(pn *pattern.Call, e expr.Expr) bool {
	ce, ok := e.(*expr.Call)
	if !ok {
		return false
	}
	if pn.Args != nil && len(pn.Args) != len(ce.Args) {
		if !m.tryAssociative(pn, ce) {
			return false
		}
		return true
	}

	mark := m.watermark()
	if m.visit(pn.Op, ce.Op) && m.matchArgsInOrder(pn.Args, ce.Args) {
		return true
	}
	m.rollback(mark)

	name, named := opName(ce.Op)
	if named && pn.Args != nil && len(pn.Args) == 2 && len(ce.Args) == 2 && commutativeOps[name] {
		mark = m.watermark()
		swapped := []expr.Expr{ce.Args[1], ce.Args[0]}
		if m.visit(pn.Op, ce.Op) && m.matchArgsInOrder(pn.Args, swapped) {
			return true
		}
		m.rollback(mark)
	}

	if named && associativeOps[name] {
		if m.tryAssociative(pn, ce) {
			return true
		}
	}
	return m.tryDivideMultiplyRewrite(pn, ce)
}

// tryDivideMultiplyRewrite implements spec §4.3's two hard-coded
// cross-op associative rewrites, the one case flattenAssociative can
// never reach because it only descends through nodes sharing a single
// op name: a pattern built around one of divide/multiply can still
// match an expression built around the other, because algebraically
// (a*b)/c == a*(b/c) == b*(a/c). Both directions construct a synthetic
// pattern and recurse through visit rather than mutating pn/ce, exactly
// as spec §4.3 requires ("never mutate inputs").
func (m *Matcher) tryDivideMultiplyRewrite(pn *pattern.Call, ce *expr.Call) bool {
	name, named := patOpName(pn.Op)
	if !named {
		return false
	}
	switch name {
	case "divide":
		return m.tryDivideRewrite(pn, ce)
	case "multiply":
		return m.tryMultiplyRewrite(pn, ce)
	default:
		return false
	}
}

// tryDivideRewrite handles a `divide(multiply(a, b), c)` pattern
// against a `multiply(x, y)` expression whose operands include a
// divide: it tries both `multiply(b, divide(a, c))` and
// `multiply(a, divide(b, c))` against the expression, rolling back
// between attempts (spec §4.3, first bullet).
func (m *Matcher) tryDivideRewrite(pn *pattern.Call, ce *expr.Call) bool {
	if len(pn.Args) != 2 {
		return false
	}
	inner, ok := pn.Args[0].(*pattern.Call)
	if !ok {
		return false
	}
	innerName, ok := patOpName(inner.Op)
	if !ok || innerName != "multiply" || len(inner.Args) != 2 {
		return false
	}
	ceName, named := opName(ce.Op)
	if !named || ceName != "multiply" || len(ce.Args) != 2 {
		return false
	}
	if !hasDivideOperand(ce) {
		return false
	}

	aPat, bPat := inner.Args[0], inner.Args[1]
	cPat := pn.Args[1]

	mark := m.watermark()
	rewrite1 := pattern.NewCall(inner.Op, bPat, pattern.NewCall(pattern.NewOp("divide"), aPat, cPat))
	if m.visit(rewrite1, ce) {
		return true
	}
	m.rollback(mark)

	mark = m.watermark()
	rewrite2 := pattern.NewCall(inner.Op, aPat, pattern.NewCall(pattern.NewOp("divide"), bPat, cPat))
	if m.visit(rewrite2, ce) {
		return true
	}
	m.rollback(mark)
	return false
}

// tryMultiplyRewrite handles a `multiply(a_or_other, divide(a, b))`
// pattern against a `divide(x, y)` expression whose numerator or
// denominator is itself a multiply: it tries the single rewrite
// `divide(multiply(a, other), b)` against the expression (spec §4.3,
// second bullet).
func (m *Matcher) tryMultiplyRewrite(pn *pattern.Call, ce *expr.Call) bool {
	if len(pn.Args) != 2 {
		return false
	}
	var divPat *pattern.Call
	var otherPat pattern.Pattern
	for i, a := range pn.Args {
		if c, ok := a.(*pattern.Call); ok {
			if n, ok := patOpName(c.Op); ok && n == "divide" && len(c.Args) == 2 {
				divPat = c
				otherPat = pn.Args[1-i]
				break
			}
		}
	}
	if divPat == nil {
		return false
	}
	ceName, named := opName(ce.Op)
	if !named || ceName != "divide" || len(ce.Args) != 2 {
		return false
	}
	if !hasMultiplyOperand(ce) {
		return false
	}

	aPat, bPat := divPat.Args[0], divPat.Args[1]
	rewrite := pattern.NewCall(pattern.NewOp("divide"), pattern.NewCall(pn.Op, aPat, otherPat), bPat)
	return m.visit(rewrite, ce)
}

func hasDivideOperand(ce *expr.Call) bool {
	for _, a := range ce.Args {
		if c, ok := a.(*expr.Call); ok {
			if n, ok := opName(c.Op); ok && n == "divide" {
				return true
			}
		}
	}
	return false
}

func hasMultiplyOperand(ce *expr.Call) bool {
	for _, a := range ce.Args {
		if c, ok := a.(*expr.Call); ok {
			if n, ok := opName(c.Op); ok && n == "multiply" {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) matchArgsInOrder(pats []pattern.Pattern, args []expr.Expr) bool {
	if pats == nil {
		return true
	}
	if len(pats) != len(args) {
		return false
	}
	for i, p := range pats {
		if !m.visit(p, args[i]) {
			return false
		}
	}
	return true
}

// flattenAssociative collects e's leaf arguments by repeatedly
// descending into nested *expr.Call nodes that share e's op name,
// exactly the way a parser would flatten a chain of left-associated
// binary operators into an n-ary operand list.
func flattenAssociative(e *expr.Call, name string) []expr.Expr {
	var leaves []expr.Expr
	var walk func(expr.Expr)
	walk = func(x expr.Expr) {
		if c, ok := x.(*expr.Call); ok {
			if n, ok := opName(c.Op); ok && n == name && len(c.Args) == 2 {
				walk(c.Args[0])
				walk(c.Args[1])
				return
			}
		}
		leaves = append(leaves, x)
	}
	walk(e)
	return leaves
}

// flattenAssociativePattern mirrors flattenAssociative on the pattern
// side: it only descends through nested two-argument Call patterns
// whose op pattern names the same associative op or is a Wildcard, so
// a pattern like Call(multiply, [Call(multiply, [a, b]), c]) flattens
// to [a, b, c].
func flattenAssociativePattern(p *pattern.Call, name string) []pattern.Pattern {
	var leaves []pattern.Pattern
	var walk func(pattern.Pattern)
	walk = func(x pattern.Pattern) {
		if c, ok := x.(*pattern.Call); ok {
			if n, ok := patOpName(c.Op); ok && n == name && len(c.Args) == 2 {
				walk(c.Args[0])
				walk(c.Args[1])
				return
			}
			if _, isWildcard := c.Op.(*pattern.Wildcard); isWildcard && len(c.Args) == 2 {
				walk(c.Args[0])
				walk(c.Args[1])
				return
			}
		}
		leaves = append(leaves, x)
	}
	walk(p)
	return leaves
}

// tryAssociative flattens both sides and tries every permutation of
// the expression's leaves against the pattern's leaves in declared
// order, rolling back between attempts. Permutations are generated
// lazily (Heap's algorithm) so the common case — a small, few-leaf
// chain — never materializes more candidates than it needs.
func (m *Matcher) tryAssociative(pn *pattern.Call, ce *expr.Call) bool {
	name, named := opName(ce.Op)
	if !named || !associativeOps[name] {
		return false
	}
	leavesExpr := flattenAssociative(ce, name)
	leavesPat := flattenAssociativePattern(pn, name)
	if len(leavesExpr) != len(leavesPat) {
		return false
	}

	found := false
	permute(leavesExpr, func(perm []expr.Expr) bool {
		mark := m.watermark()
		ok := true
		for i, p := range leavesPat {
			if !m.visit(p, perm[i]) {
				ok = false
				break
			}
		}
		if ok {
			found = true
			return true
		}
		m.rollback(mark)
		return false
	})
	return found
}

// permute calls visit for every permutation of items, stopping early
// the moment visit reports true.
func permute(items []expr.Expr, visit func([]expr.Expr) bool) {
	n := len(items)
	buf := append([]expr.Expr(nil), items...)
	var helper func(k int) bool
	helper = func(k int) bool {
		if k == 1 {
			return visit(buf)
		}
		for i := 0; i < k; i++ {
			if helper(k - 1) {
				return true
			}
			if k%2 == 0 {
				buf[i], buf[k-1] = buf[k-1], buf[i]
			} else {
				buf[0], buf[k-1] = buf[k-1], buf[0]
			}
		}
		return false
	}
	if n == 0 {
		visit(buf)
		return
	}
	helper(n)
}
