package dfpattern

import (
	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

// matchAlt succeeds iff Left or Right matches, short-circuiting on
// Left and rolling back whatever Left's failed attempt bound before
// trying Right (spec §4.6).
func (m *Matcher) matchAlt(p *pattern.Alt, e expr.Expr) bool {
	mark := m.watermark()
	if m.visit(p.Left, e) {
		return true
	}
	m.rollback(mark)
	return m.visit(p.Right, e)
}

// matchAnd succeeds iff both Left and Right match.
func (m *Matcher) matchAnd(p *pattern.And, e expr.Expr) bool {
	mark := m.watermark()
	if m.visit(p.Left, e) && m.visit(p.Right, e) {
		return true
	}
	m.rollback(mark)
	return false
}

// matchNot succeeds iff Reject fails, and never leaves a binding
// behind regardless of which way Reject went (spec §4.6: Not never
// itself introduces bindings).
func (m *Matcher) matchNot(p *pattern.Not, e expr.Expr) bool {
	mark := m.watermark()
	ok := m.visit(p.Reject, e)
	m.rollback(mark)
	return !ok
}
