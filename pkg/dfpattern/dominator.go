package dfpattern

import (
	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

// matchDominator implements spec §4.7: Child must match the candidate
// node itself; walking from there toward the graph's root along the
// dominator tree's immediate-dominator chain, every node strictly
// between the candidate and the eventual match for Parent must match
// Path, and some ancestor along that chain must match Parent.
//
// The walk follows the teacher's trail/undo discipline
// (pkg/minikanren/fd.go): at each ancestor it takes a watermark and
// tries Parent. A Parent match ends the walk with its bindings kept; a
// failed attempt is rolled back and Path is tried instead, with
// memoization suspended so the same Path pattern can match every
// intermediate ancestor. A Path match advances one step up the chain;
// a Path failure fails the whole pattern.
func (m *Matcher) matchDominator(p *pattern.Dominator, e expr.Expr) bool {
	if m.graph == nil {
		m.violate(newInvariantViolation(KindNoGraph,
			"Dominator pattern requires WithGraph, none configured"))
		return false
	}
	if !m.visit(p.Child, e) {
		return false
	}

	visited := map[expr.Expr]bool{e: true}
	cur := m.graph.ImmediateDominator(e)
	for cur != nil {
		if visited[cur] {
			m.violate(newInvariantViolation(KindDominatorCycle,
				"dominator chain revisited a node; graph is not a DAG"))
			return false
		}
		visited[cur] = true

		mark := m.watermark()
		if m.visit(p.Parent, cur) {
			return true
		}
		m.rollback(mark)

		mark = m.watermark()
		saved := m.memoize
		m.memoize = false
		onPath := m.visit(p.Path, cur)
		m.memoize = saved
		if onPath {
			cur = m.graph.ImmediateDominator(cur)
			continue
		}
		m.rollback(mark)
		return false
	}
	return false
}
