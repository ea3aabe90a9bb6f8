// Package exprgraph builds the derived structure the dominator pattern
// (pkg/pattern Dominator, spec §4.7) needs: for a rooted expression tree,
// the set of every reachable node, each node's direct inputs, and each
// node's children in the dominator tree computed over the "root reaches
// node only through its inputs" relation.
//
// A node N dominates a node M iff every path from the graph's root to M
// passes through N. Shared subexpressions (the same *Call appearing as
// an argument to two different calls, say) give nodes more than one
// predecessor, so dominance here is the same fixpoint computation a
// compiler runs over a control-flow graph, not a plain tree-parent
// lookup — it just runs over expr.Expr's input edges instead of
// successor edges.
package exprgraph

import "github.com/gitrdm/dfpattern/pkg/expr"

// Graph is the expression DAG rooted at Root, with both its raw input
// edges and its derived dominator tree.
type Graph struct {
	Root Expr

	nodes   []expr.Expr          // postorder (children before parents, root last); see Build
	index   map[expr.Expr]int    // node -> position in nodes
	inputs  map[expr.Expr][]expr.Expr
	preds   map[expr.Expr][]expr.Expr
	idom    map[expr.Expr]expr.Expr
	domKids map[expr.Expr][]expr.Expr
}

// Expr is a type alias retained for readability at call sites; it is
// exactly expr.Expr.
type Expr = expr.Expr

// Build walks root's inputs to collect every reachable node, then
// computes the immediate dominator of each node using the standard
// iterative reverse-postorder fixpoint (Cooper/Harvey/Kennedy): it
// converges in a small constant number of passes for the shallow,
// mostly-tree-shaped graphs this IR produces, and needs no auxiliary
// tree structure the way a recursive formulation would.
//
// The traversal itself follows the teacher's iterative, explicit-stack
// DFS (pkg/minikanren/search.go's DFSSearch.Search) rather than
// recursion, so arbitrarily deep dataflow graphs can't blow the Go
// stack.
func Build(root expr.Expr) *Graph {
	g := &Graph{
		Root:    root,
		index:   make(map[expr.Expr]int),
		inputs:  make(map[expr.Expr][]expr.Expr),
		preds:   make(map[expr.Expr][]expr.Expr),
		idom:    make(map[expr.Expr]expr.Expr),
		domKids: make(map[expr.Expr][]expr.Expr),
	}
	g.nodes = postorder(root, g.inputs)
	for i, n := range g.nodes {
		g.index[n] = i
	}
	for n, ins := range g.inputs {
		for _, in := range ins {
			g.preds[in] = append(g.preds[in], n)
		}
	}
	g.computeDominators()
	return g
}

// Inputs returns n's direct operands in declaration order, or nil if n
// has none or is not part of the graph.
func (g *Graph) Inputs(n expr.Expr) []expr.Expr { return g.inputs[n] }

// ImmediateDominator returns the node that immediately dominates n, or
// nil for the root (which has no dominator) or for a node not in the
// graph.
func (g *Graph) ImmediateDominator(n expr.Expr) expr.Expr { return g.idom[n] }

// DominatorChildren returns the nodes whose immediate dominator is n —
// n's children in the dominator tree (spec §4.7's "dominator_children").
func (g *Graph) DominatorChildren(n expr.Expr) []expr.Expr { return g.domKids[n] }

// Dominates reports whether a dominates b (reflexively: every node
// dominates itself).
func (g *Graph) Dominates(a, b expr.Expr) bool {
	if a == b {
		return true
	}
	cur := g.idom[b]
	for cur != nil {
		if cur == a {
			return true
		}
		cur = g.idom[cur]
	}
	return false
}

// postorder returns every node reachable from root in postorder
// (children before parents), recording each node's direct inputs along
// the way. A node already visited is not revisited or re-recorded,
// matching the "nodes" part of spec §4.9 (the graph, not a multiset of
// paths).
func postorder(root expr.Expr, inputsOut map[expr.Expr][]expr.Expr) []expr.Expr {
	type frame struct {
		node     expr.Expr
		children []expr.Expr
		next     int
	}
	visited := make(map[expr.Expr]bool)
	var order []expr.Expr
	if root == nil {
		return order
	}

	stack := []frame{{node: root, children: directInputs(root)}}
	visited[root] = true
	inputsOut[root] = stack[0].children

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.children) {
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.children[top.next]
		top.next++
		if child == nil || visited[child] {
			continue
		}
		visited[child] = true
		childInputs := directInputs(child)
		inputsOut[child] = childInputs
		stack = append(stack, frame{node: child, children: childInputs})
	}
	return order
}

// directInputs enumerates e's immediate operand expressions, in the
// order spec §4.1's structural recursion visits them.
func directInputs(e expr.Expr) []expr.Expr {
	switch n := e.(type) {
	case *expr.Tuple:
		return append([]expr.Expr(nil), n.Fields...)
	case *expr.TupleGetItem:
		return []expr.Expr{n.Tuple}
	case *expr.Call:
		out := make([]expr.Expr, 0, len(n.Args)+1)
		out = append(out, n.Op)
		out = append(out, n.Args...)
		return out
	case *expr.Function:
		out := append([]expr.Expr(nil), n.Params...)
		return append(out, n.Body)
	case *expr.If:
		return []expr.Expr{n.Cond, n.Then, n.Else}
	default:
		// Leaves: Var, DataflowVar, GlobalVar, ExternFunc, Op,
		// Constant, ShapeExpr, RuntimeDepShape have no operands.
		return nil
	}
}

// computeDominators runs the iterative dataflow fixpoint over g.nodes
// (already in postorder; reversed below gives reverse postorder, the
// order the algorithm wants processed).
func (g *Graph) computeDominators() {
	if len(g.nodes) == 0 {
		return
	}
	rpo := make([]expr.Expr, len(g.nodes))
	for i, n := range g.nodes {
		rpo[len(g.nodes)-1-i] = n
	}
	rpoIndex := make(map[expr.Expr]int, len(rpo))
	for i, n := range rpo {
		rpoIndex[n] = i
	}

	root := rpo[0]
	g.idom[root] = nil

	changed := true
	for changed {
		changed = false
		for _, n := range rpo[1:] {
			var newIdom expr.Expr
			haveIdom := false
			for _, p := range g.preds[n] {
				if _, ok := rpoIndex[p]; !ok {
					continue
				}
				if _, processed := g.idom[p]; !processed {
					continue
				}
				if !haveIdom {
					newIdom = p
					haveIdom = true
					continue
				}
				newIdom = intersect(g.idom, rpoIndex, newIdom, p, root)
			}
			if prev, ok := g.idom[n]; !ok || prev != newIdom {
				g.idom[n] = newIdom
				changed = true
			}
		}
	}

	g.domKids = make(map[expr.Expr][]expr.Expr, len(g.nodes))
	for _, n := range g.nodes {
		if n == root {
			continue
		}
		parent := g.idom[n]
		g.domKids[parent] = append(g.domKids[parent], n)
	}
}

// intersect finds the common ancestor of a and b in the dominator tree
// built so far, walking each toward the root by rpo index (the classic
// "finger" walk from Cooper/Harvey/Kennedy).
func intersect(idom map[expr.Expr]expr.Expr, rpoIndex map[expr.Expr]int, a, b, root expr.Expr) expr.Expr {
	for a != b {
		for a != nil && b != nil && rpoIndex[a] > rpoIndex[b] {
			a = idom[a]
		}
		for a != nil && b != nil && rpoIndex[b] > rpoIndex[a] {
			b = idom[b]
		}
		if a == nil || b == nil {
			return root
		}
	}
	return a
}
