package exprgraph

import (
	"testing"

	"github.com/gitrdm/dfpattern/pkg/expr"
)

// conv(x, w) -> relu(conv) -> add(relu, conv): the relu call's only
// predecessor is the add, while conv is reached from add both directly
// and through relu, so its two predecessors exercise the
// multi-predecessor dominator merge.
func buildDiamond() (expr.Expr, expr.Expr, expr.Expr, expr.Expr) {
	x := expr.NewVar("x")
	w := expr.NewVar("w")
	convOp := expr.NewOp("conv2d")
	conv := expr.NewCall(convOp, []expr.Expr{x, w}, nil)
	reluOp := expr.NewOp("relu")
	relu := expr.NewCall(reluOp, []expr.Expr{conv}, nil)
	addOp := expr.NewOp("add")
	add := expr.NewCall(addOp, []expr.Expr{relu, conv}, nil)
	return add, relu, conv, x
}

func TestBuildInputs(t *testing.T) {
	root, relu, conv, _ := buildDiamond()
	g := Build(root)

	ins := g.Inputs(root)
	if len(ins) != 3 {
		t.Fatalf("add: expected 3 inputs (op, relu, conv), got %d", len(ins))
	}
	if ins[1] != relu || ins[2] != conv {
		t.Fatalf("add inputs out of order: %v", ins)
	}
}

func TestDominatorTreeDiamond(t *testing.T) {
	root, relu, conv, x := buildDiamond()
	g := Build(root)

	if g.ImmediateDominator(root) != nil {
		t.Fatalf("root must have no dominator")
	}
	if !g.Dominates(root, conv) {
		t.Fatalf("root must dominate every reachable node")
	}
	if !g.Dominates(root, relu) {
		t.Fatalf("root must dominate relu")
	}
	// add reaches conv two ways: directly, and via relu. Neither relu
	// nor conv strictly dominates the other -- both are direct
	// children of root in the dominator tree.
	if g.Dominates(relu, conv) {
		t.Fatalf("relu must not dominate conv: add also reaches conv directly")
	}
	if g.Dominates(conv, relu) {
		t.Fatalf("conv must not dominate relu: relu's only predecessor is root")
	}
	if !g.Dominates(root, x) {
		t.Fatalf("root must dominate x")
	}
}

func TestDominatorChildren(t *testing.T) {
	root, relu, conv, _ := buildDiamond()
	g := Build(root)

	kids := g.DominatorChildren(root)
	haveRelu, haveConv := false, false
	for _, k := range kids {
		if k == relu {
			haveRelu = true
		}
		if k == conv {
			haveConv = true
		}
	}
	if !haveRelu || !haveConv {
		t.Fatalf("root's dominator children must include both relu and conv, got %v", kids)
	}
}
