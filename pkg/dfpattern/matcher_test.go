package dfpattern

import (
	"testing"

	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/exprgraph"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

func TestMain(m *testing.M) {
	expr.RegisterStructuralEqual(expr.DefaultStructuralEqual)
	m.Run()
}

func call(opName string, args ...expr.Expr) *expr.Call {
	return expr.NewCall(expr.NewOp(opName), args, nil)
}

func TestMatchWildcard(t *testing.T) {
	if !Match(pattern.NewWildcard(), expr.NewConstant(1)) {
		t.Fatalf("wildcard must match anything")
	}
}

func TestMatchConstant(t *testing.T) {
	p := pattern.NewConstantPattern()
	if !Match(p, expr.NewConstant(42)) {
		t.Fatalf("Constant pattern must match a Constant expr")
	}
	if Match(p, expr.NewVar("x")) {
		t.Fatalf("Constant pattern must not match a Var")
	}
}

func TestMatchCallExact(t *testing.T) {
	p := pattern.NewCall(pattern.NewOp("relu"), pattern.NewWildcard())
	e := call("relu", expr.NewVar("x"))
	if !Match(p, e) {
		t.Fatalf("relu(x) must match Call(relu, *)")
	}
}

func TestMatchCallWrongArity(t *testing.T) {
	p := pattern.NewCall(pattern.NewOp("relu"), pattern.NewWildcard())
	e := call("relu", expr.NewVar("x"), expr.NewVar("y"))
	if Match(p, e) {
		t.Fatalf("relu(x, y) must not match a fixed 1-arg Call pattern")
	}
}

func TestMatchCommutativeAdd(t *testing.T) {
	a := expr.NewVar("a")
	b := expr.NewVar("b")
	e := call("add", a, b)

	pa := pattern.NewVar("a")
	pb := pattern.NewVar("b")
	p := pattern.NewCall(pattern.NewOp("add"), pb, pa)
	if !Match(p, e) {
		t.Fatalf("add(a, b) must match Call(add, [b_pat, a_pat]) via commutative retry")
	}
}

func TestMatchAssociativeMultiply(t *testing.T) {
	a := expr.NewVar("a")
	b := expr.NewVar("b")
	c := expr.NewVar("c")
	// (a * b) * c
	e := call("multiply", call("multiply", a, b), c)

	pa := pattern.NewVar("a")
	pb := pattern.NewVar("b")
	pc := pattern.NewVar("c")
	// a * (b * c)
	p := pattern.NewCall(pattern.NewOp("multiply"), pa, pattern.NewCall(pattern.NewOp("multiply"), pb, pc))
	if !Match(p, e) {
		t.Fatalf("(a*b)*c must match a*(b*c) via associative retry")
	}
}

func TestMatchDivideMultiplyAssociativity(t *testing.T) {
	a := expr.NewVar("a")
	b := expr.NewVar("b")
	c := expr.NewVar("c")
	// a * (b / c)
	e := call("multiply", a, call("divide", b, c))

	pa := pattern.NewVar("a")
	pb := pattern.NewVar("b")
	pc := pattern.NewVar("c")
	// (a * b) / c
	p := pattern.NewCall(pattern.NewOp("divide"), pattern.NewCall(pattern.NewOp("multiply"), pa, pb), pc)
	if !Match(p, e) {
		t.Fatalf("(a*b)/c must match a*(b/c) via the divide/multiply associative rewrite")
	}
}

func TestMatchMultiplyDivideAssociativity(t *testing.T) {
	a := expr.NewVar("a")
	b := expr.NewVar("b")
	c := expr.NewVar("c")
	// (a * b) / c
	e := call("divide", call("multiply", a, b), c)

	pa := pattern.NewVar("a")
	pb := pattern.NewVar("b")
	pc := pattern.NewVar("c")
	// a * (b / c)
	p := pattern.NewCall(pattern.NewOp("multiply"), pa, pattern.NewCall(pattern.NewOp("divide"), pb, pc))
	if !Match(p, e) {
		t.Fatalf("a*(b/c) must match (a*b)/c via the multiply/divide associative rewrite")
	}
}

func TestMatchVarNameHint(t *testing.T) {
	p := pattern.NewVar("x")
	if !Match(p, expr.NewVar("x")) {
		t.Fatalf("Var(x) must match a Var named x")
	}
	if Match(p, expr.NewVar("y")) {
		t.Fatalf("Var(x) must not match a Var named y")
	}
}

func TestMatchSameVarPatternRequiresConsistentBinding(t *testing.T) {
	pv := pattern.NewVar("")
	p := pattern.NewTuple(pv, pv)

	x := expr.NewVar("x")
	y := expr.NewVar("y")
	if !Match(p, expr.NewTuple(x, x)) {
		t.Fatalf("(v, v) must match (x, x): same pattern node, same expr both times")
	}

	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("(v, v) against (x, y) must violate: pattern node memoized to two different exprs")
			}
			if _, ok := r.(*InvariantViolation); !ok {
				t.Fatalf("expected *InvariantViolation panic, got %T: %v", r, r)
			}
		}()
		Match(p, expr.NewTuple(x, y))
	}()
}

// TestMatchRepeatedCallPatternEnforcesBackReference covers the
// maintainer-flagged gap: a non-Var pattern repeated within one tree
// (e.g. the same Call pattern object used twice) must enforce the
// same back-reference consistency a repeated Var pattern does, since
// memo is now keyed on pattern identity alone rather than only
// special-casing Var/DataflowVar/GlobalVar.
func TestMatchRepeatedCallPatternEnforcesBackReference(t *testing.T) {
	reluPat := pattern.NewCall(pattern.NewOp("relu"), pattern.NewWildcard())
	p := pattern.NewTuple(reluPat, reluPat)

	a := expr.NewVar("a")
	reluA := call("relu", a)
	if !Match(p, expr.NewTuple(reluA, reluA)) {
		t.Fatalf("(relu(*), relu(*)) with one shared pattern node must match (relu(a), relu(a))")
	}

	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("(relu(*), relu(*)) must violate against (relu(a), relu(b)): same pattern node matched two distinct call objects")
			}
			if _, ok := r.(*InvariantViolation); !ok {
				t.Fatalf("expected *InvariantViolation panic, got %T: %v", r, r)
			}
		}()
		b := expr.NewVar("b")
		Match(p, expr.NewTuple(reluA, call("relu", b)))
	}()
}

func TestMatchAlt(t *testing.T) {
	p := pattern.NewAlt(pattern.NewCallAnyArity(pattern.NewOp("relu")), pattern.NewCallAnyArity(pattern.NewOp("sigmoid")))
	if !Match(p, call("sigmoid", expr.NewVar("x"))) {
		t.Fatalf("Alt(relu(*), sigmoid(*)) must match sigmoid(x)")
	}
	if Match(p, call("tanh", expr.NewVar("x"))) {
		t.Fatalf("Alt(relu(*), sigmoid(*)) must not match tanh(x)")
	}
}

func TestMatchNot(t *testing.T) {
	isRelu := pattern.NewCallAnyArity(pattern.NewOp("relu"))
	p := pattern.NewNot(isRelu)
	if Match(p, call("relu", expr.NewVar("x"))) {
		t.Fatalf("Not(relu(*)) must not match relu(x)")
	}
	if !Match(p, call("sigmoid", expr.NewVar("x"))) {
		t.Fatalf("Not(relu(*)) must match sigmoid(x)")
	}
}

func TestMatchDataType(t *testing.T) {
	x := expr.NewVar("x")
	x.SetCheckedType(expr.TensorType{DType: "float32"})
	p := pattern.NewDataType(pattern.NewWildcard(), expr.DType("float32"))
	if !Match(p, x) {
		t.Fatalf("DataType(*, float32) must match a float32-typed Var")
	}

	y := expr.NewVar("y")
	y.SetCheckedType(expr.TensorType{DType: "int32"})
	if Match(p, y) {
		t.Fatalf("DataType(*, float32) must not match an int32-typed Var")
	}
}

func TestMatchAutoJump(t *testing.T) {
	a := expr.NewVar("a")
	b := expr.NewVar("b")
	v := expr.NewVar("v")
	bound := call("add", a, b)

	p := pattern.NewCall(pattern.NewOp("add"), pattern.NewWildcard(), pattern.NewWildcard())

	v2v := map[expr.Expr]expr.Expr{v: bound}
	if !Match(p, v, WithAutoJump(true), WithVarBindings(v2v)) {
		t.Fatalf("Call(add, [*, *]) must match v via auto-jump when v2v binds v to add(a, b)")
	}
	if Match(p, v) {
		t.Fatalf("Call(add, [*, *]) must not match v when autojump is off: v is a Var, not a Call")
	}
}

func TestMatchAutoJumpWithoutVar2ValViolates(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("requesting autojump with no var2val configured must panic with an InvariantViolation")
		}
		if _, ok := r.(*InvariantViolation); !ok {
			t.Fatalf("expected *InvariantViolation panic, got %T: %v", r, r)
		}
	}()
	Match(pattern.NewWildcard(), expr.NewConstant(1), WithAutoJump(true))
}

func TestMatchDominator(t *testing.T) {
	x := expr.NewVar("x")
	w := expr.NewVar("w")
	conv := call("conv2d", x, w)
	relu := call("relu", conv)
	bias := expr.NewVar("bias")
	add := call("add", relu, bias)

	g := exprgraph.Build(add)

	child := pattern.NewCallAnyArity(pattern.NewOp("conv2d"))
	path := pattern.NewCallAnyArity(pattern.NewOp("relu"))
	parent := pattern.NewCallAnyArity(pattern.NewOp("add"))
	dom := pattern.NewDominator(child, path, parent)

	if !Match(dom, conv, WithGraph(g)) {
		t.Fatalf("conv2d must be dominated by add through a relu-only path")
	}
}
