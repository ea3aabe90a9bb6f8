package oracle

import (
	"testing"

	"github.com/gitrdm/dfpattern/pkg/expr"
)

func TestSimplifyConstantFolds(t *testing.T) {
	a := NewAnalyzer()
	e := expr.PrimBinOp{Op: "+", Left: expr.PrimIntImm{Value: 2}, Right: expr.PrimIntImm{Value: 3}}
	got := a.Simplify(e)
	if imm, ok := got.(expr.PrimIntImm); !ok || imm.Value != 5 {
		t.Fatalf("expected constant-folded 5, got %v", got)
	}
}

func TestSimplifyLeavesSymbolicUntouched(t *testing.T) {
	a := NewAnalyzer()
	e := expr.PrimBinOp{Op: "*", Left: expr.PrimVar{Name: "n"}, Right: expr.PrimIntImm{Value: 1}}
	got := a.Simplify(e)
	bin, ok := got.(expr.PrimBinOp)
	if !ok {
		t.Fatalf("expected a PrimBinOp with the symbolic operand preserved, got %v", got)
	}
	if _, ok := bin.Left.(expr.PrimVar); !ok {
		t.Fatalf("symbolic PrimVar must survive simplification untouched")
	}
}

func TestEqualComparesNormalForms(t *testing.T) {
	a := NewAnalyzer()
	x := expr.PrimBinOp{Op: "+", Left: expr.PrimIntImm{Value: 1}, Right: expr.PrimIntImm{Value: 1}}
	y := expr.PrimIntImm{Value: 2}
	if !a.Equal(x, y) {
		t.Fatalf("1+1 must simplify equal to 2")
	}
	z := expr.PrimIntImm{Value: 3}
	if a.Equal(x, z) {
		t.Fatalf("1+1 must not equal 3")
	}
}

func TestInferTypeReadsCheckedType(t *testing.T) {
	v := expr.NewVar("x")
	want := expr.TensorType{DType: "float32"}
	v.SetCheckedType(want)
	if got := InferType(v); got == nil || !got.Equal(want) {
		t.Fatalf("InferType must read back an already-checked type, got %v", got)
	}
}

func TestInferTypeComposesTuple(t *testing.T) {
	a := expr.NewVar("a")
	a.SetCheckedType(expr.TensorType{DType: "int64"})
	b := expr.NewVar("b")
	b.SetCheckedType(expr.TensorType{DType: "float32"})
	tup := expr.NewTuple(a, b)

	got, ok := InferType(tup).(expr.TupleType)
	if !ok || len(got.Fields) != 2 {
		t.Fatalf("expected a two-field TupleType, got %v", InferType(tup))
	}
	if !got.Fields[0].Equal(expr.TensorType{DType: "int64"}) {
		t.Fatalf("first field type mismatch: %v", got.Fields[0])
	}
}

func TestInferTypeTupleGetItemProjectsField(t *testing.T) {
	a := expr.NewVar("a")
	a.SetCheckedType(expr.TensorType{DType: "int64"})
	b := expr.NewVar("b")
	b.SetCheckedType(expr.TensorType{DType: "float32"})
	tup := expr.NewTuple(a, b)
	proj := expr.NewTupleGetItem(tup, 1)

	got := InferType(proj)
	if got == nil || !got.Equal(expr.TensorType{DType: "float32"}) {
		t.Fatalf("expected projected field 1's type, got %v", got)
	}
}

func TestInferTypeTupleGetItemOutOfRangeIsNil(t *testing.T) {
	tup := expr.NewTuple(expr.NewVar("a"))
	proj := expr.NewTupleGetItem(tup, 5)
	if got := InferType(proj); got != nil {
		t.Fatalf("out-of-range projection must infer nil, got %v", got)
	}
}

func TestInferTypeUnknownLeafIsNil(t *testing.T) {
	if got := InferType(expr.NewVar("unannotated")); got != nil {
		t.Fatalf("an unannotated leaf must infer nil, got %v", got)
	}
}
