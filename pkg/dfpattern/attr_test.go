package dfpattern

import (
	"testing"

	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/opattrs"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

func TestMatchAttrOnCallOwnAttrs(t *testing.T) {
	e := expr.NewCall(expr.NewOp("conv2d"), []expr.Expr{expr.NewVar("x"), expr.NewVar("w")},
		map[string]interface{}{"padding": "SAME"})

	p := pattern.NewAttr(pattern.NewCallAnyArity(pattern.NewOp("conv2d")), map[string]interface{}{"padding": "SAME"})
	if !Match(p, e) {
		t.Fatalf("Attr(conv2d(*), padding=SAME) must match a call whose own attrs carry padding=SAME")
	}

	wrong := pattern.NewAttr(pattern.NewCallAnyArity(pattern.NewOp("conv2d")), map[string]interface{}{"padding": "VALID"})
	if Match(wrong, e) {
		t.Fatalf("Attr(conv2d(*), padding=VALID) must not match a call whose padding attr is SAME")
	}
}

func TestMatchAttrOnOpExpression(t *testing.T) {
	reg := &opattrs.Registry{Ops: map[string]opattrs.OpSpec{
		"conv2d": {Attrs: map[string]interface{}{"padding": "SAME", "units": int64(4)}},
	}}

	conv := expr.NewCall(expr.NewOp("conv2d"), []expr.Expr{expr.NewVar("x"), expr.NewVar("w")}, nil)

	opPat := pattern.NewAttr(pattern.NewOp("conv2d"), map[string]interface{}{"padding": "SAME"})
	p := pattern.NewCall(opPat, pattern.NewWildcard(), pattern.NewWildcard())
	if !Match(p, conv, WithOpAttrs(reg)) {
		t.Fatalf("Attr(Op(conv2d), padding=SAME) must match via the op-attribute registry, not the call's own attrs")
	}

	opPatWrong := pattern.NewAttr(pattern.NewOp("conv2d"), map[string]interface{}{"padding": "VALID"})
	pWrong := pattern.NewCall(opPatWrong, pattern.NewWildcard(), pattern.NewWildcard())
	if Match(pWrong, conv, WithOpAttrs(reg)) {
		t.Fatalf("Attr(Op(conv2d), padding=VALID) must not match when the registry says padding=SAME")
	}
}

func TestMatchAttrOnOpExpressionUnknownOpFails(t *testing.T) {
	reg := &opattrs.Registry{Ops: map[string]opattrs.OpSpec{}}
	relu := expr.NewCall(expr.NewOp("relu"), []expr.Expr{expr.NewVar("x")}, nil)

	opPat := pattern.NewAttr(pattern.NewOp("relu"), map[string]interface{}{"inplace": true})
	p := pattern.NewCall(opPat, pattern.NewWildcard())
	if Match(p, relu, WithOpAttrs(reg)) {
		t.Fatalf("an op with no registry entry must not match a non-empty Attr pattern")
	}
}

func TestMatchAttrOnOpExpressionNoRegistryViolatesWhenAttrsRequested(t *testing.T) {
	relu := expr.NewCall(expr.NewOp("relu"), []expr.Expr{expr.NewVar("x")}, nil)
	opPat := pattern.NewAttr(pattern.NewOp("relu"), map[string]interface{}{"inplace": true})
	p := pattern.NewCall(opPat, pattern.NewWildcard())

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("Attr pattern against a bare Op with no WithOpAttrs configured must violate")
		}
		if iv, ok := r.(*InvariantViolation); !ok || iv.Kind != KindNoOpAttrs {
			t.Fatalf("expected *InvariantViolation{Kind: KindNoOpAttrs}, got %#v", r)
		}
	}()
	Match(p, relu)
}

func TestMatchAttrUnsupportedValueKindViolates(t *testing.T) {
	e := expr.NewCall(expr.NewOp("conv2d"), []expr.Expr{expr.NewVar("x"), expr.NewVar("w")},
		map[string]interface{}{"strides": []int64{1, 1}})
	p := pattern.NewAttr(pattern.NewCallAnyArity(pattern.NewOp("conv2d")),
		map[string]interface{}{"strides": []int64{1, 1}})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("matching a slice-valued attribute must violate: spec §4.8 doesn't enumerate slice kinds")
		}
		if iv, ok := r.(*InvariantViolation); !ok || iv.Kind != KindUnsupportedAttrValue {
			t.Fatalf("expected *InvariantViolation{Kind: KindUnsupportedAttrValue}, got %#v", r)
		}
	}()
	Match(p, e)
}

func TestMatchAttrNumericKindsCompareAcrossGoTypes(t *testing.T) {
	e := expr.NewCall(expr.NewOp("dense"), []expr.Expr{expr.NewVar("x")},
		map[string]interface{}{"units": int64(128)})
	p := pattern.NewAttr(pattern.NewCallAnyArity(pattern.NewOp("dense")), map[string]interface{}{"units": 128})
	if !Match(p, e) {
		t.Fatalf("an int pattern value must match an int64 attribute of the same numeric value")
	}
}
