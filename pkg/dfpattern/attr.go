package dfpattern

import (
	"reflect"

	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/oracle"
	"github.com/gitrdm/dfpattern/pkg/pattern"
)

// attrSource is implemented by every expr kind that actually carries a
// call/op attribute map (spec §4.4/§4.8). Nodes that don't implement it
// simply can never satisfy an Attr pattern.
type attrSource interface {
	AttrMap() map[string]interface{}
}

func attrsOf(e expr.Expr) (map[string]interface{}, bool) {
	if as, ok := e.(attrSource); ok {
		m := as.AttrMap()
		return m, m != nil
	}
	return nil, false
}

// matchAttr requires Inner to match e, then dispatches on e's dynamic
// kind to find the attribute map to check p.Attrs against (spec §4.4):
// an *expr.Op consults the configured op-attribute registry (the op's
// own attrs, not a particular call site's), while a Call or Function
// consults its own attribute bag directly. Anything else can only ever
// trivially pass with an empty Attrs map.
func (m *Matcher) matchAttr(p *pattern.Attr, e expr.Expr) bool {
	if !m.visit(p.Inner, e) {
		return false
	}

	if op, ok := e.(*expr.Op); ok {
		return m.matchOpAttr(p, op)
	}

	attrs, ok := attrsOf(e)
	if !ok {
		return len(p.Attrs) == 0
	}
	for k, want := range p.Attrs {
		got, present := attrs[k]
		if !present || !m.matchRetValue(want, got) {
			return false
		}
	}
	return true
}

// matchOpAttr implements spec §4.4's "Op expression" branch: the
// attribute map to check against comes from the op-attribute registry
// (WithOpAttrs), keyed by the op's name, rather than from any
// particular call site. A registry configured but missing an entry for
// this op is an ordinary non-match (the op is simply not one this
// registry describes); no registry configured at all is only a
// violation when the pattern actually requires attributes to check.
func (m *Matcher) matchOpAttr(p *pattern.Attr, op *expr.Op) bool {
	if m.opAttrs == nil {
		if len(p.Attrs) == 0 {
			return true
		}
		m.violate(newInvariantViolation(KindNoOpAttrs,
			"Attr pattern targets op %q but no op-attribute registry is configured (WithOpAttrs)", op.Name))
		return false
	}
	if !m.opAttrs.HasAttrMap(op.Name) {
		return len(p.Attrs) == 0
	}
	attrs := m.opAttrs.AttrMap(op.Name)
	for k, want := range p.Attrs {
		got, present := attrs[k]
		if !present || !m.matchRetValue(want, got) {
			return false
		}
	}
	return true
}

// matchRetValue compares a pattern-supplied attribute value against
// the value actually stored on the expression (spec §4.8). The two
// sides must both be one of: an expr.Expr (compared structurally), a
// bool, a string, or a numeric kind (compared by reflect.Kind family,
// not exact Go type, so an int pattern value matches an int64 attr).
// Any other kind — a slice, map, or other structured value the spec
// doesn't enumerate — is an unsupported attribute-value kind and
// raises a fatal invariant violation rather than silently falling back
// to a looser comparison.
func (m *Matcher) matchRetValue(want, got interface{}) bool {
	if we, wok := want.(expr.Expr); wok {
		ge, gok := got.(expr.Expr)
		if !gok {
			return false
		}
		if !expr.StructuralEqualRegistered() {
			m.violate(newInvariantViolation(KindNoStructuralEqual,
				"attribute value comparison requires expr.RegisterStructuralEqual to be called first"))
			return false
		}
		return expr.StructuralEqual(we, ge, expr.EqualOptions{})
	}

	wv := reflect.ValueOf(want)
	gv := reflect.ValueOf(got)
	if !wv.IsValid() || !gv.IsValid() {
		return want == nil && got == nil
	}

	switch wv.Kind() {
	case reflect.Bool:
		return gv.Kind() == reflect.Bool && wv.Bool() == gv.Bool()
	case reflect.String:
		return gv.Kind() == reflect.String && wv.String() == gv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch gv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return wv.Int() == gv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return wv.Int() == int64(gv.Uint())
		default:
			return false
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch gv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return int64(wv.Uint()) == gv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return wv.Uint() == gv.Uint()
		default:
			return false
		}
	case reflect.Float32, reflect.Float64:
		return (gv.Kind() == reflect.Float32 || gv.Kind() == reflect.Float64) && wv.Float() == gv.Float()
	default:
		m.violate(newInvariantViolation(KindUnsupportedAttrValue,
			"attribute value of kind %s is not a supported match_retvalue kind (expr.Expr, bool, string, or numeric)", wv.Kind()))
		return false
	}
}

// matchType requires e's checked type to structurally equal p.T, then
// requires Inner to match (spec §4.5). Type predicates never
// auto-jump: they always read e's own checked type, never a bound
// value's, since a Var's declared type can differ from the shape of
// whatever it happens to be bound to in this particular call.
func (m *Matcher) matchType(p *pattern.Type, e expr.Expr) bool {
	t := e.CheckedType()
	if t == nil {
		t = oracle.InferType(e)
	}
	if t == nil || p.T == nil || !t.Equal(p.T) {
		return false
	}
	return m.visit(p.Inner, e)
}

// matchShape requires e's shape to be a concrete ShapeExpr whose
// dimensions compare equal, in order, to p.Dims under the arithmetic
// analyzer (spec §4.5). Like Type, this reads e's own shape, never an
// auto-jumped substitute's.
func (m *Matcher) matchShape(p *pattern.Shape, e expr.Expr) bool {
	se, ok := e.Shape().(*expr.ShapeExpr)
	if !ok || len(se.Values) != len(p.Dims) {
		return false
	}
	for i, want := range p.Dims {
		if !m.analyzer.Equal(want, se.Values[i]) {
			return false
		}
	}
	return m.visit(p.Inner, e)
}

// matchDataType requires e's checked type to be a tensor type with the
// given dtype, then requires Inner to match.
func (m *Matcher) matchDataType(p *pattern.DataType, e expr.Expr) bool {
	t := e.CheckedType()
	if t == nil {
		t = oracle.InferType(e)
	}
	tt, ok := t.(expr.TensorType)
	if !ok || tt.DType != p.DType {
		return false
	}
	return m.visit(p.Inner, e)
}
