package expr

import "fmt"

// Type is the checked-type side of the IR: the minimal surface the
// matcher's Type/DataType patterns need (spec §4.5). Full type
// inference is an external collaborator; this package only fixes the
// shape of its output.
type Type interface {
	fmt.Stringer
	typeNode()

	// Equal reports structural equality, independent of identity.
	Equal(Type) bool
}

// DType is a scalar element type, e.g. "float32", "int64", "bool".
type DType string

// TensorType is the checked type of a tensor-valued expression: an
// element dtype plus an optional static shape (nil means
// shape-erased/unknown).
type TensorType struct {
	DType DType
	Shape *ShapeExpr
}

func (TensorType) typeNode() {}
func (t TensorType) String() string {
	if t.Shape == nil {
		return fmt.Sprintf("Tensor(%s)", t.DType)
	}
	return fmt.Sprintf("Tensor(%s, %s)", t.DType, t.Shape)
}
func (t TensorType) Equal(other Type) bool {
	o, ok := other.(TensorType)
	if !ok || t.DType != o.DType {
		return false
	}
	if (t.Shape == nil) != (o.Shape == nil) {
		return false
	}
	if t.Shape == nil {
		return true
	}
	if len(t.Shape.Values) != len(o.Shape.Values) {
		return false
	}
	for i := range t.Shape.Values {
		if t.Shape.Values[i].String() != o.Shape.Values[i].String() {
			return false
		}
	}
	return true
}

// TupleType is the checked type of a Tuple node.
type TupleType struct {
	Fields []Type
}

func (TupleType) typeNode() {}
func (t TupleType) String() string {
	s := "("
	for i, f := range t.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.String()
	}
	return s + ")"
}
func (t TupleType) Equal(other Type) bool {
	o, ok := other.(TupleType)
	if !ok || len(t.Fields) != len(o.Fields) {
		return false
	}
	for i := range t.Fields {
		if !t.Fields[i].Equal(o.Fields[i]) {
			return false
		}
	}
	return true
}

// FuncType is the checked type of a Function node.
type FuncType struct {
	Params []Type
	Ret    Type
}

func (FuncType) typeNode() {}
func (t FuncType) String() string {
	s := "fn("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + t.Ret.String()
}
func (t FuncType) Equal(other Type) bool {
	o, ok := other.(FuncType)
	if !ok || len(t.Params) != len(o.Params) || !t.Ret.Equal(o.Ret) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}
