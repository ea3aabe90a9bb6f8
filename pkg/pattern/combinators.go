package pattern

import (
	"fmt"

	"github.com/gitrdm/dfpattern/pkg/expr"
)

// Attr requires Inner to match and additionally constrains named
// attributes of the matched expression (spec §4.4). Values are
// compared via match_retvalue (pkg/dfpattern), never via Go's `==`,
// since attribute values may be IR literals on one side and plain Go
// values on the other.
type Attr struct {
	Inner Pattern
	Attrs map[string]interface{}
}

func NewAttr(inner Pattern, attrs map[string]interface{}) *Attr {
	return &Attr{Inner: inner, Attrs: attrs}
}
func (*Attr) patternNode() {}
func (p *Attr) String() string {
	return fmt.Sprintf("Attr(%s, %v)", p.Inner, p.Attrs)
}

// Type requires the matched expression's checked type to structurally
// equal T, then requires Inner to match (spec §4.5).
type Type struct {
	Inner Pattern
	T     expr.Type
}

func NewType(inner Pattern, t expr.Type) *Type { return &Type{Inner: inner, T: t} }
func (*Type) patternNode()                     {}
func (p *Type) String() string                 { return fmt.Sprintf("Type(%s, %s)", p.Inner, p.T) }

// Shape requires the matched expression's shape to be a concrete
// ShapeExpr whose dimensions compare equal (under the arithmetic
// analyzer) to Dims, in order (spec §4.5: "order-sensitive").
type Shape struct {
	Inner Pattern
	Dims  []expr.PrimExpr
}

func NewShape(inner Pattern, dims ...expr.PrimExpr) *Shape {
	return &Shape{Inner: inner, Dims: dims}
}
func (*Shape) patternNode() {}
func (p *Shape) String() string {
	s := fmt.Sprintf("Shape(%s, [", p.Inner)
	for i, d := range p.Dims {
		if i > 0 {
			s += ", "
		}
		s += d.String()
	}
	return s + "])"
}

// DataType requires the matched expression's checked type to be a
// tensor type with the given dtype, then requires Inner to match.
type DataType struct {
	Inner Pattern
	DType expr.DType
}

func NewDataType(inner Pattern, dtype expr.DType) *DataType {
	return &DataType{Inner: inner, DType: dtype}
}
func (*DataType) patternNode() {}
func (p *DataType) String() string {
	return fmt.Sprintf("DataType(%s, %s)", p.Inner, p.DType)
}

// Alt (Or) succeeds iff Left or Right matches, short-circuiting on
// Left (spec §4.6).
type Alt struct{ Left, Right Pattern }

func NewAlt(left, right Pattern) *Alt { return &Alt{Left: left, Right: right} }
func (*Alt) patternNode()             {}
func (p *Alt) String() string         { return fmt.Sprintf("(%s | %s)", p.Left, p.Right) }

// And succeeds iff both Left and Right match (spec §4.6).
type And struct{ Left, Right Pattern }

func NewAnd(left, right Pattern) *And { return &And{Left: left, Right: right} }
func (*And) patternNode()             {}
func (p *And) String() string         { return fmt.Sprintf("(%s & %s)", p.Left, p.Right) }

// Not succeeds iff Reject fails, and never itself introduces bindings
// (spec §4.6).
type Not struct{ Reject Pattern }

func NewNot(reject Pattern) *Not { return &Not{Reject: reject} }
func (*Not) patternNode()        {}
func (p *Not) String() string    { return "!" + p.Reject.String() }

// Dominator expresses a dominator-tree relationship (spec §4.7):
// Child matches some node N; every intermediate node walking from N
// toward the root via the dominator tree matches Path; some ancestor
// at or past that path matches Parent.
type Dominator struct {
	Child, Path, Parent Pattern
}

func NewDominator(child, path, parent Pattern) *Dominator {
	return &Dominator{Child: child, Path: path, Parent: parent}
}
func (*Dominator) patternNode() {}
func (p *Dominator) String() string {
	return fmt.Sprintf("Dominator(%s, %s, %s)", p.Child, p.Path, p.Parent)
}
