package expr

import (
	"fmt"
	"strings"
)

// PrimExpr is a symbolic scalar expression used as a shape dimension:
// an integer literal, a named symbolic variable, or a simple sum/
// product of PrimExprs. It is deliberately tiny — just enough for
// Analyzer.Simplify (pkg/oracle) to decide dimension equality.
type PrimExpr interface {
	fmt.Stringer
	primExprNode()
}

// PrimIntImm is a concrete integer dimension.
type PrimIntImm struct{ Value int64 }

func (PrimIntImm) primExprNode()    {}
func (p PrimIntImm) String() string { return fmt.Sprintf("%d", p.Value) }

// PrimVar is a named symbolic dimension (e.g. the "n" in shape [n, 3]).
type PrimVar struct{ Name string }

func (PrimVar) primExprNode()    {}
func (p PrimVar) String() string { return p.Name }

// PrimBinOp combines two PrimExprs with "+", "-", or "*".
type PrimBinOp struct {
	Op          string
	Left, Right PrimExpr
}

func (PrimBinOp) primExprNode() {}
func (p PrimBinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", p.Left, p.Op, p.Right)
}

// ShapeExpr is a fully symbolic shape: an ordered list of dimensions.
// It implements Expr so it can appear as an operand (e.g. an explicit
// reshape target) as well as being returned from Expr.Shape().
type ShapeExpr struct {
	Base
	Values []PrimExpr
}

func NewShapeExpr(values ...PrimExpr) *ShapeExpr { return &ShapeExpr{Values: values} }
func (*ShapeExpr) exprNode()                     {}
func (s *ShapeExpr) String() string {
	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RuntimeDepShape marks a shape that cannot be resolved statically
// (e.g. the output of a data-dependent operator). It carries no
// dimensions.
type RuntimeDepShape struct{ Base }

func NewRuntimeDepShape() *RuntimeDepShape { return &RuntimeDepShape{} }
func (*RuntimeDepShape) exprNode()         {}
func (*RuntimeDepShape) String() string    { return "runtime_dep_shape" }
