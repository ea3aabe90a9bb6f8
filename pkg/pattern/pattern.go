// Package pattern defines the pattern tree the dataflow pattern
// matcher (pkg/dfpattern) walks against an expression tree: a tagged
// variant mirroring expr.Expr's node kinds, plus the predicate and
// combinator nodes (Attr/Type/Shape/DataType, Alt/And/Not/Dominator)
// spec §3 adds on top.
//
// Pattern nodes have no matching behavior of their own — this package
// only fixes their shape and identity. The recursive descent that
// decides whether a pattern matches an expression lives in
// pkg/dfpattern, which keeps the "what a pattern looks like" and "how
// a pattern is matched" concerns separate the way the teacher
// (pkg/minikanren) separates Term (core.go) from the goals that
// operate on terms (primitives.go).
package pattern

import (
	"fmt"

	"github.com/gitrdm/dfpattern/pkg/expr"
)

// Pattern is any node in a match query. Every pattern node has stable
// pointer identity — the matcher's memo table (spec §3) is keyed on
// that identity, not on structural content, so two patterns built with
// identical fields are still distinct memo keys unless they are the
// same Go value.
type Pattern interface {
	fmt.Stringer
	patternNode()
}

// Wildcard always matches (spec §4.2).
type Wildcard struct{}

func NewWildcard() *Wildcard    { return &Wildcard{} }
func (*Wildcard) patternNode()  {}
func (*Wildcard) String() string { return "*" }

// ExprLiteral matches iff the candidate expression is structurally
// equal to Expr (spec §4.2), ignoring pointer identity.
type ExprLiteral struct{ Expr expr.Expr }

func NewExprLiteral(e expr.Expr) *ExprLiteral { return &ExprLiteral{Expr: e} }
func (*ExprLiteral) patternNode()             {}
func (p *ExprLiteral) String() string         { return "lit(" + p.Expr.String() + ")" }

// Var matches a regular variable, optionally constrained to a name
// hint (empty means "any name").
type Var struct{ NameHint string }

func NewVar(nameHint string) *Var { return &Var{NameHint: nameHint} }
func (*Var) patternNode()         {}
func (p *Var) String() string {
	if p.NameHint == "" {
		return "Var(_)"
	}
	return "Var(" + p.NameHint + ")"
}

// DataflowVar matches a dataflow-scoped variable.
type DataflowVar struct{ NameHint string }

func NewDataflowVar(nameHint string) *DataflowVar { return &DataflowVar{NameHint: nameHint} }
func (*DataflowVar) patternNode()                 {}
func (p *DataflowVar) String() string {
	if p.NameHint == "" {
		return "DataflowVar(_)"
	}
	return "DataflowVar(" + p.NameHint + ")"
}

// GlobalVar matches a module-level binding, optionally by name.
type GlobalVar struct{ NameHint string }

func NewGlobalVar(nameHint string) *GlobalVar { return &GlobalVar{NameHint: nameHint} }
func (*GlobalVar) patternNode()               {}
func (p *GlobalVar) String() string           { return "GlobalVar(" + p.NameHint + ")" }

// ExternFunc matches an externally linked function, optionally by
// symbol.
type ExternFunc struct{ Symbol string }

func NewExternFunc(symbol string) *ExternFunc { return &ExternFunc{Symbol: symbol} }
func (*ExternFunc) patternNode()              {}
func (p *ExternFunc) String() string          { return "ExternFunc(" + p.Symbol + ")" }

// Op matches a builtin operator (expr.Op) by name, optionally left
// unconstrained ("" matches any op). This is the pattern a Call
// pattern's Op field almost always holds, since most calls invoke a
// builtin rather than a GlobalVar or ExternFunc.
type Op struct{ Name string }

func NewOp(name string) *Op { return &Op{Name: name} }
func (*Op) patternNode()    {}
func (p *Op) String() string {
	if p.Name == "" {
		return "Op(_)"
	}
	return "Op(" + p.Name + ")"
}

// Constant matches any constant expression (value unconstrained).
type Constant struct{}

func NewConstantPattern() *Constant { return &Constant{} }
func (*Constant) patternNode()      {}
func (*Constant) String() string    { return "Constant" }

// RuntimeDepShape matches an expression whose shape is runtime-
// dependent.
type RuntimeDepShape struct{}

func NewRuntimeDepShape() *RuntimeDepShape { return &RuntimeDepShape{} }
func (*RuntimeDepShape) patternNode()      {}
func (*RuntimeDepShape) String() string    { return "RuntimeDepShape" }

// Tuple matches a tuple expression. Fields is nil when arity is
// unconstrained (spec §3: "args[]? and params[]? denote optional
// argument constraints").
type Tuple struct{ Fields []Pattern }

func NewTuple(fields ...Pattern) *Tuple { return &Tuple{Fields: fields} }
func NewTupleAnyArity() *Tuple          { return &Tuple{Fields: nil} }
func (*Tuple) patternNode()             {}
func (p *Tuple) String() string {
	s := "Tuple("
	for i, f := range p.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.String()
	}
	return s + ")"
}

// TupleGetItem matches a projection out of TuplePat. Index == -1
// accepts any index (spec §3).
type TupleGetItem struct {
	TuplePat Pattern
	Index    int64
}

func NewTupleGetItem(tuplePat Pattern, index int64) *TupleGetItem {
	return &TupleGetItem{TuplePat: tuplePat, Index: index}
}
func (*TupleGetItem) patternNode() {}
func (p *TupleGetItem) String() string {
	return fmt.Sprintf("%s[%d]", p.TuplePat, p.Index)
}

// Call matches Expr.Call. Args is nil when arity is unconstrained.
type Call struct {
	Op   Pattern
	Args []Pattern
}

func NewCall(op Pattern, args ...Pattern) *Call { return &Call{Op: op, Args: args} }
func NewCallAnyArity(op Pattern) *Call          { return &Call{Op: op, Args: nil} }
func (*Call) patternNode()                      {}
func (p *Call) String() string {
	s := p.Op.String() + "("
	for i, a := range p.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// Function matches Expr.Function. Params is nil when arity is
// unconstrained.
type Function struct {
	Params []Pattern
	Body   Pattern
}

func NewFunction(body Pattern, params ...Pattern) *Function {
	return &Function{Params: params, Body: body}
}
func (*Function) patternNode() {}
func (p *Function) String() string {
	s := "fn("
	for i, a := range p.Params {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ") { " + p.Body.String() + " }"
}

// If matches Expr.If.
type If struct{ Cond, Then, Else Pattern }

func NewIf(cond, then, els Pattern) *If { return &If{Cond: cond, Then: then, Else: els} }
func (*If) patternNode()                {}
func (p *If) String() string {
	return fmt.Sprintf("if %s then %s else %s", p.Cond, p.Then, p.Else)
}

// PrimArr matches a ShapeExpr whose values compare equal (via the
// arithmetic analyzer) to Values element-wise.
type PrimArr struct{ Values []expr.PrimExpr }

func NewPrimArr(values ...expr.PrimExpr) *PrimArr { return &PrimArr{Values: values} }
func (*PrimArr) patternNode()                     {}
func (p *PrimArr) String() string {
	s := "PrimArr["
	for i, v := range p.Values {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s + "]"
}
