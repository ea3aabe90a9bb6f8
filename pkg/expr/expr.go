// Package expr defines the IR expression model the dataflow pattern
// matcher operates over: a tagged tree of nodes with stable structural
// identity.
//
// Construction, parsing, and type inference live outside this package
// (they are external collaborators per the matcher specification);
// expr only fixes the node shapes and the structural-equality and
// checked-type/shape accessors the matcher consults.
package expr

import "fmt"

// Expr is any node in the expression tree the matcher walks. Every
// concrete node embeds Base, which carries the checked type and shape
// the (external) type-inference pass attaches before matching begins.
type Expr interface {
	fmt.Stringer

	// exprNode is unexported so Expr is a closed variant set: only the
	// node kinds declared in this package implement it.
	exprNode()

	// CheckedType returns the type inference attached to this node, or
	// nil if the node has not been type-checked yet.
	CheckedType() Type

	// SetCheckedType stashes the inferred type. Called by the external
	// type-inference pass, never by the matcher.
	SetCheckedType(Type)

	// Shape returns the node's shape expression (a *ShapeExpr, a
	// *RuntimeDepShape, or nil if unknown). Tensor-producing nodes set
	// this during inference.
	Shape() Expr

	// SetShape stashes the inferred shape.
	SetShape(Expr)
}

// Base carries the fields common to every node: the inferred type and
// shape. Embed it to get Expr's accessor methods for free.
type Base struct {
	checkedType Type
	shape       Expr
}

func (b *Base) CheckedType() Type     { return b.checkedType }
func (b *Base) SetCheckedType(t Type) { b.checkedType = t }
func (b *Base) Shape() Expr           { return b.shape }
func (b *Base) SetShape(s Expr)       { b.shape = s }

// Constant is a literal value embedded directly in the IR. The matcher
// never inspects the value itself (spec §4.2: "value not compared").
type Constant struct {
	Base
	Value interface{}
}

func NewConstant(value interface{}) *Constant { return &Constant{Value: value} }
func (*Constant) exprNode()                   {}
func (c *Constant) String() string            { return fmt.Sprintf("const(%v)", c.Value) }

// Var is a regular (non-dataflow) local variable, identified by a
// name hint used for debugging and display, never for identity.
type Var struct {
	Base
	NameHint string
}

func NewVar(nameHint string) *Var  { return &Var{NameHint: nameHint} }
func (*Var) exprNode()             {}
func (v *Var) String() string      { return fmt.Sprintf("%%%s", v.NameHint) }

// DataflowVar is a variable scoped to a single dataflow block.
type DataflowVar struct {
	Base
	NameHint string
}

func NewDataflowVar(nameHint string) *DataflowVar { return &DataflowVar{NameHint: nameHint} }
func (*DataflowVar) exprNode()                    {}
func (v *DataflowVar) String() string             { return fmt.Sprintf("%%%s.df", v.NameHint) }

// GlobalVar refers to a module-level binding (a function or constant
// defined at module scope) by name.
type GlobalVar struct {
	Base
	Name string
}

func NewGlobalVar(name string) *GlobalVar { return &GlobalVar{Name: name} }
func (*GlobalVar) exprNode()              {}
func (g *GlobalVar) String() string       { return fmt.Sprintf("@%s", g.Name) }

// ExternFunc refers to an externally linked function by symbol name.
type ExternFunc struct {
	Base
	Symbol string
}

func NewExternFunc(symbol string) *ExternFunc { return &ExternFunc{Symbol: symbol} }
func (*ExternFunc) exprNode()                 {}
func (e *ExternFunc) String() string          { return fmt.Sprintf("extern(%q)", e.Symbol) }

// Op names a builtin operator (e.g. "add", "multiply", "relu"). Op
// itself is not callable; it only ever appears in the op position of a
// Call.
type Op struct {
	Base
	Name string
}

func NewOp(name string) *Op   { return &Op{Name: name} }
func (*Op) exprNode()         {}
func (o *Op) String() string  { return o.Name }

// Tuple groups a fixed-arity sequence of fields.
type Tuple struct {
	Base
	Fields []Expr
}

func NewTuple(fields ...Expr) *Tuple { return &Tuple{Fields: fields} }
func (*Tuple) exprNode()            {}
func (t *Tuple) String() string {
	s := "("
	for i, f := range t.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.String()
	}
	return s + ")"
}

// TupleGetItem projects the field at Index out of Tuple.
type TupleGetItem struct {
	Base
	Tuple Expr
	Index int64
}

func NewTupleGetItem(tuple Expr, index int64) *TupleGetItem {
	return &TupleGetItem{Tuple: tuple, Index: index}
}
func (*TupleGetItem) exprNode() {}
func (t *TupleGetItem) String() string {
	return fmt.Sprintf("%s[%d]", t.Tuple.String(), t.Index)
}

// Call applies Op to Args, carrying an opaque attribute bag (Attrs)
// whose concrete shape is a collaborator concern; the matcher only
// reads it through AttrMap() for Attr-pattern matching.
type Call struct {
	Base
	Op    Expr
	Args  []Expr
	Attrs map[string]interface{}
}

func NewCall(op Expr, args []Expr, attrs map[string]interface{}) *Call {
	return &Call{Op: op, Args: args, Attrs: attrs}
}
func (*Call) exprNode() {}

// AttrMap returns Call's attribute bag, satisfying the attrSource
// interface the matcher's Attr pattern consults.
func (c *Call) AttrMap() map[string]interface{} { return c.Attrs }

func (c *Call) String() string {
	s := c.Op.String() + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// Function is a closed lambda: a parameter list and a body expression,
// plus an attribute bag analogous to Call's.
type Function struct {
	Base
	Params []Expr
	Body   Expr
	Attrs  map[string]interface{}
}

func NewFunction(params []Expr, body Expr, attrs map[string]interface{}) *Function {
	return &Function{Params: params, Body: body, Attrs: attrs}
}
func (*Function) exprNode() {}

// AttrMap returns Function's attribute bag, satisfying the attrSource
// interface the matcher's Attr pattern consults.
func (f *Function) AttrMap() map[string]interface{} { return f.Attrs }

func (f *Function) String() string {
	s := "fn("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") { " + f.Body.String() + " }"
}

// If is a three-way conditional.
type If struct {
	Base
	Cond, Then, Else Expr
}

func NewIf(cond, then, els Expr) *If { return &If{Cond: cond, Then: then, Else: els} }
func (*If) exprNode()               {}
func (i *If) String() string {
	return fmt.Sprintf("if %s then %s else %s", i.Cond, i.Then, i.Else)
}
