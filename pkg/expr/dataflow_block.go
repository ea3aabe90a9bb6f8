package expr

// Binding is a single `var = value` entry inside a DataflowBlock.
// IsDataflow distinguishes an ordinary Var binding from a DataflowVar
// binding (only the latter is local to the block).
type Binding struct {
	Var        Expr // *Var or *DataflowVar
	Value      Expr
	IsDataflow bool
}

// DataflowBlock is the minimal IR container pkg/rewriter mutates: an
// ordered sequence of bindings plus the set of variables the
// enclosing function treats as outputs (bindings feeding an output are
// never eligible for removal).
type DataflowBlock struct {
	Bindings []*Binding
	Outputs  []Expr // *Var/*DataflowVar referenced by the function's return
}

// Func is the enclosing function a DataflowBlock lives in: a thin
// wrapper pairing the block with the params/return the rewriter needs
// to preserve.
type Func struct {
	Params []Expr
	Block  *DataflowBlock
	Ret    Expr
}

// IRModule is the top-level container: a name -> Func table, standing
// in for the real IR module type this package does not otherwise
// model (module-level rewriting is a pkg/rewriter concern only).
type IRModule struct {
	Funcs map[string]*Func
}
