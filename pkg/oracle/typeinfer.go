package oracle

import "github.com/gitrdm/dfpattern/pkg/expr"

// InferType is the pure `infer_type(expr) → type` collaborator:
// deterministic and side-effect-free. The matcher's Type and DataType
// predicates call it whenever a node carries no checked type, in every
// match form, auto-jumping or not.
//
// Full type inference for this IR is out of scope (spec §1): this
// implementation reads back whatever an upstream inference pass
// already attached via Expr.SetCheckedType, and — only where that is
// absent — composes a type structurally from already-typed children
// (Tuple/Function), so tests that build small, partially-annotated
// trees by hand still get a sensible checked_type without needing a
// full type checker.
func InferType(e expr.Expr) expr.Type {
	if t := e.CheckedType(); t != nil {
		return t
	}
	switch n := e.(type) {
	case *expr.Tuple:
		fields := make([]expr.Type, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = InferType(f)
		}
		return expr.TupleType{Fields: fields}
	case *expr.Function:
		params := make([]expr.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = InferType(p)
		}
		return expr.FuncType{Params: params, Ret: InferType(n.Body)}
	case *expr.TupleGetItem:
		tt, ok := InferType(n.Tuple).(expr.TupleType)
		if !ok || n.Index < 0 || int(n.Index) >= len(tt.Fields) {
			return nil
		}
		return tt.Fields[n.Index]
	default:
		return nil
	}
}
