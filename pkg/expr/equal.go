package expr

import "sync"

// EqualOptions mirrors the options spec §4.8 requires the structural
// equality oracle to accept.
type EqualOptions struct {
	// MapFreeVar allows two distinct free variables to compare equal
	// if they occur in corresponding positions (alpha-equivalence).
	// The attribute-matching path (§4.8) always passes false.
	MapFreeVar bool

	// AssertOnMismatch makes the oracle panic with a diagnostic
	// instead of returning false, used by callers that already expect
	// equality to hold and want a loud failure otherwise.
	AssertOnMismatch bool
}

// EqualFunc is the shape of the registered structural-equality oracle.
type EqualFunc func(a, b interface{}, opts EqualOptions) bool

var (
	equalMu  sync.RWMutex
	equalFn  EqualFunc
)

// RegisterStructuralEqual installs the global structural-equality
// oracle. The matcher requires one to be registered before any
// ExprLiteral pattern, or Attr pattern with an expr.Expr value, is
// matched (spec §7: "structural_equal
// is not registered" is a fatal invariant violation) — registration is
// an explicit step so embedders can plug in their own deep-equality
// semantics (e.g. one that understands a richer attribute-value
// universe than this package's DefaultStructuralEqual does).
func RegisterStructuralEqual(fn EqualFunc) {
	equalMu.Lock()
	defer equalMu.Unlock()
	equalFn = fn
}

// StructuralEqualRegistered reports whether an oracle has been
// installed.
func StructuralEqualRegistered() bool {
	equalMu.RLock()
	defer equalMu.RUnlock()
	return equalFn != nil
}

// StructuralEqual invokes the registered oracle. Callers (the matcher)
// must check StructuralEqualRegistered first; calling this with no
// oracle registered panics, since the spec treats the condition as a
// non-recoverable invariant violation rather than an ordinary failure.
func StructuralEqual(a, b interface{}, opts EqualOptions) bool {
	equalMu.RLock()
	fn := equalFn
	equalMu.RUnlock()
	if fn == nil {
		panic("expr: structural_equal is not registered")
	}
	return fn(a, b, opts)
}

// DefaultStructuralEqual is a ready-made oracle covering the node
// kinds this package defines plus ordinary comparable Go values. It is
// not registered automatically — callers opt in via
// RegisterStructuralEqual(expr.DefaultStructuralEqual) — so that a
// host embedding this matcher over a richer IR can supply its own
// oracle without this package silently shadowing it.
func DefaultStructuralEqual(a, b interface{}, opts EqualOptions) bool {
	return defaultEqual(a, b, opts, map[*Var]*Var{})
}

func defaultEqual(a, b interface{}, opts EqualOptions, varMap map[*Var]*Var) bool {
	switch av := a.(type) {
	case *Constant:
		bv, ok := b.(*Constant)
		return ok && av.Value == bv.Value
	case *Var:
		bv, ok := b.(*Var)
		if !ok {
			return false
		}
		if opts.MapFreeVar {
			if mapped, seen := varMap[av]; seen {
				return mapped == bv
			}
			varMap[av] = bv
			return true
		}
		return av == bv
	case *DataflowVar:
		bv, ok := b.(*DataflowVar)
		return ok && av.NameHint == bv.NameHint
	case *GlobalVar:
		bv, ok := b.(*GlobalVar)
		return ok && av.Name == bv.Name
	case *ExternFunc:
		bv, ok := b.(*ExternFunc)
		return ok && av.Symbol == bv.Symbol
	case *Op:
		bv, ok := b.(*Op)
		return ok && av.Name == bv.Name
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if !defaultEqual(av.Fields[i], bv.Fields[i], opts, varMap) {
				return false
			}
		}
		return true
	case *TupleGetItem:
		bv, ok := b.(*TupleGetItem)
		return ok && av.Index == bv.Index && defaultEqual(av.Tuple, bv.Tuple, opts, varMap)
	case *Call:
		bv, ok := b.(*Call)
		if !ok || len(av.Args) != len(bv.Args) || !defaultEqual(av.Op, bv.Op, opts, varMap) {
			return false
		}
		for i := range av.Args {
			if !defaultEqual(av.Args[i], bv.Args[i], opts, varMap) {
				return false
			}
		}
		return true
	case *Function:
		bv, ok := b.(*Function)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !defaultEqual(av.Params[i], bv.Params[i], opts, varMap) {
				return false
			}
		}
		return defaultEqual(av.Body, bv.Body, opts, varMap)
	case *If:
		bv, ok := b.(*If)
		return ok && defaultEqual(av.Cond, bv.Cond, opts, varMap) &&
			defaultEqual(av.Then, bv.Then, opts, varMap) &&
			defaultEqual(av.Else, bv.Else, opts, varMap)
	case *ShapeExpr:
		bv, ok := b.(*ShapeExpr)
		if !ok || len(av.Values) != len(bv.Values) {
			return false
		}
		for i := range av.Values {
			if av.Values[i].String() != bv.Values[i].String() {
				return false
			}
		}
		return true
	case *RuntimeDepShape:
		_, ok := b.(*RuntimeDepShape)
		return ok
	default:
		if opts.AssertOnMismatch && a != b {
			panic("expr: structural_equal mismatch")
		}
		return a == b
	}
}
