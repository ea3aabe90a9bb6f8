package pattern

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate walks p and reports every malformed node it finds (e.g. a
// TupleGetItem with an index less than -1) instead of stopping at the
// first, the way the teacher's Model.Validate (pkg/minikanren/model.go)
// accumulates every problem in a CSP model before returning. A nil
// result means p is well-formed; it does not mean p will match
// anything.
func Validate(p Pattern) error {
	var errs error
	walkValidate(p, &errs)
	return errs
}

func walkValidate(p Pattern, errs *error) {
	switch n := p.(type) {
	case nil:
		*errs = multierror.Append(*errs, fmt.Errorf("nil pattern node"))
	case *TupleGetItem:
		if n.Index < -1 {
			*errs = multierror.Append(*errs, fmt.Errorf("TupleGetItem: index %d must be -1 (any) or >= 0", n.Index))
		}
		walkValidate(n.TuplePat, errs)
	case *Tuple:
		for _, f := range n.Fields {
			walkValidate(f, errs)
		}
	case *Call:
		walkValidate(n.Op, errs)
		for _, a := range n.Args {
			walkValidate(a, errs)
		}
	case *Function:
		for _, pp := range n.Params {
			walkValidate(pp, errs)
		}
		walkValidate(n.Body, errs)
	case *If:
		walkValidate(n.Cond, errs)
		walkValidate(n.Then, errs)
		walkValidate(n.Else, errs)
	case *Attr:
		if len(n.Attrs) == 0 {
			*errs = multierror.Append(*errs, fmt.Errorf("Attr: attribute map must not be empty"))
		}
		walkValidate(n.Inner, errs)
	case *Type:
		walkValidate(n.Inner, errs)
	case *Shape:
		walkValidate(n.Inner, errs)
	case *DataType:
		walkValidate(n.Inner, errs)
	case *Alt:
		walkValidate(n.Left, errs)
		walkValidate(n.Right, errs)
	case *And:
		walkValidate(n.Left, errs)
		walkValidate(n.Right, errs)
	case *Not:
		walkValidate(n.Reject, errs)
	case *Dominator:
		walkValidate(n.Child, errs)
		walkValidate(n.Path, errs)
		walkValidate(n.Parent, errs)
	default:
		// Leaf patterns (Wildcard, Var, Constant, ExprLiteral, ...)
		// have no invariants of their own to check.
	}
}
