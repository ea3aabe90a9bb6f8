// Package rewriter implements the one collaborator spec §4.10 only
// specifies the interface surface of: a DataflowBlockRewriter that
// lets a pattern-rewrite callback replace uses of one variable with
// another, append fresh bindings, and drop whatever becomes unused —
// without the caller ever touching DataflowBlock's slice fields by
// hand.
//
// The bookkeeping (a var -> users inverse map, a monotonic fresh-name
// counter, an output-variable set) is grounded on the teacher's
// Model (pkg/minikanren/model.go): both maintain derived indexes
// alongside an ordered list so that mutation and lookup are both O(1)
// instead of re-scanning the block on every edit.
package rewriter

import (
	"fmt"

	"github.com/gitrdm/dfpattern/pkg/expr"
)

// DataflowBlockRewriter accumulates edits to one DataflowBlock and
// materializes them on demand via Mutated/Mutate*. It is not safe for
// concurrent use, matching the matcher's single-threaded contract
// (spec §5): a rewrite callback runs to completion before the next
// one starts.
type DataflowBlockRewriter struct {
	block   *expr.DataflowBlock
	users   map[expr.Expr][]*expr.Binding // var -> bindings that reference it
	outputs map[expr.Expr]bool
	counter int
}

// New builds a rewriter over block, indexing its existing bindings so
// ReplaceAllUses and RemoveUnused have O(1) lookups from the start.
func New(block *expr.DataflowBlock) *DataflowBlockRewriter {
	r := &DataflowBlockRewriter{
		block:   block,
		users:   make(map[expr.Expr][]*expr.Binding),
		outputs: make(map[expr.Expr]bool),
	}
	for _, out := range block.Outputs {
		r.outputs[out] = true
	}
	for _, b := range block.Bindings {
		r.indexUses(b)
	}
	return r
}

// indexUses records that b's value references every free variable it
// contains, by walking its direct operands. It does not recurse
// through nested Call/Tuple/Function structure beyond one level deep
// on purpose: dataflow-block bindings are already in ANF (every
// operand is itself a variable or a leaf), so one level is exactly
// the set of variables b depends on.
func (r *DataflowBlockRewriter) indexUses(b *expr.Binding) {
	for _, v := range operandsOf(b.Value) {
		r.users[v] = append(r.users[v], b)
	}
}

func operandsOf(e expr.Expr) []expr.Expr {
	switch n := e.(type) {
	case *expr.Call:
		out := make([]expr.Expr, 0, len(n.Args)+1)
		out = append(out, n.Op)
		return append(out, n.Args...)
	case *expr.Tuple:
		return n.Fields
	case *expr.TupleGetItem:
		return []expr.Expr{n.Tuple}
	case *expr.If:
		return []expr.Expr{n.Cond, n.Then, n.Else}
	default:
		return nil
	}
}

// ReplaceAllUses rewrites every binding whose value references old so
// that it references newVar instead, and updates the output list if
// old was itself an output.
func (r *DataflowBlockRewriter) ReplaceAllUses(old, newVar expr.Expr) {
	for _, b := range r.users[old] {
		replaceOperand(b.Value, old, newVar)
		r.users[newVar] = append(r.users[newVar], b)
	}
	delete(r.users, old)
	for i, out := range r.block.Outputs {
		if out == old {
			r.block.Outputs[i] = newVar
			delete(r.outputs, old)
			r.outputs[newVar] = true
		}
	}
}

// replaceOperand mutates e's direct operand slots in place, swapping
// old for newVar wherever it appears.
func replaceOperand(e expr.Expr, old, newVar expr.Expr) {
	switch n := e.(type) {
	case *expr.Call:
		if n.Op == old {
			n.Op = newVar
		}
		for i, a := range n.Args {
			if a == old {
				n.Args[i] = newVar
			}
		}
	case *expr.Tuple:
		for i, f := range n.Fields {
			if f == old {
				n.Fields[i] = newVar
			}
		}
	case *expr.TupleGetItem:
		if n.Tuple == old {
			n.Tuple = newVar
		}
	case *expr.If:
		if n.Cond == old {
			n.Cond = newVar
		}
		if n.Then == old {
			n.Then = newVar
		}
		if n.Else == old {
			n.Else = newVar
		}
	}
}

// freshName returns a name hint not already used by any binding's
// variable, appending a monotonically increasing suffix to base until
// it's unique.
func (r *DataflowBlockRewriter) freshName(base string) string {
	for {
		name := base
		if r.counter > 0 {
			name = fmt.Sprintf("%s.%d", base, r.counter)
		}
		r.counter++
		if !r.nameInUse(name) {
			return name
		}
	}
}

func (r *DataflowBlockRewriter) nameInUse(name string) bool {
	for _, b := range r.block.Bindings {
		switch v := b.Var.(type) {
		case *expr.Var:
			if v.NameHint == name {
				return true
			}
		case *expr.DataflowVar:
			if v.NameHint == name {
				return true
			}
		}
	}
	return false
}

// Add appends binding to the block and indexes its uses.
func (r *DataflowBlockRewriter) Add(binding *expr.Binding) {
	r.block.Bindings = append(r.block.Bindings, binding)
	r.indexUses(binding)
}

// AddDataflowVar binds value to a fresh *expr.DataflowVar named after
// baseName (de-duplicated if needed) and returns that variable, the
// convenience form most rewrite callbacks reach for.
func (r *DataflowBlockRewriter) AddDataflowVar(baseName string, value expr.Expr) *expr.DataflowVar {
	v := expr.NewDataflowVar(r.freshName(baseName))
	r.Add(&expr.Binding{Var: v, Value: value, IsDataflow: true})
	return v
}

// AddVar is AddDataflowVar's non-dataflow-scoped counterpart.
func (r *DataflowBlockRewriter) AddVar(baseName string, value expr.Expr) *expr.Var {
	v := expr.NewVar(r.freshName(baseName))
	r.Add(&expr.Binding{Var: v, Value: value, IsDataflow: false})
	return v
}

// RemoveUnused drops v's binding if nothing else in the block
// references it and it is not a block output.
func (r *DataflowBlockRewriter) RemoveUnused(v expr.Expr) {
	if r.outputs[v] || len(r.users[v]) > 0 {
		return
	}
	r.removeBindingFor(v)
}

// RemoveAllUnused repeatedly removes bindings with no remaining users
// until a full pass removes nothing, so transitive dead code (a
// binding that only fed another now-removed binding) is cleared too.
func (r *DataflowBlockRewriter) RemoveAllUnused() {
	for {
		removed := false
		for _, b := range append([]*expr.Binding(nil), r.block.Bindings...) {
			if r.outputs[b.Var] || len(r.users[b.Var]) > 0 {
				continue
			}
			r.removeBindingFor(b.Var)
			removed = true
		}
		if !removed {
			return
		}
	}
}

func (r *DataflowBlockRewriter) removeBindingFor(v expr.Expr) {
	kept := r.block.Bindings[:0]
	var removed *expr.Binding
	for _, b := range r.block.Bindings {
		if b.Var == v && removed == nil {
			removed = b
			continue
		}
		kept = append(kept, b)
	}
	r.block.Bindings = kept
	if removed == nil {
		return
	}
	for _, used := range operandsOf(removed.Value) {
		list := r.users[used]
		for i, b := range list {
			if b == removed {
				r.users[used] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	delete(r.users, v)
}

// Mutated returns the rewriter's underlying block, reflecting every
// edit applied so far.
func (r *DataflowBlockRewriter) Mutated() *expr.DataflowBlock { return r.block }

// MutateFunc applies editFn to every dataflow block inside fn's body
// in place and returns fn.
func MutateFunc(fn *expr.Func, editFn func(*DataflowBlockRewriter)) *expr.Func {
	r := New(fn.Block)
	editFn(r)
	fn.Block = r.Mutated()
	return fn
}

// MutateIRModule applies editFn to every function's dataflow block in
// mod in place and returns mod.
func MutateIRModule(mod *expr.IRModule, editFn func(funcName string, r *DataflowBlockRewriter)) *expr.IRModule {
	for name, fn := range mod.Funcs {
		r := New(fn.Block)
		editFn(name, r)
		fn.Block = r.Mutated()
	}
	return mod
}
