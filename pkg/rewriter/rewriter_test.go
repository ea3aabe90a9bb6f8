package rewriter

import (
	"testing"

	"github.com/gitrdm/dfpattern/pkg/expr"
)

func buildAddReluBlock() (*expr.DataflowBlock, *expr.DataflowVar, *expr.DataflowVar) {
	x := expr.NewVar("x")
	bias := expr.NewVar("bias")
	addVal := expr.NewCall(expr.NewOp("add"), []expr.Expr{x, bias}, nil)
	addVar := expr.NewDataflowVar("lv0")
	reluVal := expr.NewCall(expr.NewOp("relu"), []expr.Expr{addVar}, nil)
	reluVar := expr.NewDataflowVar("lv1")
	block := &expr.DataflowBlock{
		Bindings: []*expr.Binding{
			{Var: addVar, Value: addVal, IsDataflow: true},
			{Var: reluVar, Value: reluVal, IsDataflow: true},
		},
		Outputs: []expr.Expr{reluVar},
	}
	return block, addVar, reluVar
}

func TestReplaceAllUses(t *testing.T) {
	block, addVar, reluVar := buildAddReluBlock()
	r := New(block)

	fused := expr.NewDataflowVar("lv0.fused")
	r.ReplaceAllUses(addVar, fused)

	reluVal := block.Bindings[1].Value.(*expr.Call)
	if reluVal.Args[0] != fused {
		t.Fatalf("relu's operand must now be the fused var, got %v", reluVal.Args[0])
	}
	if block.Outputs[0] != reluVar {
		t.Fatalf("output replacement must not touch unrelated vars")
	}
}

func TestReplaceAllUsesUpdatesOutput(t *testing.T) {
	block, _, reluVar := buildAddReluBlock()
	r := New(block)

	newOut := expr.NewDataflowVar("lv1.renamed")
	r.ReplaceAllUses(reluVar, newOut)

	if block.Outputs[0] != newOut {
		t.Fatalf("output must be replaced when its var is replaced, got %v", block.Outputs[0])
	}
}

func TestAddDataflowVarFreshName(t *testing.T) {
	block, addVar, _ := buildAddReluBlock()
	r := New(block)

	v1 := r.AddDataflowVar("lv0", addVar)
	if v1.NameHint == "lv0" {
		t.Fatalf("fresh name must not collide with the existing lv0 binding, got %q", v1.NameHint)
	}
	if len(block.Bindings) != 3 {
		t.Fatalf("Add must append to the block, got %d bindings", len(block.Bindings))
	}
}

func TestRemoveUnused(t *testing.T) {
	block, addVar, _ := buildAddReluBlock()
	r := New(block)

	dead := r.AddDataflowVar("dead", addVar)
	r.RemoveUnused(dead)

	for _, b := range block.Bindings {
		if b.Var == dead {
			t.Fatalf("RemoveUnused must drop a binding with no users and not an output")
		}
	}
}

func TestRemoveUnusedKeepsOutputs(t *testing.T) {
	block, _, reluVar := buildAddReluBlock()
	r := New(block)

	r.RemoveUnused(reluVar)

	found := false
	for _, b := range block.Bindings {
		if b.Var == reluVar {
			found = true
		}
	}
	if !found {
		t.Fatalf("RemoveUnused must never drop a block output")
	}
}

func TestRemoveAllUnusedTransitive(t *testing.T) {
	block, addVar, reluVar := buildAddReluBlock()
	r := New(block)

	// lv2 depends on lv0 (addVar) but nothing depends on lv2, and it is
	// not an output: RemoveAllUnused must clear it even though addVar
	// itself still has a live user (the relu binding).
	r.AddDataflowVar("lv2", addVar)
	r.RemoveAllUnused()

	if len(block.Bindings) != 2 {
		t.Fatalf("expected the dead lv2 binding removed, kept addVar+relu only, got %d bindings", len(block.Bindings))
	}
	if block.Bindings[0].Var != addVar || block.Bindings[1].Var != reluVar {
		t.Fatalf("surviving bindings must be addVar then reluVar in order")
	}
}

func TestMutateFunc(t *testing.T) {
	block, addVar, reluVar := buildAddReluBlock()
	fn := &expr.Func{Block: block, Ret: reluVar}

	MutateFunc(fn, func(r *DataflowBlockRewriter) {
		fused := r.AddDataflowVar("fused", addVar)
		r.ReplaceAllUses(addVar, fused)
		r.RemoveAllUnused()
	})

	if len(fn.Block.Bindings) != 2 {
		t.Fatalf("expected addVar's binding removed after replacement, got %d bindings", len(fn.Block.Bindings))
	}
}
