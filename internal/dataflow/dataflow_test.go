package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"jlitec/internal/ir3"
)

func TestSetOps(t *testing.T) {
	a := NewSet(1, 2, 3)
	b := NewSet(2, 3, 4)
	assert.True(t, a.Union(b).Equal(NewSet(1, 2, 3, 4)))
	assert.True(t, a.Intersect(b).Equal(NewSet(2, 3)))
	assert.True(t, a.Sub(b).Equal(NewSet(1)))
}

// straightLineFunc builds x = 1; y = x; return y; as a single block, used
// to exercise the forward "reaching constants" shape of the solver.
func straightLineFunc() *ir3.FuncDefn {
	s1 := &ir3.AssignOp{Dest: "x", Rhs: &ir3.ValueExpr{Val: ir3.ConstantInt{IntVal: 1}}}
	s2 := &ir3.AssignOp{Dest: "y", Rhs: &ir3.ValueExpr{Val: ir3.VarRef{Name: "x"}}}
	s3 := &ir3.ReturnStmt{Value: ir3.VarRef{Name: "y"}}
	return &ir3.FuncDefn{
		Blocks: []*ir3.BasicBlock{{Label: "entry", Stmts: []ir3.Stmt{s1, s2, s3}}},
	}
}

func TestFlattenLinearSuccessors(t *testing.T) {
	ff := Flatten(straightLineFunc())
	assert.True(t, ff.Succ[0].Equal(NewSet(1)))
	assert.True(t, ff.Succ[1].Equal(NewSet(2)))
	assert.True(t, ff.Succ[2].Equal(NewSet[int]()))
	assert.True(t, ff.Pred[1].Equal(NewSet(0)))
}

func TestSolveForwardConstantReaches(t *testing.T) {
	ff := Flatten(straightLineFunc())

	gen := func(idx int) Set[string] {
		if a, ok := ff.Stmts[idx].(*ir3.AssignOp); ok {
			if _, isVal := a.Rhs.(*ir3.ValueExpr); isVal {
				return NewSet(a.Dest)
			}
		}
		return NewSet[string]()
	}
	kill := func(idx int) Set[string] {
		if a, ok := ff.Stmts[idx].(*ir3.AssignOp); ok {
			return NewSet(a.Dest)
		}
		return NewSet[string]()
	}

	res := Solve(ff, Problem[string]{Direction: Forward, Combine: Intersect, Gen: gen, Kill: kill})
	assert.True(t, res.Out[0].Has("x"))
	assert.True(t, res.In[1].Has("x"))
	assert.True(t, res.Out[1].Has("y"))
}
