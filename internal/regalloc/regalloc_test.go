package regalloc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jlitec/internal/ir3"
)

// addChain builds "x0 = 1; x1 = x0 + 1; ...; x_{n-1} = x_{n-1} + x0; ...;
// x_{n-1} = x_{n-1} + x_{n-2}; return x_{n-1};" so every variable is live
// across the whole chain below it, forcing progressively more interference
// as n grows.
func addChain(n int) *ir3.FuncDefn {
	var locals []ir3.VarDecl
	var stmts []ir3.Stmt

	first := "x0"
	stmts = append(stmts, &ir3.AssignOp{Dest: first, Rhs: &ir3.ValueExpr{Val: ir3.ConstantInt{IntVal: 1}}})
	locals = append(locals, ir3.VarDecl{Name: first, Type: "Int"})

	prev := first
	for i := 1; i < n; i++ {
		name := fmt.Sprintf("x%d", i)
		locals = append(locals, ir3.VarDecl{Name: name, Type: "Int"})
		stmts = append(stmts, &ir3.AssignOp{
			Dest: name,
			Rhs: &ir3.BinaryOp{
				Op:  "+",
				Lhs: ir3.VarRef{Name: prev},
				Rhs: ir3.ConstantInt{IntVal: 1},
			},
		})
		prev = name
	}
	for i := 0; i < n-1; i++ {
		stmts = append(stmts, &ir3.AssignOp{
			Dest: prev,
			Rhs: &ir3.BinaryOp{
				Op:  "+",
				Lhs: ir3.VarRef{Name: prev},
				Rhs: ir3.VarRef{Name: fmt.Sprintf("x%d", i)},
			},
		})
	}
	stmts = append(stmts, &ir3.ReturnStmt{Value: ir3.VarRef{Name: prev}})

	return &ir3.FuncDefn{
		MangledName: "_JTest_chainE",
		ClassName:   "Test",
		MethodName:  "chain",
		ReturnType:  "Int",
		Locals:      locals,
		Blocks: []*ir3.BasicBlock{
			{Label: "entry", Stmts: stmts},
		},
	}
}

func TestAllocateSmallChainNeedsNoSpill(t *testing.T) {
	fn := addChain(3)
	res, err := Allocate(fn)
	require.NoError(t, err)
	assert.Empty(t, res.SpillSlots)
	assert.Len(t, res.Assignments, 3)
	for _, v := range res.Assignments {
		found := false
		for _, r := range AllocatableRegisters {
			if r == v {
				found = true
			}
		}
		assert.True(t, found, "unexpected register %q", v)
	}
}

func TestAllocateLongChainForcesSpill(t *testing.T) {
	fn := addChain(len(AllocatableRegisters) + 5)
	res, err := Allocate(fn)
	require.NoError(t, err)
	assert.NotEmpty(t, res.SpillSlots, "expected at least one spill with more live variables than registers")

	for name := range res.SpillSlots {
		assert.Contains(t, res.Assignments, name)
	}
}

func TestBuildInterferenceGraphNoSelfEdges(t *testing.T) {
	fn := addChain(4)
	live := Analyse(fn)
	g := buildInterferenceGraph(fn, live)
	for _, v := range fn.Locals {
		assert.NotContains(t, g.neighbours(v.Name), v.Name)
	}
}

func TestSimplifiableNodeDeterministic(t *testing.T) {
	g := newGraph()
	g.add("b")
	g.add("a")
	g.add("c")
	name, ok := g.simplifiableNode(10, map[string]bool{})
	require.True(t, ok)
	assert.Equal(t, "a", name)
}
