package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jlitec/internal/codegen"
	"jlitec/internal/ir3"
	"jlitec/internal/regalloc"
)

// buildIncrementFn models `Int f(Test this, Int n) { _t0 = n + 1; return
// _t0; }` directly in IR3, skipping the front end entirely -- this
// package's tests exercise instruction selection against hand-built IR3,
// the way cgarm_test.py in the original drives codegen off fixture ASTs
// rather than full source files.
func buildIncrementFn() *ir3.FuncDefn {
	entry := &ir3.BasicBlock{
		Label: ".entry",
		Stmts: []ir3.Stmt{
			&ir3.AssignOp{
				Dest: "_t0",
				Rhs: &ir3.BinaryOp{
					Op:  "+",
					Lhs: ir3.VarRef{Name: "n"},
					Rhs: ir3.ConstantInt{IntVal: 1},
				},
			},
			&ir3.ReturnStmt{Value: ir3.VarRef{Name: "_t0"}},
		},
	}
	return &ir3.FuncDefn{
		MangledName: "_Jtest_fiE",
		ClassName:   "Test",
		MethodName:  "f",
		Params: []ir3.VarDecl{
			{Name: "this", Type: "Test"},
			{Name: "n", Type: "Int"},
		},
		ReturnType: "Int",
		Locals: []ir3.VarDecl{
			{Name: "_t0", Type: "Int"},
		},
		Blocks: []*ir3.BasicBlock{entry},
	}
}

func TestSelectEmitsAddAndReturnForSimpleFunction(t *testing.T) {
	fn := buildIncrementFn()
	alloc, err := regalloc.Allocate(fn)
	require.NoError(t, err)

	fs := codegen.NewFuncState(fn, alloc, nil)
	cs := codegen.NewCodegenState()
	codegen.Select(cs, fs)
	body := strings.Join(fs.Finalise(false), "\n")

	assert.Contains(t, body, ".global _Jtest_fiE")
	assert.Contains(t, body, "_Jtest_fiE:")
	assert.Contains(t, body, "add ")
	assert.Contains(t, body, "#1")
	assert.Contains(t, body, "mov a1, ")
	assert.Contains(t, body, "ldmfd sp!, {")
	assert.Contains(t, body, "pc}")
	assert.Empty(t, cs.Builtins(), "plain integer addition should not require any runtime builtin")
}

func TestSelectAnnotateFlagControlsComments(t *testing.T) {
	fn := buildIncrementFn()
	alloc, err := regalloc.Allocate(fn)
	require.NoError(t, err)

	fs := codegen.NewFuncState(fn, alloc, nil)
	cs := codegen.NewCodegenState()
	codegen.Select(cs, fs)
	annotated := strings.Join(fs.Finalise(true), "\n")
	assert.Contains(t, annotated, "@ reg allocation:")
	assert.Contains(t, annotated, "@ spilled:")
}

func TestSelectWithoutAnnotateOmitsSummaryBlock(t *testing.T) {
	fn := buildIncrementFn()
	alloc, err := regalloc.Allocate(fn)
	require.NoError(t, err)

	fs := codegen.NewFuncState(fn, alloc, nil)
	cs := codegen.NewCodegenState()
	codegen.Select(cs, fs)
	plain := strings.Join(fs.Finalise(false), "\n")
	assert.NotContains(t, plain, "@ reg allocation:")
}
