package peephole

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jlitec/internal/codegen"
	"jlitec/internal/ir3"
	"jlitec/internal/regalloc"
)

// newTestFuncState builds a bare FuncState with no parameters/locals --
// enough scaffolding for Optimize to operate purely on a hand-built
// instruction list, mirroring how cgopt_test.py in the original drives
// the optimizer directly off a fixture instruction list rather than a
// full compile.
func newTestFuncState(instrs []*codegen.Instruction) *codegen.FuncState {
	fn := &ir3.FuncDefn{MangledName: "_Jtest_fE"}
	alloc := &regalloc.Result{Assignments: map[string]string{}, SpillSlots: map[string]int{}}
	fs := codegen.NewFuncState(fn, alloc, nil)
	fs.SetInstructions(instrs)
	return fs
}

func mnemonics(fs *codegen.FuncState) []string {
	var out []string
	for _, i := range fs.Instructions() {
		out = append(out, i.String())
	}
	return out
}

func TestOptimizeRemovesBranchToNextLabel(t *testing.T) {
	instrs := []*codegen.Instruction{
		{Mnemonic: "b", Operands: []codegen.Operand{codegen.Label{Name: ".L1"}}},
		{Mnemonic: ".L1:", IsLabel: true},
		{Mnemonic: "mov", Operands: []codegen.Operand{codegen.Register{Name: "a1"}, codegen.Constant{Value: 1}}},
	}
	fs := newTestFuncState(instrs)
	Optimize(fs)
	require.Len(t, fs.Instructions(), 2)
	assert.True(t, fs.Instructions()[0].IsLabel)
}

func TestOptimizeDropsDuplicateConsecutiveLoad(t *testing.T) {
	ld := func() *codegen.Instruction {
		return &codegen.Instruction{Mnemonic: "ldr", Operands: []codegen.Operand{
			codegen.Register{Name: "a1"},
			codegen.Memory{Base: codegen.Register{Name: "fp"}, Offset: -4},
		}}
	}
	fs := newTestFuncState([]*codegen.Instruction{ld(), ld()})
	Optimize(fs)
	assert.Len(t, fs.Instructions(), 1)
}

func TestOptimizeDropsLoadThenMatchingStore(t *testing.T) {
	mem := codegen.Memory{Base: codegen.Register{Name: "fp"}, Offset: -8}
	reg := codegen.Register{Name: "a2"}
	instrs := []*codegen.Instruction{
		{Mnemonic: "ldr", Operands: []codegen.Operand{reg, mem}},
		{Mnemonic: "str", Operands: []codegen.Operand{reg, mem}},
	}
	fs := newTestFuncState(instrs)
	Optimize(fs)
	require.Len(t, fs.Instructions(), 1)
	assert.Equal(t, "ldr", fs.Instructions()[0].Mnemonic)
}

func TestOptimizeCollapsesCallerSaveRestoreNopBody(t *testing.T) {
	regs := codegen.Register{Name: "{a1, a2}", Writeback: true}
	restore := &codegen.Instruction{Mnemonic: "ldmfd", Operands: []codegen.Operand{regs}}
	restore.Annotate("caller-restore")
	save := &codegen.Instruction{Mnemonic: "stmfd", Operands: []codegen.Operand{regs}}
	save.Annotate("caller-save")

	fs := newTestFuncState([]*codegen.Instruction{restore, save})
	Optimize(fs)
	require.Len(t, fs.Instructions(), 1)
	reg, ok := fs.Instructions()[0].Operands[0].(codegen.Register)
	require.True(t, ok)
	assert.False(t, reg.Writeback)
}

func TestOptimizeRemovesSelfMoveAndZeroArithmetic(t *testing.T) {
	r := codegen.Register{Name: "v1"}
	instrs := []*codegen.Instruction{
		{Mnemonic: "mov", Operands: []codegen.Operand{r, r}},
		{Mnemonic: "add", Operands: []codegen.Operand{r, r, codegen.Constant{Value: 0}}},
		{Mnemonic: "sub", Operands: []codegen.Operand{r, r, codegen.Constant{Value: 0}}},
		{Mnemonic: "mov", Operands: []codegen.Operand{r, codegen.Constant{Value: 5}}},
	}
	fs := newTestFuncState(instrs)
	Optimize(fs)
	require.Len(t, fs.Instructions(), 1)
	assert.Equal(t, int32(5), fs.Instructions()[0].Operands[1].(codegen.Constant).Value)
}

func TestOptimizeCollapsesCompareAndBranchIdiom(t *testing.T) {
	a, b, dst := codegen.Register{Name: "a1"}, codegen.Register{Name: "a2"}, codegen.Register{Name: "v1"}
	target := codegen.Label{Name: ".Lend"}
	instrs := []*codegen.Instruction{
		{Mnemonic: "cmp", Operands: []codegen.Operand{a, b}},
		{Mnemonic: "moveq", Operands: []codegen.Operand{dst, codegen.Constant{Value: 1}}},
		{Mnemonic: "movne", Operands: []codegen.Operand{dst, codegen.Constant{Value: 0}}},
		{Mnemonic: "cmp", Operands: []codegen.Operand{dst, codegen.Constant{Value: 0}}},
		{Mnemonic: "bne", Operands: []codegen.Operand{target}},
	}
	fs := newTestFuncState(instrs)
	Optimize(fs)
	require.Len(t, fs.Instructions(), 2)
	assert.Equal(t, "cmp", fs.Instructions()[0].Mnemonic)
	assert.Equal(t, "beq", fs.Instructions()[1].Mnemonic)
}

// TestOptimizeIsIdempotent checks that peephole applied twice
// equals peephole applied once.
func TestOptimizeIsIdempotent(t *testing.T) {
	r := codegen.Register{Name: "v1"}
	instrs := []*codegen.Instruction{
		{Mnemonic: "mov", Operands: []codegen.Operand{r, r}},
		{Mnemonic: "b", Operands: []codegen.Operand{codegen.Label{Name: ".L1"}}},
		{Mnemonic: ".L1:", IsLabel: true},
	}
	fs := newTestFuncState(instrs)
	Optimize(fs)
	once := mnemonics(fs)
	Optimize(fs)
	assert.Equal(t, once, mnemonics(fs))
}
