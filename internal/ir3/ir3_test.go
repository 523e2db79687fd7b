package ir3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEquality(t *testing.T) {
	a := ConstantInt{IntVal: 42}
	b := ConstantInt{IntVal: 42}
	c := ConstantInt{IntVal: 7}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(VarRef{Name: "x"}))
}

func TestValueHashKeyDistinctAcrossKinds(t *testing.T) {
	keys := map[string]bool{}
	for _, v := range []Value{
		ConstantInt{IntVal: 1},
		ConstantBool{BoolVal: true},
		ConstantString{StrVal: "1"},
		ConstantNull{},
		VarRef{Name: "1"},
	} {
		keys[v.HashKey()] = true
	}
	assert.Len(t, keys, 5)
}

func TestIsTemporary(t *testing.T) {
	assert.True(t, IsTemporary("_t0"))
	assert.False(t, IsTemporary("x"))
	assert.False(t, IsTemporary(""))
}

func TestBinaryOpString(t *testing.T) {
	op := &BinaryOp{Op: "+", Lhs: ConstantInt{IntVal: 1}, Rhs: VarRef{Name: "x"}}
	assert.Equal(t, "(1 + x)", op.String())
}

func TestFnCallExprOperandsMatchArgs(t *testing.T) {
	call := &FnCallExpr{Call: Call{Callee: "_Jfoo_barE", Args: []Value{VarRef{Name: "a"}, ConstantInt{IntVal: 2}}}}
	assert.Len(t, call.Operands(), 2)
	assert.Equal(t, "_Jfoo_barE(a, 2)", call.String())
}

func TestBasicBlockTerminator(t *testing.T) {
	b := &BasicBlock{Label: "L0", Stmts: []Stmt{
		&AssignOp{Dest: "x", Rhs: &ValueExpr{Val: ConstantInt{IntVal: 1}}},
		&Branch{Target: "L1"},
	}}
	term, ok := b.Terminator().(*Branch)
	assert.True(t, ok)
	assert.Equal(t, "L1", term.Target)
}

func TestFuncDefnBlockByLabel(t *testing.T) {
	entry := &BasicBlock{Label: "L0"}
	fn := &FuncDefn{MangledName: "_Jfoo_barE", Blocks: []*BasicBlock{entry}}
	assert.Same(t, entry, fn.BlockByLabel("L0"))
	assert.Nil(t, fn.BlockByLabel("L9"))
}

func TestProgramLookups(t *testing.T) {
	prog := &Program{
		Classes: []ClassDefn{{Name: "Foo"}},
		Funcs:   []*FuncDefn{{MangledName: "_JFoo_barE"}},
	}
	assert.NotNil(t, prog.ClassByName("Foo"))
	assert.Nil(t, prog.ClassByName("Bar"))
	assert.NotNil(t, prog.FuncByMangledName("_JFoo_barE"))
}
