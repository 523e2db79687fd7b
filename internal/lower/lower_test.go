package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jlitec/internal/ir3"
)

func TestLowerMaterializesOutOfRangeConstant(t *testing.T) {
	fn := &ir3.FuncDefn{Blocks: []*ir3.BasicBlock{{Label: "L0", Stmts: []ir3.Stmt{
		&ir3.AssignOp{Dest: "x", Rhs: &ir3.ValueExpr{Val: ir3.ConstantInt{IntVal: 1000}}},
		&ir3.ReturnStmt{Value: ir3.VarRef{Name: "x"}},
	}}}}

	Lower(fn)

	stmts := fn.Blocks[0].Stmts
	require.Len(t, stmts, 4) // dummy, materialize, assign, return
	_, ok := stmts[0].(*ir3.DummyStmt)
	assert.True(t, ok)
	mat, ok := stmts[1].(*ir3.AssignConstInt)
	require.True(t, ok)
	assert.Equal(t, int32(1000), mat.Val)
	assign := stmts[2].(*ir3.AssignOp)
	ve := assign.Rhs.(*ir3.ValueExpr)
	assert.Equal(t, mat.Dest, ve.Val.(ir3.VarRef).Name)
}

func TestLowerLeavesSmallConstantAlone(t *testing.T) {
	fn := &ir3.FuncDefn{Blocks: []*ir3.BasicBlock{{Label: "L0", Stmts: []ir3.Stmt{
		&ir3.AssignOp{Dest: "x", Rhs: &ir3.ValueExpr{Val: ir3.ConstantInt{IntVal: 5}}},
		&ir3.ReturnStmt{Value: ir3.VarRef{Name: "x"}},
	}}}}

	Lower(fn)
	stmts := fn.Blocks[0].Stmts
	require.Len(t, stmts, 3)
	assign := stmts[1].(*ir3.AssignOp)
	ve := assign.Rhs.(*ir3.ValueExpr)
	assert.Equal(t, ir3.ConstantInt{IntVal: 5}, ve.Val)
}

func TestLowerSplitsFieldStore(t *testing.T) {
	fn := &ir3.FuncDefn{Blocks: []*ir3.BasicBlock{{Label: "L0", Stmts: []ir3.Stmt{
		&ir3.AssignDotOp{VarName: "obj", FieldName: "count", FieldType: "Int", Rhs: &ir3.BinaryOp{Op: "+", Lhs: ir3.ConstantInt{IntVal: 1}, Rhs: ir3.ConstantInt{IntVal: 2}}},
		&ir3.ReturnStmt{},
	}}}}

	Lower(fn)
	stmts := fn.Blocks[0].Stmts
	require.Len(t, stmts, 4) // dummy, tmp assign, storefield, return
	_, ok := stmts[1].(*ir3.AssignOp)
	require.True(t, ok)
	store, ok := stmts[2].(*ir3.StoreField)
	require.True(t, ok)
	assert.Equal(t, "obj", store.VarName)
	assert.Equal(t, "count", store.FieldName)
}
