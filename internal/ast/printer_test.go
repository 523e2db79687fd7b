package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jlitec/internal/token"
)

func TestBinaryExprString(t *testing.T) {
	e := &BinaryExpr{
		Op:   "+",
		Left: &IdentExpr{Name: "x"},
		Right: &IntLitExpr{Value: 1},
	}
	assert.Equal(t, "(x + 1)", e.String())
}

func TestCallExprString(t *testing.T) {
	e := &CallExpr{
		Callee: &DotExpr{Lhs: &ThisExpr{}, Name: "foo"},
		Args:   []Expr{&IntLitExpr{Value: 1}, &BoolLitExpr{Value: true}},
	}
	assert.Equal(t, "this.foo(1, true)", e.String())
}

func TestIfStmtString(t *testing.T) {
	s := &IfStmt{
		Condition: &BoolLitExpr{Value: true},
		Then:      Block{Stmts: []Stmt{&ReturnStmt{}}},
		Else:      Block{Stmts: []Stmt{&ReturnStmt{}}},
	}
	expected := "if (true)\n{\n    return;\n}\nelse\n{\n    return;\n}"
	assert.Equal(t, expected, s.String())
}

func TestClassDeclString(t *testing.T) {
	c := &ClassDecl{
		Name:   "Counter",
		Fields: []VarDecl{{Type: "Int", Name: "value"}},
		Methods: []MethodDecl{
			{
				Name:       "get",
				ReturnType: "Int",
				Body:       Block{Stmts: []Stmt{&ReturnStmt{Value: &IdentExpr{Name: "value"}}}},
			},
		},
	}
	out := c.String()
	assert.Contains(t, out, "class Counter")
	assert.Contains(t, out, "Int value;")
	assert.Contains(t, out, "Int get()")
	assert.Contains(t, out, "return value;")
}

func TestProgramNodePosEmpty(t *testing.T) {
	p := &Program{}
	assert.Equal(t, token.Position{}, p.NodePos())
	assert.Equal(t, PROGRAM, p.NodeType())
}
