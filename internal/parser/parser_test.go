package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jlitec/internal/ast"
)

func TestParseMainClass(t *testing.T) {
	src := `class Test
{
	Void main() {
		println("hello");
	}
}`
	prog, err := Parse("test.j", src)
	require.NoError(t, err)
	require.Len(t, prog.Classes, 1)
	assert.Equal(t, "Test", prog.Classes[0].Name)
	require.Len(t, prog.Classes[0].Methods, 1)
	assert.Equal(t, "main", prog.Classes[0].Methods[0].Name)
}

func TestParseFieldsAndMethod(t *testing.T) {
	src := `class Test
{
	Void main() {
		println("x");
	}
}

class Counter
{
	Int value;

	Int get() {
		return value;
	}
}`
	prog, err := Parse("test.j", src)
	require.NoError(t, err)
	require.Len(t, prog.Classes, 2)
	counter := prog.Classes[1]
	require.Len(t, counter.Fields, 1)
	assert.Equal(t, "Int", counter.Fields[0].Type)
	require.Len(t, counter.Methods, 1)
	assert.Equal(t, "Int", counter.Methods[0].ReturnType)
}

func TestParseExpressionPrecedence(t *testing.T) {
	src := `class Test
{
	Void main() {
		Int x;
		x = 1 + 2 * 3;
		println(x);
	}
}`
	prog, err := Parse("test.j", src)
	require.NoError(t, err)
	main := prog.Classes[0].Methods[0]
	require.Len(t, main.Body.Stmts, 2)

	assign, ok := main.Body.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	rhs, ok := assign.Rhs.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", rhs.Op)
	mul, ok := rhs.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseLogicalPrecedence(t *testing.T) {
	src := `class Test
{
	Void main() {
		Bool b;
		b = true || false && true;
		println(b);
	}
}`
	prog, err := Parse("test.j", src)
	require.NoError(t, err)
	assign, ok := prog.Classes[0].Methods[0].Body.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	or, ok := assign.Rhs.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)
	and, ok := or.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Op)
}

func TestParseMethodCallChain(t *testing.T) {
	src := `class Test
{
	Void main() {
		Box b;
		b = new Box();
		b.self().get();
	}
}

class Box
{
	Box self() {
		return this;
	}

	Int get() {
		return 1;
	}
}`
	_, err := Parse("test.j", src)
	require.NoError(t, err)
}

func TestMissingElseIsError(t *testing.T) {
	src := `class Test
{
	Void main() {
		if (true) {
			println("a");
		}
	}
}`
	_, err := Parse("test.j", src)
	require.Error(t, err)
}

func TestEmptyProgramIsError(t *testing.T) {
	_, err := Parse("test.j", "")
	require.Error(t, err)
}
