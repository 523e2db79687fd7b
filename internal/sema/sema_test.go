package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jlitec/internal/ast"
	"jlitec/internal/ir3"
	"jlitec/internal/parser"
)

func analyzeSource(t *testing.T, src string) (*ir3.Program, []error) {
	t.Helper()
	prog, err := parser.Parse("test.j", src)
	require.NoError(t, err)
	ir3prog, _, analyzeErr := Analyze(prog)
	if analyzeErr != nil {
		return nil, []error{analyzeErr}
	}
	return ir3prog, nil
}

func TestAnalyzeSimpleMain(t *testing.T) {
	src := `class Test
{
	Void main() {
		println("hello");
	}
}`
	p, errs := analyzeSource(t, src)
	require.Empty(t, errs)
	require.NotNil(t, p)
	require.Len(t, p.Funcs, 1)
	assert.Equal(t, "Void", p.Funcs[0].ReturnType)
}

func TestAnalyzeFieldAccessAndAssignment(t *testing.T) {
	src := `class Test
{
	Void main() {
		Counter c;
		c = new Counter();
		c.value = 5;
		println(c.value);
	}
}

class Counter
{
	Int value;
}`
	p, errs := analyzeSource(t, src)
	require.Empty(t, errs)
	require.NotNil(t, p)

	cls := p.ClassByName("Counter")
	require.NotNil(t, cls)
	require.Len(t, cls.Fields, 1)
	assert.Equal(t, "value", cls.Fields[0].Name)
}

func TestAnalyzeUndefinedVariable(t *testing.T) {
	src := `class Test
{
	Void main() {
		println(x);
	}
}`
	prog, err := parser.Parse("test.j", src)
	require.NoError(t, err)
	_, _, analyzeErr := Analyze(prog)
	require.Error(t, analyzeErr)

	cerr, ok := AsCompilerError(analyzeErr)
	require.True(t, ok)
	assert.Contains(t, cerr.Message, "x")
}

func TestAnalyzeTypeMismatchOnReturn(t *testing.T) {
	src := `class Test
{
	Void main() {
		println(get());
	}

	Int get() {
		return true;
	}
}`
	prog, err := parser.Parse("test.j", src)
	require.NoError(t, err)
	_, _, analyzeErr := Analyze(prog)
	require.Error(t, analyzeErr)
}

func TestAnalyzeMissingReturnOnSomePath(t *testing.T) {
	src := `class Test
{
	Void main() {
		println(0);
	}

	Int get(Bool b) {
		if (b) {
			return 1;
		} else {
			println("no value");
		}
	}
}`
	prog, err := parser.Parse("test.j", src)
	require.NoError(t, err)
	_, _, analyzeErr := Analyze(prog)
	require.Error(t, analyzeErr)
}

func TestAnalyzeDuplicateLocalIsError(t *testing.T) {
	src := `class Test
{
	Void main() {
		Int x;
		Int x;
		x = 1;
		println(x);
	}
}`
	prog, err := parser.Parse("test.j", src)
	require.NoError(t, err)
	_, _, analyzeErr := Analyze(prog)
	require.Error(t, analyzeErr)
}

func TestAnalyzeMethodOverloadResolution(t *testing.T) {
	src := `class Test
{
	Void main() {
		println(describe(1));
		println(describe(true));
	}

	String describe(Int x) {
		return "int";
	}

	String describe(Bool b) {
		return "bool";
	}
}`
	p, errs := analyzeSource(t, src)
	require.Empty(t, errs)
	require.NotNil(t, p)
	require.Len(t, p.Funcs, 3)
}

func TestAnalyzeWhileLoopLowersToBranches(t *testing.T) {
	src := `class Test
{
	Void main() {
		Int i;
		i = 0;
		while (i < 10) {
			i = i + 1;
		}
		println(i);
	}
}`
	p, errs := analyzeSource(t, src)
	require.Empty(t, errs)
	require.NotNil(t, p)

	fn := p.Funcs[0]
	require.Greater(t, len(fn.Blocks), 1, "while loop should produce more than one basic block")
}

func TestHasSideEffectsDetectsCall(t *testing.T) {
	src := `class Test
{
	Void main() {
		Bool a;
		Bool b;
		a = true;
		b = false;
		if (a || truthy()) {
			println("yes");
		} else {
			println("no");
		}
	}

	Bool truthy() {
		return true;
	}
}`
	p, errs := analyzeSource(t, src)
	require.Empty(t, errs)
	require.NotNil(t, p)

	cond := &ast.BinaryExpr{Op: "||", Left: &ast.IdentExpr{Name: "a"}, Right: &ast.CallExpr{Callee: &ast.IdentExpr{Name: "truthy"}}}
	assert.True(t, hasSideEffects(cond))
}

func TestCheckAllPathsReturnNestedIf(t *testing.T) {
	block := ast.Block{
		Stmts: []ast.Stmt{
			&ast.IfStmt{
				Then: ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
				Else: ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
			},
		},
	}
	ok, _ := checkAllPathsReturn(block)
	assert.True(t, ok)
}

func TestCheckAllPathsReturnFalseWhenElseMissingReturn(t *testing.T) {
	block := ast.Block{
		Stmts: []ast.Stmt{
			&ast.IfStmt{
				Then: ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
				Else: ast.Block{Stmts: []ast.Stmt{&ast.PrintLnStmt{}}},
			},
		},
	}
	ok, _ := checkAllPathsReturn(block)
	assert.False(t, ok)
}
