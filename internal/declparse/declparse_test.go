package declparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jlitec/internal/ast"
)

func TestParseStringEmptyFile(t *testing.T) {
	hf, err := ParseString("empty.jlitehdr", "")
	require.NoError(t, err)
	assert.Empty(t, hf.Classes)
}

func TestParseStringSingleClass(t *testing.T) {
	hf, err := ParseString("node.jlitehdr", `
		class Node {
			value: Int;
			next: Node;
		}
	`)
	require.NoError(t, err)
	require.Len(t, hf.Classes, 1)
	assert.Equal(t, "Node", hf.Classes[0].Name)
	require.Len(t, hf.Classes[0].Fields, 2)
	assert.Equal(t, "value", hf.Classes[0].Fields[0].Name)
	assert.Equal(t, "Int", hf.Classes[0].Fields[0].Type)
	assert.Equal(t, "next", hf.Classes[0].Fields[1].Name)
	assert.Equal(t, "Node", hf.Classes[0].Fields[1].Type)
}

func TestParseStringMultipleClassesAndComments(t *testing.T) {
	hf, err := ParseString("shapes.jlitehdr", `
		// forward declarations for the shapes translation unit
		class Shape {
		}
		class Circle {
			radius: Int; // in millimetres
		}
	`)
	require.NoError(t, err)
	require.Len(t, hf.Classes, 2)
	assert.Equal(t, "Shape", hf.Classes[0].Name)
	assert.Empty(t, hf.Classes[0].Fields)
	assert.Equal(t, "Circle", hf.Classes[1].Name)
	assert.Len(t, hf.Classes[1].Fields, 1)
}

func TestParseStringSyntaxError(t *testing.T) {
	_, err := ParseString("broken.jlitehdr", `class Node { value Int; }`)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "E0001", perr.Diagnostic.Code)
}

func TestMergeIntoAddsFieldOnlyClass(t *testing.T) {
	hf, err := ParseString("node.jlitehdr", `class Node { value: Int; }`)
	require.NoError(t, err)

	prog := &ast.Program{}
	require.NoError(t, MergeInto(prog, hf))
	require.Len(t, prog.Classes, 1)
	assert.Equal(t, "Node", prog.Classes[0].Name)
	assert.Empty(t, prog.Classes[0].Methods)
	require.Len(t, prog.Classes[0].Fields, 1)
	assert.Equal(t, "value", prog.Classes[0].Fields[0].Name)
}

func TestMergeIntoRejectsDuplicateClass(t *testing.T) {
	hf, err := ParseString("node.jlitehdr", `class Node { value: Int; }`)
	require.NoError(t, err)

	prog := &ast.Program{Classes: []ast.ClassDecl{{Name: "Node"}}}
	err = MergeInto(prog, hf)
	require.Error(t, err)
}
