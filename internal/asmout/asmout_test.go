package asmout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jlitec/internal/codegen"
)

func TestAssembleEmptyProgramHasMainWrapperAndDataSection(t *testing.T) {
	cs := codegen.NewCodegenState()
	out := Assemble(cs, nil)

	assert.True(t, strings.HasPrefix(out, ".text\n"))
	assert.Contains(t, out, "main:\n")
	assert.Contains(t, out, "\tbl main_dummy\n")
	assert.Contains(t, out, "\tmov a1, #0\n")
	assert.Contains(t, out, ".data\n.global stdin\n")
}

func TestAssembleDedupesStringPool(t *testing.T) {
	cs := codegen.NewCodegenState()
	lbl1 := cs.AddString("hello")
	lbl2 := cs.AddString("hello")
	lbl3 := cs.AddString("world")
	assert.Equal(t, lbl1, lbl2)
	assert.NotEqual(t, lbl1, lbl3)

	out := Assemble(cs, nil)
	assert.Equal(t, 1, strings.Count(out, ".string0:\n"))
	assert.Contains(t, out, ".string0:\n\t.word 5\n.string0_raw:\n\t.asciz \"hello\"\n")
	assert.Contains(t, out, ".string1:\n\t.word 5\n.string1_raw:\n\t.asciz \"world\"\n")
}

func TestAssembleEmitsOnlyRequiredBuiltinsSortedByName(t *testing.T) {
	cs := codegen.NewCodegenState()
	cs.RequireDivideFunction()
	cs.RequireStringConcatFunction()

	out := Assemble(cs, nil)
	divIdx := strings.Index(out, "__divide_int:")
	concatIdx := strings.Index(out, "__string_concat:")
	require.NotEqual(t, -1, divIdx)
	require.NotEqual(t, -1, concatIdx)
	assert.Less(t, divIdx, concatIdx, "builtins should appear sorted by name")

	assert.NotContains(t, out, "__readln_int:")
	assert.NotContains(t, out, "__string_compare:")
}

func TestAssembleIncludesFunctionBodiesInOrder(t *testing.T) {
	cs := codegen.NewCodegenState()
	bodies := [][]string{
		{".global f", "f:", "\tmov a1, #1"},
		{".global g", "g:", "\tmov a1, #2"},
	}
	out := Assemble(cs, bodies)
	fIdx := strings.Index(out, "f:")
	gIdx := strings.Index(out, "g:")
	mainIdx := strings.Index(out, "main:")
	require.True(t, fIdx >= 0 && gIdx >= 0 && mainIdx >= 0)
	assert.Less(t, fIdx, gIdx)
	assert.Less(t, gIdx, mainIdx)
}

func TestEscapeStringControlCharsAndNonPrintable(t *testing.T) {
	assert.Equal(t, `a\nb\tc\rd`, escapeString("a\nb\tc\rd"))
	assert.Equal(t, `\x01`, escapeString("\x01"))
	assert.Equal(t, `hello, world`, escapeString("hello, world"))
}
