package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jlitec/internal/ir3"
)

func TestBuildClassLayoutOrdersNonBoolFieldsBeforeBool(t *testing.T) {
	cls := ir3.ClassDefn{
		Name: "Node",
		Fields: []ir3.VarDecl{
			{Name: "flag", Type: "Bool"},
			{Name: "value", Type: "Int"},
			{Name: "next", Type: "Node"},
			{Name: "flag2", Type: "Bool"},
		},
	}
	layouts := BuildClassLayouts([]ir3.ClassDefn{cls})
	layout, ok := layouts["Node"]
	require.True(t, ok)

	assert.Equal(t, 0, layout.FieldOffset("value"))
	assert.Equal(t, 4, layout.FieldOffset("next"))
	assert.Equal(t, 8, layout.FieldOffset("flag"))
	assert.Equal(t, 9, layout.FieldOffset("flag2"))
	assert.True(t, layout.IsBoolField("flag"))
	assert.False(t, layout.IsBoolField("value"))
	assert.Equal(t, 4, layout.FieldSize("value"))
	assert.Equal(t, 1, layout.FieldSize("flag"))
	// 8 bytes of non-bool fields + 2 bool bytes = 10, rounded up to 12.
	assert.Equal(t, 12, layout.TotalSize)
}

func TestBuildClassLayoutZeroFieldClassIsOneWord(t *testing.T) {
	layouts := BuildClassLayouts([]ir3.ClassDefn{{Name: "Empty"}})
	assert.Equal(t, 4, layouts["Empty"].TotalSize)
}

func TestBuildClassLayoutOffsetsAreUniqueAndWithinBounds(t *testing.T) {
	cls := ir3.ClassDefn{
		Name: "Three",
		Fields: []ir3.VarDecl{
			{Name: "a", Type: "Int"},
			{Name: "b", Type: "Bool"},
			{Name: "c", Type: "Int"},
		},
	}
	layout := BuildClassLayouts([]ir3.ClassDefn{cls})["Three"]

	seen := map[int]bool{}
	for _, f := range []string{"a", "b", "c"} {
		ofs := layout.FieldOffset(f)
		require.False(t, seen[ofs], "duplicate offset for %s", f)
		seen[ofs] = true
		assert.LessOrEqual(t, ofs+layout.FieldSize(f), layout.TotalSize)
	}
}
