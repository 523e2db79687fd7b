package ir3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMangleMethodPrimitives(t *testing.T) {
	sym := MangleMethod("Counter", "add", []string{"Counter", "Int", "Bool", "String"})
	assert.Equal(t, "_J7Counter_3add7CounteribsE", sym)
}

func TestMangleMethodNoParams(t *testing.T) {
	assert.Equal(t, "_J4Test_3getE", MangleMethod("Test", "get", nil))
}

func TestMangleMethodMainIsDummy(t *testing.T) {
	assert.Equal(t, "main_dummy", MangleMethod("Test", "main", nil))
}

func TestMangleMethodInjective(t *testing.T) {
	a := MangleMethod("A", "f", []string{"Int"})
	b := MangleMethod("A", "f", []string{"Bool"})
	c := MangleMethod("B", "f", []string{"Int"})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}
