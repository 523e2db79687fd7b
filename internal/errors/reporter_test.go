package errors

import (
	"testing"

	"github.com/stretchr/testify/require"
	"jlitec/internal/token"
)

func TestUndefinedVariableSuggestion(t *testing.T) {
	err := UndefinedVariable("coun", token.Position{Line: 3, Column: 5}, []string{"count", "other"})
	require.Equal(t, ErrorUndefinedVariable, err.Code)
	require.Equal(t, Error, err.Level)
	require.Len(t, err.Suggestions, 1)
	require.Contains(t, err.Suggestions[0].Message, "count")
}

func TestFormatErrorIncludesCodeAndLocation(t *testing.T) {
	src := "class Foo\n{\n}\n"
	reporter := NewErrorReporter("foo.j", src)

	out := reporter.FormatError(New(ErrorUndefinedClass, "undefined class 'Bar'", token.Position{Line: 1, Column: 7}).Build())
	require.Contains(t, out, "E0102")
	require.Contains(t, out, "foo.j:1:7")
}

func TestIsWarningRange(t *testing.T) {
	require.True(t, IsWarning(WarningUnusedVariable))
	require.False(t, IsWarning(ErrorTypeMismatch))
}

func TestFatalfCarriesStack(t *testing.T) {
	err := Fatalf(ErrorDoubleSpill, "variable '%s' spilled twice", "_t3")
	require.Error(t, err)
	require.Contains(t, err.Error(), "_t3")
	require.True(t, IsCoreInvariant(ErrorDoubleSpill))
}
