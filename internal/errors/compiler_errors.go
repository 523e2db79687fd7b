package errors

import (
	"fmt"
	"strings"

	"jlitec/internal/token"
)

// Builder provides a fluent interface for constructing a CompilerError with
// suggestions, notes, and help text.
type Builder struct {
	err CompilerError
}

// New starts a new error-level diagnostic.
func New(code, message string, pos token.Position) *Builder {
	return &Builder{err: CompilerError{Level: Error, Code: code, Message: message, Position: pos, Length: 1}}
}

// NewWarning starts a new warning-level diagnostic.
func NewWarning(code, message string, pos token.Position) *Builder {
	return &Builder{err: CompilerError{Level: Warning, Code: code, Message: message, Position: pos, Length: 1}}
}

func (b *Builder) WithLength(length int) *Builder {
	b.err.Length = length
	return b
}

func (b *Builder) WithSuggestion(message string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *Builder) WithHelp(help string) *Builder {
	b.err.HelpText = help
	return b
}

func (b *Builder) Build() CompilerError {
	return b.err
}

// closestName returns every candidate that is a prefix of name or has name
// as a prefix, in candidate order, used for "did you mean" suggestions. It's intentionally simple (no edit
// distance) -- JLite identifiers tend to be short enough that prefix
// matching already catches the common typo case.
func closestName(name string, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, name) || strings.HasPrefix(name, c) {
			out = append(out, c)
		}
	}
	return out
}

// UndefinedVariable reports a use of a name with no declaration in scope.
func UndefinedVariable(name string, pos token.Position, inScope []string) CompilerError {
	b := New(ErrorUndefinedVariable, fmt.Sprintf("undefined variable '%s'", name), pos).WithLength(len(name))
	if sug := closestName(name, inScope); len(sug) > 0 {
		b = b.WithSuggestion(fmt.Sprintf("did you mean '%s'?", sug[0]))
	}
	return b.Build()
}

// UndefinedFunction reports a call to a method with no matching signature.
func UndefinedFunction(name string, pos token.Position) CompilerError {
	return New(ErrorUndefinedFunction, fmt.Sprintf("undefined function '%s'", name), pos).
		WithLength(len(name)).Build()
}

// UndefinedClass reports a reference to a class name with no declaration.
func UndefinedClass(name string, pos token.Position) CompilerError {
	return New(ErrorUndefinedClass, fmt.Sprintf("undefined class '%s'", name), pos).
		WithLength(len(name)).Build()
}

// TypeMismatch reports an expression whose static type does not match what
// the surrounding context requires.
func TypeMismatch(expected, actual string, pos token.Position) CompilerError {
	return New(ErrorTypeMismatch, fmt.Sprintf("expected type '%s', found '%s'", expected, actual), pos).Build()
}

// InvalidBinaryOperation reports an operator applied to operand types it
// isn't defined for.
func InvalidBinaryOperation(op, lhs, rhs string, pos token.Position) CompilerError {
	return New(ErrorInvalidBinaryOperation,
		fmt.Sprintf("operator '%s' is not defined for '%s' and '%s'", op, lhs, rhs), pos).Build()
}

// InvalidUnaryOperation reports a unary operator applied to an operand type
// it isn't defined for.
func InvalidUnaryOperation(op, operand string, pos token.Position) CompilerError {
	return New(ErrorInvalidUnaryOperation,
		fmt.Sprintf("operator '%s' is not defined for '%s'", op, operand), pos).Build()
}

// FieldNotFound reports access to a field the object's class doesn't declare.
func FieldNotFound(class, field string, pos token.Position, available []string) CompilerError {
	b := New(ErrorFieldNotFound, fmt.Sprintf("class '%s' has no field '%s'", class, field), pos).
		WithLength(len(field))
	if sug := closestName(field, available); len(sug) > 0 {
		b = b.WithSuggestion(fmt.Sprintf("did you mean '%s'?", sug[0]))
	}
	return b.Build()
}

// DuplicateDeclaration reports a redeclaration of a name in a scope that
// forbids shadowing (class, method, or field names within one class).
func DuplicateDeclaration(name string, pos token.Position) CompilerError {
	return New(ErrorDuplicateDeclaration, fmt.Sprintf("'%s' is already declared", name), pos).Build()
}

// InvalidArguments reports an arity mismatch at a call site.
func InvalidArguments(function string, expected, actual int, pos token.Position) CompilerError {
	return New(ErrorInvalidArguments,
		fmt.Sprintf("'%s' expects %d argument(s), got %d", function, expected, actual), pos).Build()
}

// InvalidAssignment reports an assignment whose rhs type doesn't match the
// lhs variable or field's declared type.
func InvalidAssignment(message string, pos token.Position) CompilerError {
	return New(ErrorInvalidAssignment, message, pos).Build()
}

// NotAnObject reports a DotOp performed on a non-class-typed variable.
func NotAnObject(name, ty string, pos token.Position) CompilerError {
	return New(ErrorNotAnObject, fmt.Sprintf("'%s' has type '%s', which has no fields", name, ty), pos).Build()
}

// MissingReturn reports a non-void method with a control-flow path that
// doesn't end in a return statement (§3.6 invariant, checked by the front
// end before the core ever sees the function).
func MissingReturn(method, returnType string, pos token.Position) CompilerError {
	return New(ErrorMissingReturn,
		fmt.Sprintf("method '%s' declares return type '%s' but not all paths return a value", method, returnType), pos).Build()
}

// UnreachableStatement reports a statement following a terminator within a
// basic block (§4.1: "warn once per basic block").
func UnreachableStatement(pos token.Position) CompilerError {
	return NewWarning(WarningUnreachableStatement, "unreachable statement", pos).Build()
}

// ShadowedParameter reports a local variable declaration that reuses the
// name of one of its method's parameters.
func ShadowedParameter(name string, pos token.Position) CompilerError {
	return NewWarning(WarningShadowedParameter,
		fmt.Sprintf("local variable '%s' shadows function parameter", name), pos).Build()
}

// UnusedVariable reports a declared local that is never read.
func UnusedVariable(name string, pos token.Position) CompilerError {
	return NewWarning(WarningUnusedVariable, fmt.Sprintf("variable '%s' is never used", name), pos).
		WithLength(len(name)).Build()
}
