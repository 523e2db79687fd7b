package ast

import "jlitec/internal/token"

// IdentExpr references a local variable, parameter, or field by name.
type IdentExpr struct {
	Pos  token.Position
	Name string
}

type IntLitExpr struct {
	Pos   token.Position
	Value int32
}

type StringLitExpr struct {
	Pos   token.Position
	Value string
}

type BoolLitExpr struct {
	Pos   token.Position
	Value bool
}

type NullLitExpr struct {
	Pos token.Position
}

// ThisExpr is the receiver reference inside an instance method body.
type ThisExpr struct {
	Pos token.Position
}

// BinaryExpr is one of the arithmetic, relational, or boolean infix
// operators: + - * / < > <= >= == != && ||.
type BinaryExpr struct {
	Pos   token.Position
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr is either negation (-) or boolean complement (!).
type UnaryExpr struct {
	Pos     token.Position
	Op      string
	Operand Expr
}

// DotExpr is a field access or, as the receiver of a CallExpr, a method
// dispatch target: `lhs.Name`.
type DotExpr struct {
	Pos  token.Position
	Lhs  Expr
	Name string
}

// CallExpr applies Args to Callee, which is either a bare IdentExpr (a
// call within the current class) or a DotExpr (a call on a receiver
// expression).
type CallExpr struct {
	Pos    token.Position
	Callee Expr
	Args   []Expr
}

// NewExpr instantiates a class with no constructor arguments, per JLite's
// `new C()` grammar.
type NewExpr struct {
	Pos       token.Position
	ClassName string
}

// ParenExpr preserves explicit parenthesization through to the printer; it
// carries no semantics of its own.
type ParenExpr struct {
	Pos   token.Position
	Inner Expr
}
