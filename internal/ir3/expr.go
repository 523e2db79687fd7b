package ir3

import (
	"fmt"

	"jlitec/internal/token"
)

// Expr is a pure expression form (side-effecting only via FnCallExpr and
// NewOp, per §3.3). Every expression carries an ID assigned during
// renumbering, used by CSE to identify syntactically-equal expressions.
type Expr interface {
	Pos() token.Position
	ID() int
	SetID(int)
	String() string
	// Operands returns every Value this expression reads, used by the
	// dataflow framework's generic uses() helper.
	Operands() []Value
}

type exprBase struct {
	Loc token.Position
	Eid int
}

func (e *exprBase) Pos() token.Position { return e.Loc }
func (e *exprBase) ID() int             { return e.Eid }
func (e *exprBase) SetID(id int)        { e.Eid = id }

// BinaryOp applies one of + - * / == != < > <= >= && || (or string
// concatenation, tagged by the front end after type checking) to two
// Values.
type BinaryOp struct {
	exprBase
	Op    string
	Lhs   Value
	Rhs   Value
}

func (e *BinaryOp) String() string      { return fmt.Sprintf("(%s %s %s)", e.Lhs, e.Op, e.Rhs) }
func (e *BinaryOp) Operands() []Value   { return []Value{e.Lhs, e.Rhs} }

// UnaryOp applies - or ! to a Value.
type UnaryOp struct {
	exprBase
	Op  string
	Val Value
}

func (e *UnaryOp) String() string    { return fmt.Sprintf("%s%s", e.Op, e.Val) }
func (e *UnaryOp) Operands() []Value { return []Value{e.Val} }

// DotOp loads a field of an object referenced by a local variable.
type DotOp struct {
	exprBase
	VarName   string
	FieldName string
}

func (e *DotOp) String() string { return fmt.Sprintf("%s.%s", e.VarName, e.FieldName) }
func (e *DotOp) Operands() []Value {
	return []Value{VarRef{Loc: e.Loc, Name: e.VarName}}
}

// ValueExpr injects a bare Value where an Expr is syntactically required
// (e.g. the rhs of a copy `x = y`).
type ValueExpr struct {
	exprBase
	Val Value
}

func (e *ValueExpr) String() string    { return e.Val.String() }
func (e *ValueExpr) Operands() []Value { return []Value{e.Val} }

// Call is shared between FnCallExpr and FnCallStmt: a mangled callee name
// plus positional arguments, with the receiver (if any) already the first
// argument by the time the front end hands it to the core.
type Call struct {
	Loc    token.Position
	Callee string
	Args   []Value
}

func (c Call) String() string {
	s := c.Callee + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// FnCallExpr is a call used in value position.
type FnCallExpr struct {
	exprBase
	Call Call
}

func (e *FnCallExpr) String() string    { return e.Call.String() }
func (e *FnCallExpr) Operands() []Value { return e.Call.Args }

// NewOp heap-allocates a zeroed instance of the named class.
type NewOp struct {
	exprBase
	ClassName string
}

func (e *NewOp) String() string    { return "new " + e.ClassName + "()" }
func (e *NewOp) Operands() []Value { return nil }
