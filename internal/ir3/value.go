// Package ir3 implements the flat three-address intermediate representation
// shared by every later compiler stage: basic blocks, functions, classes,
// and the whole program. Grounded on original_source/src/ir3.py's type
// model, restructured as Go interfaces in kanso/internal/ir/types.go's
// tagged-union style (its Instruction interface family).
package ir3

import (
	"fmt"
	"strconv"

	"jlitec/internal/token"
)

// Value is an immediate operand: a constant or a variable reference.
// Values compare and hash by structure (required by CSE and constant
// propagation, spec §3.2).
type Value interface {
	Pos() token.Position
	String() string
	Equal(Value) bool
	HashKey() string
}

type ConstantInt struct {
	Loc    token.Position
	IntVal int32
}

func (v ConstantInt) Pos() token.Position { return v.Loc }
func (v ConstantInt) String() string      { return strconv.Itoa(int(v.IntVal)) }
func (v ConstantInt) Equal(o Value) bool {
	other, ok := o.(ConstantInt)
	return ok && other.IntVal == v.IntVal
}
func (v ConstantInt) HashKey() string { return "i:" + strconv.Itoa(int(v.IntVal)) }

type ConstantBool struct {
	Loc     token.Position
	BoolVal bool
}

func (v ConstantBool) Pos() token.Position { return v.Loc }
func (v ConstantBool) String() string {
	if v.BoolVal {
		return "true"
	}
	return "false"
}
func (v ConstantBool) Equal(o Value) bool {
	other, ok := o.(ConstantBool)
	return ok && other.BoolVal == v.BoolVal
}
func (v ConstantBool) HashKey() string { return "b:" + strconv.FormatBool(v.BoolVal) }

type ConstantString struct {
	Loc    token.Position
	StrVal string
}

func (v ConstantString) Pos() token.Position { return v.Loc }
func (v ConstantString) String() string      { return strconv.Quote(v.StrVal) }
func (v ConstantString) Equal(o Value) bool {
	other, ok := o.(ConstantString)
	return ok && other.StrVal == v.StrVal
}
func (v ConstantString) HashKey() string { return "s:" + v.StrVal }

type ConstantNull struct {
	Loc token.Position
}

func (v ConstantNull) Pos() token.Position { return v.Loc }
func (v ConstantNull) String() string      { return "null" }
func (v ConstantNull) Equal(o Value) bool  { _, ok := o.(ConstantNull); return ok }
func (v ConstantNull) HashKey() string     { return "null" }

// VarRef names a local, parameter, or SSA temporary (temporaries begin
// with '_', per §3.6).
type VarRef struct {
	Loc  token.Position
	Name string
}

func (v VarRef) Pos() token.Position { return v.Loc }
func (v VarRef) String() string      { return v.Name }
func (v VarRef) Equal(o Value) bool {
	other, ok := o.(VarRef)
	return ok && other.Name == v.Name
}
func (v VarRef) HashKey() string { return "v:" + v.Name }

// IsTemporary reports whether the name is a compiler-introduced SSA
// temporary rather than a source-level local or parameter.
func IsTemporary(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

var _ fmt.Stringer = ConstantInt{}
