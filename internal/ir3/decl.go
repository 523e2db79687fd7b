package ir3

import "jlitec/internal/token"

// VarDecl is a typed name: a class field, a function parameter, or a
// function local.
type VarDecl struct {
	Loc  token.Position
	Name string
	Type string
}

func (d VarDecl) String() string { return d.Type + " " + d.Name }

// ClassDefn is one class's field layout (§4.7 assigns field offsets from
// this list; ir3 itself only records declaration order and types).
type ClassDefn struct {
	Loc    token.Position
	Name   string
	Fields []VarDecl
}
