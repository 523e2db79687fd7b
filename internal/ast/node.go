// Package ast defines the surface syntax tree produced by internal/parser:
// classes, methods, statements, and expressions of a JLite source file.
// It is consumed only by internal/sema, which lowers it into internal/ir3.
package ast

import "jlitec/internal/token"

// NodeType tags the concrete kind of a Node for switch dispatch without a
// type assertion.
type NodeType int

const (
	ILLEGAL_NODE NodeType = iota
	IDENT_EXPR
	INT_LIT_EXPR
	STRING_LIT_EXPR
	BOOL_LIT_EXPR
	NULL_LIT_EXPR
	THIS_EXPR
	BINARY_EXPR
	UNARY_EXPR
	DOT_EXPR
	CALL_EXPR
	NEW_EXPR
	PAREN_EXPR

	EXPR_STMT
	READLN_STMT
	PRINTLN_STMT
	RETURN_STMT
	ASSIGN_STMT
	IF_STMT
	WHILE_STMT
	VAR_DECL_STMT
	BLOCK_STMT

	METHOD_DECL
	CLASS_DECL
	PROGRAM
)

// Node is implemented by every AST type. Unlike kanso's ast.Node, JLite
// nodes carry no separate Metadata slot: the front end is a thin producer
// consumed once by internal/sema, so there is nowhere for tooling-attached
// metadata to accumulate.
type Node interface {
	NodePos() token.Position
	NodeType() NodeType
	String() string
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	isExpr()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	isStmt()
}

func (*IdentExpr) isExpr()     {}
func (*IntLitExpr) isExpr()    {}
func (*StringLitExpr) isExpr() {}
func (*BoolLitExpr) isExpr()   {}
func (*NullLitExpr) isExpr()   {}
func (*ThisExpr) isExpr()      {}
func (*BinaryExpr) isExpr()    {}
func (*UnaryExpr) isExpr()     {}
func (*DotExpr) isExpr()       {}
func (*CallExpr) isExpr()      {}
func (*NewExpr) isExpr()       {}
func (*ParenExpr) isExpr()     {}

func (*ExprStmt) isStmt()    {}
func (*ReadLnStmt) isStmt()  {}
func (*PrintLnStmt) isStmt() {}
func (*ReturnStmt) isStmt()  {}
func (*AssignStmt) isStmt()  {}
func (*IfStmt) isStmt()      {}
func (*WhileStmt) isStmt()   {}
func (*VarDeclStmt) isStmt() {}

func (e *IdentExpr) NodePos() token.Position     { return e.Pos }
func (e *IntLitExpr) NodePos() token.Position    { return e.Pos }
func (e *StringLitExpr) NodePos() token.Position { return e.Pos }
func (e *BoolLitExpr) NodePos() token.Position   { return e.Pos }
func (e *NullLitExpr) NodePos() token.Position   { return e.Pos }
func (e *ThisExpr) NodePos() token.Position      { return e.Pos }
func (e *BinaryExpr) NodePos() token.Position    { return e.Pos }
func (e *UnaryExpr) NodePos() token.Position     { return e.Pos }
func (e *DotExpr) NodePos() token.Position       { return e.Pos }
func (e *CallExpr) NodePos() token.Position      { return e.Pos }
func (e *NewExpr) NodePos() token.Position       { return e.Pos }
func (e *ParenExpr) NodePos() token.Position      { return e.Pos }

func (s *ExprStmt) NodePos() token.Position    { return s.Pos }
func (s *ReadLnStmt) NodePos() token.Position  { return s.Pos }
func (s *PrintLnStmt) NodePos() token.Position { return s.Pos }
func (s *ReturnStmt) NodePos() token.Position  { return s.Pos }
func (s *AssignStmt) NodePos() token.Position  { return s.Pos }
func (s *IfStmt) NodePos() token.Position      { return s.Pos }
func (s *WhileStmt) NodePos() token.Position   { return s.Pos }
func (s *VarDeclStmt) NodePos() token.Position { return s.Pos }

func (*IdentExpr) NodeType() NodeType     { return IDENT_EXPR }
func (*IntLitExpr) NodeType() NodeType    { return INT_LIT_EXPR }
func (*StringLitExpr) NodeType() NodeType { return STRING_LIT_EXPR }
func (*BoolLitExpr) NodeType() NodeType   { return BOOL_LIT_EXPR }
func (*NullLitExpr) NodeType() NodeType   { return NULL_LIT_EXPR }
func (*ThisExpr) NodeType() NodeType      { return THIS_EXPR }
func (*BinaryExpr) NodeType() NodeType    { return BINARY_EXPR }
func (*UnaryExpr) NodeType() NodeType     { return UNARY_EXPR }
func (*DotExpr) NodeType() NodeType       { return DOT_EXPR }
func (*CallExpr) NodeType() NodeType      { return CALL_EXPR }
func (*NewExpr) NodeType() NodeType       { return NEW_EXPR }
func (*ParenExpr) NodeType() NodeType     { return PAREN_EXPR }

func (*ExprStmt) NodeType() NodeType    { return EXPR_STMT }
func (*ReadLnStmt) NodeType() NodeType  { return READLN_STMT }
func (*PrintLnStmt) NodeType() NodeType { return PRINTLN_STMT }
func (*ReturnStmt) NodeType() NodeType  { return RETURN_STMT }
func (*AssignStmt) NodeType() NodeType  { return ASSIGN_STMT }
func (*IfStmt) NodeType() NodeType      { return IF_STMT }
func (*WhileStmt) NodeType() NodeType   { return WHILE_STMT }
func (*VarDeclStmt) NodeType() NodeType { return VAR_DECL_STMT }
