package ast

import (
	"fmt"
	"strconv"
	"strings"
)

func indentLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}

func (e *IdentExpr) String() string     { return e.Name }
func (e *IntLitExpr) String() string    { return strconv.Itoa(int(e.Value)) }
func (e *StringLitExpr) String() string { return strconv.Quote(e.Value) }
func (e *BoolLitExpr) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}
func (e *NullLitExpr) String() string { return "null" }
func (e *ThisExpr) String() string    { return "this" }

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

func (e *UnaryExpr) String() string {
	return fmt.Sprintf("%s%s", e.Op, e.Operand)
}

func (e *DotExpr) String() string {
	return fmt.Sprintf("%s.%s", e.Lhs, e.Name)
}

func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Callee, strings.Join(args, ", "))
}

func (e *NewExpr) String() string {
	return fmt.Sprintf("new %s()", e.ClassName)
}

func (e *ParenExpr) String() string {
	// BinaryExpr already parenthesizes itself; avoid doubling up.
	if _, ok := e.Inner.(*BinaryExpr); ok {
		return e.Inner.String()
	}
	return fmt.Sprintf("(%s)", e.Inner)
}

func (b Block) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		sb.WriteString(indentLines(s.String()))
		sb.WriteByte('\n')
	}
	sb.WriteString("}")
	return sb.String()
}

func (s *ExprStmt) String() string   { return s.Call.String() + ";" }
func (s *ReadLnStmt) String() string { return fmt.Sprintf("readln(%s);", s.Name) }
func (s *PrintLnStmt) String() string {
	return fmt.Sprintf("println(%s);", s.Expr)
}

func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", s.Value)
}

func (s *AssignStmt) String() string {
	return fmt.Sprintf("%s = %s;", s.Lhs, s.Rhs)
}

func (s *IfStmt) String() string {
	return fmt.Sprintf("if (%s)\n%s\nelse\n%s", s.Condition, s.Then, s.Else)
}

func (s *WhileStmt) String() string {
	return fmt.Sprintf("while (%s)\n%s", s.Condition, s.Body)
}

func (s *VarDeclStmt) String() string {
	return fmt.Sprintf("%s %s;", s.Type, s.Name)
}

func (v VarDecl) String() string {
	return fmt.Sprintf("%s %s", v.Type, v.Name)
}

func (m *MethodDecl) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s(%s)\n{\n", m.ReturnType, m.Name, strings.Join(params, ", ")))
	for _, l := range m.Locals {
		sb.WriteString("    " + l.String() + "\n")
	}
	for _, st := range m.Body.Stmts {
		sb.WriteString(indentLines(st.String()) + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (c *ClassDecl) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("class %s\n{\n", c.Name))
	for _, f := range c.Fields {
		sb.WriteString("    " + f.String() + ";\n")
	}
	for _, m := range c.Methods {
		sb.WriteString(indentLines(m.String()) + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (p *Program) String() string {
	classes := make([]string, len(p.Classes))
	for i := range p.Classes {
		classes[i] = p.Classes[i].String()
	}
	return strings.Join(classes, "\n\n")
}
