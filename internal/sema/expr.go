package sema

import (
	"fmt"

	"jlitec/internal/ast"
	"jlitec/internal/errors"
	"jlitec/internal/ir3"
)

// binaryAllowed lists, per operand type, the operators typecheckBinaryOp
// accepts -- grounded on typecheck_binaryop's `allowables` table.
var binaryAllowed = map[string]map[string]bool{
	"Int":    set("+", "-", "*", "/", "==", "!=", ">", "<", ">=", "<="),
	"Bool":   set("&&", "||", "==", "!="),
	"String": set("+", "==", "!="),
}

func set(vals ...string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", ">", "<", ">=", "<=":
		return true
	default:
		return false
	}
}

// typecheckExpr lowers one surface expression into the statements needed
// to compute it plus the Value naming its result, per typecheck_expr.
func typecheckExpr(ts *state, expr ast.Expr) ([]ir3.Stmt, ir3.Value, error) {
	switch e := expr.(type) {
	case *ast.UnaryExpr:
		return typecheckUnaryOp(ts, e)

	case *ast.BinaryExpr:
		return typecheckBinaryOp(ts, e)

	case *ast.DotExpr:
		return typecheckDotOp(ts, e)

	case *ast.IdentExpr:
		decl, isField, err := ts.getVar(e.Pos, e.Name)
		if err != nil {
			return nil, nil, err
		}
		if isField {
			tmp := ts.makeTemp(e.Pos, decl.Type)
			stmt := &ir3.AssignOp{Dest: tmp.Name, Rhs: &ir3.DotOp{VarName: "this", FieldName: decl.Name}}
			return []ir3.Stmt{stmt}, ir3.VarRef{Loc: e.Pos, Name: tmp.Name}, nil
		}
		return nil, ir3.VarRef{Loc: e.Pos, Name: decl.Name}, nil

	case *ast.CallExpr:
		if dot, ok := e.Callee.(*ast.DotExpr); ok {
			return typecheckDotCall(ts, dot, e)
		}
		// a bare call (no receiver) is always dispatched against the
		// enclosing method's "this".
		thisDecl, _, err := ts.getVar(e.Pos, "this")
		if err != nil {
			return nil, nil, err
		}
		return typecheckCall(ts, thisDecl.Type, "this", e)

	case *ast.ParenExpr:
		return typecheckExpr(ts, e.Inner)

	case *ast.NewExpr:
		switch e.ClassName {
		case "Int", "Void", "String", "Bool":
			return nil, nil, semaErr(errors.New(errors.ErrorInvalidArguments,
				fmt.Sprintf("'new' cannot be used for type '%s'", e.ClassName), e.Pos).Build())
		}
		if _, err := ts.getClassDecl(e.Pos, e.ClassName); err != nil {
			return nil, nil, err
		}
		tmp := ts.makeTemp(e.Pos, e.ClassName)
		stmt := &ir3.AssignOp{Dest: tmp.Name, Rhs: &ir3.NewOp{ClassName: e.ClassName}}
		return []ir3.Stmt{stmt}, ir3.VarRef{Loc: e.Pos, Name: tmp.Name}, nil

	case *ast.ThisExpr:
		return nil, ir3.VarRef{Loc: e.Pos, Name: "this"}, nil

	case *ast.IntLitExpr:
		return nil, ir3.ConstantInt{Loc: e.Pos, IntVal: e.Value}, nil

	case *ast.BoolLitExpr:
		return nil, ir3.ConstantBool{Loc: e.Pos, BoolVal: e.Value}, nil

	case *ast.StringLitExpr:
		return nil, ir3.ConstantString{Loc: e.Pos, StrVal: e.Value}, nil

	case *ast.NullLitExpr:
		return nil, ir3.ConstantNull{Loc: e.Pos}, nil

	default:
		return nil, nil, errors.Fatalf(errors.ErrorUnknownOperator, "unhandled expression node %T", expr)
	}
}

func typecheckUnaryOp(ts *state, un *ast.UnaryExpr) ([]ir3.Stmt, ir3.Value, error) {
	stmts, value, err := typecheckExpr(ts, un.Operand)
	if err != nil {
		return nil, nil, err
	}
	vty, err := ts.getValueType(value)
	if err != nil {
		return nil, nil, err
	}
	if (un.Op == "-" && vty != "Int") || (un.Op == "!" && vty != "Bool") {
		return nil, nil, semaErr(errors.InvalidUnaryOperation(un.Op, vty, un.Pos))
	}
	tmp := ts.makeTemp(un.Pos, vty)
	stmts = append(stmts, &ir3.AssignOp{Dest: tmp.Name, Rhs: &ir3.UnaryOp{Op: un.Op, Val: value}})
	return stmts, ir3.VarRef{Loc: un.Pos, Name: tmp.Name}, nil
}

func typecheckBinaryOp(ts *state, bi *ast.BinaryExpr) ([]ir3.Stmt, ir3.Value, error) {
	s1, v1, err := typecheckExpr(ts, bi.Left)
	if err != nil {
		return nil, nil, err
	}
	s2, v2, err := typecheckExpr(ts, bi.Right)
	if err != nil {
		return nil, nil, err
	}

	t1, err := ts.getValueType(v1)
	if err != nil {
		return nil, nil, err
	}
	t2, err := ts.getValueType(v2)
	if err != nil {
		return nil, nil, err
	}

	// a String compared/concatenated against a bare `null` literal just
	// evaluates to the String side -- "s + null" and "null + s" both mean
	// "s", same as assigning null to a String-typed field being legal.
	if t1 == "String" && t2 == "$NullObject" {
		return append(s1, s2...), v1, nil
	}
	if t1 == "$NullObject" && t2 == "String" {
		return append(s1, s2...), v2, nil
	}

	if t1 != t2 {
		return nil, nil, semaErr(errors.InvalidBinaryOperation(bi.Op, t1, t2, bi.Pos))
	}
	if t1 == "$NullObject" {
		return nil, nil, semaErr(errors.New(errors.ErrorInvalidBinaryOperation,
			"ambiguous operator '+' on two 'null's", bi.Pos).Build())
	}

	allowed := binaryAllowed[t1]
	if allowed == nil || !allowed[bi.Op] {
		return nil, nil, semaErr(errors.New(errors.ErrorInvalidBinaryOperation,
			fmt.Sprintf("operator '%s' cannot be applied on arguments of type '%s'", bi.Op, t1), bi.Pos).Build())
	}

	resultTy := t1
	if isComparison(bi.Op) {
		resultTy = "Bool"
	}

	op := bi.Op
	if t1 == "String" {
		switch bi.Op {
		case "+":
			op = "+s"
		case "==":
			op = "==s"
		case "!=":
			op = "!=s"
		}
	}

	tmp := ts.makeTemp(bi.Pos, resultTy)
	stmts := append(append(s1, s2...), &ir3.AssignOp{Dest: tmp.Name, Rhs: &ir3.BinaryOp{Op: op, Lhs: v1, Rhs: v2}})
	return stmts, ir3.VarRef{Loc: bi.Pos, Name: tmp.Name}, nil
}

func typecheckDotOp(ts *state, dot *ast.DotExpr) ([]ir3.Stmt, ir3.Value, error) {
	stmts, left, err := typecheckExpr(ts, dot.Lhs)
	if err != nil {
		return nil, nil, err
	}
	leftTy, err := ts.getValueType(left)
	if err != nil {
		return nil, nil, err
	}
	if !ts.isObjectType(leftTy) || leftTy == "String" {
		return nil, nil, semaErr(errors.NotAnObject(dot.Lhs.String(), leftTy, dot.Pos))
	}

	cls, err := ts.getClassDecl(dot.Pos, leftTy)
	if err != nil {
		return nil, nil, err
	}

	this, pre, err := ts.promoteIfNecessary(left)
	if err != nil {
		return nil, nil, err
	}
	stmts = append(stmts, pre...)

	for _, f := range cls.Fields {
		if f.Name != dot.Name {
			continue
		}
		tmp := ts.makeTemp(dot.Pos, f.Type)
		stmts = append(stmts, &ir3.AssignOp{Dest: tmp.Name, Rhs: &ir3.DotOp{VarName: this.Name, FieldName: f.Name}})
		return stmts, ir3.VarRef{Loc: dot.Pos, Name: tmp.Name}, nil
	}

	var fieldNames []string
	for _, f := range cls.Fields {
		fieldNames = append(fieldNames, f.Name)
	}
	return nil, nil, semaErr(errors.FieldNotFound(cls.Name, dot.Name, dot.Pos, fieldNames))
}

// typecheckDotCall handles `lhs.method(args)`: internal/parser folds this
// into CallExpr{Callee: DotExpr{Lhs: lhs, Name: method}, Args: args}, so
// typecheckExpr's CallExpr case routes here whenever the callee is itself
// a DotExpr, instead of treating it as a field access.
func typecheckDotCall(ts *state, dot *ast.DotExpr, call *ast.CallExpr) ([]ir3.Stmt, ir3.Value, error) {
	stmts, left, err := typecheckExpr(ts, dot.Lhs)
	if err != nil {
		return nil, nil, err
	}
	leftTy, err := ts.getValueType(left)
	if err != nil {
		return nil, nil, err
	}
	if !ts.isObjectType(leftTy) || leftTy == "String" {
		return nil, nil, semaErr(errors.NotAnObject(dot.Lhs.String(), leftTy, dot.Pos))
	}
	cls, err := ts.getClassDecl(dot.Pos, leftTy)
	if err != nil {
		return nil, nil, err
	}
	this, pre, err := ts.promoteIfNecessary(left)
	if err != nil {
		return nil, nil, err
	}
	stmts = append(stmts, pre...)

	s1, v1, err := typecheckCall(ts, cls.Name, this.Name, call)
	if err != nil {
		return nil, nil, err
	}
	return append(stmts, s1...), v1, nil
}

func typecheckCall(ts *state, clsName, thisName string, call *ast.CallExpr) ([]ir3.Stmt, ir3.Value, error) {
	ident, ok := call.Callee.(*ast.IdentExpr)
	if !ok {
		return nil, nil, errors.Fatalf(errors.ErrorUnknownOperator, "unexpected callee expression %T in function call", call.Callee)
	}
	funcName := ident.Name

	methods := ts.funcDecls[clsName][funcName]
	if methods == nil {
		return nil, nil, semaErr(errors.UndefinedFunction(funcName, call.Pos))
	}

	var stmts []ir3.Stmt
	var argVals []ir3.Value
	var argTypes []string
	for _, arg := range call.Args {
		ss, v, err := typecheckExpr(ts, arg)
		if err != nil {
			return nil, nil, err
		}
		ty, err := ts.getValueType(v)
		if err != nil {
			return nil, nil, err
		}
		stmts = append(stmts, ss...)
		argVals = append(argVals, v)
		argTypes = append(argTypes, ty)
	}

	overload, err := findOverload(ts, call.Pos, argTypes, methods)
	if err != nil {
		return nil, nil, err
	}
	if overload == nil {
		return nil, nil, semaErr(errors.New(errors.ErrorInvalidArguments,
			fmt.Sprintf("method '%s' in class '%s' has no overload taking arguments %v", funcName, clsName, argTypes),
			call.Pos).Build())
	}

	mangled := ir3.MangleMethod(clsName, funcName, overload.params)

	allArgs := append([]ir3.Value{ir3.VarRef{Loc: call.Pos, Name: thisName}}, argVals...)
	fnCall := ir3.Call{Loc: call.Pos, Callee: mangled, Args: allArgs}

	if overload.retType == "Void" {
		stmts = append(stmts, &ir3.FnCallStmt{Call: fnCall})
		return stmts, constantVoid{loc: call.Pos}, nil
	}

	tmp := ts.makeTemp(call.Pos, overload.retType)
	stmts = append(stmts, &ir3.AssignOp{Dest: tmp.Name, Rhs: &ir3.FnCallExpr{Call: fnCall}})
	return stmts, ir3.VarRef{Loc: call.Pos, Name: tmp.Name}, nil
}

// hasSideEffects decides whether evaluating expr could be skipped by
// short-circuiting, grounded on typecheck.py's has_side_effects. `new` is
// deliberately excluded -- a class instantiation whose result is discarded
// by short-circuiting still has no user-observable effect in JLite, since
// constructors don't exist and fields start zeroed.
func hasSideEffects(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.CallExpr:
		return true
	case *ast.BinaryExpr:
		return hasSideEffects(e.Left) || hasSideEffects(e.Right)
	case *ast.UnaryExpr:
		return hasSideEffects(e.Operand)
	case *ast.ParenExpr:
		return hasSideEffects(e.Inner)
	case *ast.DotExpr:
		return hasSideEffects(e.Lhs)
	default:
		return false
	}
}
