package iropt

import "jlitec/internal/ir3"

// Renumber assigns sequential ids to every expression that appears on the
// rhs of an AssignOp, in block/statement order. CSE uses these ids to
// distinguish "this occurrence of an expression" from "an occurrence with
// equal content", mirroring original_source/src/iropt.py's
// renumber_statements/renumber_expressions.
func Renumber(fn *ir3.FuncDefn) {
	id := 0
	for _, b := range fn.Blocks {
		for _, s := range b.Stmts {
			if a, ok := s.(*ir3.AssignOp); ok {
				a.Rhs.SetID(id)
				id++
			}
		}
	}
}

func valueUses(v ir3.Value) []string {
	if ref, ok := v.(ir3.VarRef); ok {
		return []string{ref.Name}
	}
	return nil
}

// exprUses returns the variable names an expression reads, grounded on
// get_expr_uses.
func exprUses(e ir3.Expr) []string {
	switch ex := e.(type) {
	case *ir3.BinaryOp:
		return append(valueUses(ex.Lhs), valueUses(ex.Rhs)...)
	case *ir3.UnaryOp:
		return valueUses(ex.Val)
	case *ir3.DotOp:
		return []string{ex.VarName}
	case *ir3.ValueExpr:
		return valueUses(ex.Val)
	case *ir3.FnCallExpr:
		var out []string
		for _, a := range ex.Call.Args {
			out = append(out, valueUses(a)...)
		}
		return out
	default:
		return nil
	}
}

// stmtUses returns the variable names a statement reads, grounded on
// get_statement_uses.
func stmtUses(s ir3.Stmt) []string {
	switch st := s.(type) {
	case *ir3.FnCallStmt:
		var out []string
		for _, a := range st.Call.Args {
			out = append(out, valueUses(a)...)
		}
		return out
	case *ir3.ReturnStmt:
		if st.Value != nil {
			return valueUses(st.Value)
		}
		return nil
	case *ir3.PrintLnCall:
		return valueUses(st.Val)
	case *ir3.AssignOp:
		return exprUses(st.Rhs)
	case *ir3.AssignDotOp:
		return append([]string{st.VarName}, exprUses(st.Rhs)...)
	case *ir3.CondBranch:
		return valueUses(st.Cond)
	default:
		return nil
	}
}

// stmtDefs returns the variable names a statement writes, grounded on
// get_statement_defs.
func stmtDefs(s ir3.Stmt) []string {
	switch st := s.(type) {
	case *ir3.AssignOp:
		return []string{st.Dest}
	case *ir3.ReadLnCall:
		return []string{st.Dest}
	case *ir3.AssignConstInt:
		return []string{st.Dest}
	case *ir3.AssignConstString:
		return []string{st.Dest}
	case *ir3.RestoreVariable:
		return []string{st.VarName}
	default:
		return nil
	}
}

func isTemporary(name string) bool { return ir3.IsTemporary(name) }

func isConstantValue(v ir3.Value) bool {
	switch v.(type) {
	case ir3.ConstantInt, ir3.ConstantBool, ir3.ConstantString, ir3.ConstantNull:
		return true
	default:
		return false
	}
}

// replaceValueInStmt substitutes every VarRef named oldName within s's
// operands with newValue, returning the number of replacements made.
// Grounded on replace_variables_in_stmt.
func replaceValueInStmt(s ir3.Stmt, oldName string, newValue ir3.Value) int {
	replace := func(v ir3.Value) (ir3.Value, bool) {
		if ref, ok := v.(ir3.VarRef); ok && ref.Name == oldName {
			return newValue, true
		}
		return v, false
	}

	count := 0
	switch st := s.(type) {
	case *ir3.FnCallStmt:
		for i, a := range st.Call.Args {
			if nv, did := replace(a); did {
				st.Call.Args[i] = nv
				count++
			}
		}
	case *ir3.AssignOp:
		count += replaceValueInExpr(st.Rhs, oldName, newValue)
	case *ir3.AssignDotOp:
		if st.VarName == oldName {
			if ref, ok := newValue.(ir3.VarRef); ok {
				st.VarName = ref.Name
				count++
			}
		}
		count += replaceValueInExpr(st.Rhs, oldName, newValue)
	case *ir3.ReturnStmt:
		if st.Value != nil {
			if nv, did := replace(st.Value); did {
				st.Value = nv
				count++
			}
		}
	case *ir3.PrintLnCall:
		if nv, did := replace(st.Val); did {
			st.Val = nv
			count++
		}
	case *ir3.CondBranch:
		if nv, did := replace(st.Cond); did {
			st.Cond = nv
			count++
		}
	}
	return count
}

func replaceValueInExpr(e ir3.Expr, oldName string, newValue ir3.Value) int {
	replace := func(v ir3.Value) (ir3.Value, bool) {
		if ref, ok := v.(ir3.VarRef); ok && ref.Name == oldName {
			return newValue, true
		}
		return v, false
	}

	count := 0
	switch ex := e.(type) {
	case *ir3.BinaryOp:
		if nv, did := replace(ex.Lhs); did {
			ex.Lhs = nv
			count++
		}
		if nv, did := replace(ex.Rhs); did {
			ex.Rhs = nv
			count++
		}
	case *ir3.UnaryOp:
		if nv, did := replace(ex.Val); did {
			ex.Val = nv
			count++
		}
	case *ir3.ValueExpr:
		if nv, did := replace(ex.Val); did {
			ex.Val = nv
			count++
		}
	case *ir3.FnCallExpr:
		for i, a := range ex.Call.Args {
			if nv, did := replace(a); did {
				ex.Call.Args[i] = nv
				count++
			}
		}
	}
	return count
}

// sideEffectOf returns the statement that must survive if e's assignment
// is otherwise dead, since a call's side effect cannot be dropped even
// when its result is unused. Grounded on get_side_effects.
func sideEffectOf(e ir3.Expr) ir3.Stmt {
	if call, ok := e.(*ir3.FnCallExpr); ok {
		return &ir3.FnCallStmt{Call: call.Call}
	}
	return nil
}
