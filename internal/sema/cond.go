package sema

import (
	"jlitec/internal/ast"
	"jlitec/internal/errors"
	"jlitec/internal/ir3"
)

// typecheckCond lowers an if/while condition, short-circuiting && and ||
// with real branches rather than eagerly evaluating both sides. Grounded
// on typecheck_cond, but diverges from it in one respect: the original
// builds a cgpseudo.PhiNode to merge the per-branch result into one SSA
// temporary. internal/ir3 has no phi support anywhere downstream (iropt,
// lower, regalloc, and codegen's instruction selector all assume a flat,
// mutable-local IR), so the merge here is done the way every other
// control-flow join in this IR already works: each branch assigns
// directly into the same hoisted Bool result variable, the way a
// while-loop body already reassigns an induction variable across blocks.
func typecheckCond(ts *state, expr ast.Expr) ([]ir3.Stmt, ir3.Value, error) {
	bi, ok := expr.(*ast.BinaryExpr)
	if !ok || (bi.Op != "&&" && bi.Op != "||") {
		return typecheckExpr(ts, expr)
	}

	s1, v1, err := typecheckCond(ts, bi.Left)
	if err != nil {
		return nil, nil, err
	}
	s2, v2, err := typecheckCond(ts, bi.Right)
	if err != nil {
		return nil, nil, err
	}

	t1, err := ts.getValueType(v1)
	if err != nil {
		return nil, nil, err
	}
	if t1 != "Bool" {
		return nil, nil, semaErr(errors.TypeMismatch("Bool", t1, v1.Pos()))
	}
	t2, err := ts.getValueType(v2)
	if err != nil {
		return nil, nil, err
	}
	if t2 != "Bool" {
		return nil, nil, semaErr(errors.TypeMismatch("Bool", t2, v2.Pos()))
	}

	// with no side effects on the rhs, short-circuiting is unobservable:
	// just compute both sides and apply the operator directly.
	if !hasSideEffects(bi.Right) {
		tmp := ts.makeTemp(bi.Pos, "Bool")
		stmts := append(append(s1, s2...), &ir3.AssignOp{Dest: tmp.Name, Rhs: &ir3.BinaryOp{Op: bi.Op, Lhs: v1, Rhs: v2}})
		return stmts, ir3.VarRef{Loc: bi.Pos, Name: tmp.Name}, nil
	}

	result := ts.makeTemp(bi.Pos, "Bool")
	trueLabel := ts.newLabel()
	falseLabel := ts.newLabel()
	mergeLabel := ts.newLabel()

	var stmts []ir3.Stmt
	stmts = append(stmts, s1...)
	stmts = append(stmts, &ir3.CondBranch{Cond: v1, IfTrue: trueLabel})
	stmts = append(stmts, &ir3.Branch{Target: falseLabel})

	if bi.Op == "&&" {
		// lhs false short-circuits to false; lhs true defers to rhs.
		stmts = append(stmts, &ir3.Label{Name: falseLabel})
		stmts = append(stmts, &ir3.AssignOp{Dest: result.Name, Rhs: &ir3.ValueExpr{Val: ir3.ConstantBool{Loc: bi.Pos, BoolVal: false}}})
		stmts = append(stmts, &ir3.Branch{Target: mergeLabel})
		stmts = append(stmts, &ir3.Label{Name: trueLabel})
		stmts = append(stmts, s2...)
		stmts = append(stmts, &ir3.AssignOp{Dest: result.Name, Rhs: &ir3.ValueExpr{Val: v2}})
		stmts = append(stmts, &ir3.Branch{Target: mergeLabel})
	} else {
		// lhs true short-circuits to true; lhs false defers to rhs.
		stmts = append(stmts, &ir3.Label{Name: falseLabel})
		stmts = append(stmts, s2...)
		stmts = append(stmts, &ir3.AssignOp{Dest: result.Name, Rhs: &ir3.ValueExpr{Val: v2}})
		stmts = append(stmts, &ir3.Branch{Target: mergeLabel})
		stmts = append(stmts, &ir3.Label{Name: trueLabel})
		stmts = append(stmts, &ir3.AssignOp{Dest: result.Name, Rhs: &ir3.ValueExpr{Val: ir3.ConstantBool{Loc: bi.Pos, BoolVal: true}}})
		stmts = append(stmts, &ir3.Branch{Target: mergeLabel})
	}

	stmts = append(stmts, &ir3.Label{Name: mergeLabel})
	return stmts, ir3.VarRef{Loc: bi.Pos, Name: result.Name}, nil
}
