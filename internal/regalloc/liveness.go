// Package regalloc implements the Chaitin-style graph-coloring register
// allocator: liveness analysis, interference graph construction,
// preference-directed coloring with an iterative spill-and-retry loop.
// Liveness grounded on original_source/src/cgliveness.py; coloring and
// spilling grounded on original_source/src/cgreg.py (the later of the two
// allocator iterations in the original source tree).
package regalloc

import (
	"jlitec/internal/dataflow"
	"jlitec/internal/ir3"
)

func valueUses(v ir3.Value) dataflow.Set[string] {
	if ref, ok := v.(ir3.VarRef); ok {
		return dataflow.NewSet(ref.Name)
	}
	return dataflow.NewSet[string]()
}

func exprUses(e ir3.Expr) dataflow.Set[string] {
	switch ex := e.(type) {
	case *ir3.BinaryOp:
		return valueUses(ex.Lhs).Union(valueUses(ex.Rhs))
	case *ir3.UnaryOp:
		return valueUses(ex.Val)
	case *ir3.DotOp:
		return dataflow.NewSet(ex.VarName)
	case *ir3.ValueExpr:
		return valueUses(ex.Val)
	case *ir3.FnCallExpr:
		out := dataflow.NewSet[string]()
		for _, a := range ex.Call.Args {
			out = out.Union(valueUses(a))
		}
		return out
	default:
		return dataflow.NewSet[string]()
	}
}

// defsUses mirrors cgliveness.py's get_defs_and_uses, including the
// pseudo-ops regalloc itself introduces across spill retries.
func defsUses(s ir3.Stmt) (dataflow.Set[string], dataflow.Set[string]) {
	none := dataflow.NewSet[string]()
	switch st := s.(type) {
	case *ir3.FnCallStmt:
		uses := dataflow.NewSet[string]()
		for _, a := range st.Call.Args {
			uses = uses.Union(valueUses(a))
		}
		return none, uses
	case *ir3.ReturnStmt:
		if st.Value != nil {
			return none, valueUses(st.Value)
		}
		return none, none
	case *ir3.ReadLnCall:
		return dataflow.NewSet(st.Dest), none
	case *ir3.PrintLnCall:
		return none, valueUses(st.Val)
	case *ir3.AssignOp:
		return dataflow.NewSet(st.Dest), exprUses(st.Rhs)
	case *ir3.AssignDotOp:
		return none, exprUses(st.Rhs).Union(dataflow.NewSet(st.VarName))
	case *ir3.CondBranch:
		return none, valueUses(st.Cond)
	case *ir3.AssignConstInt:
		return dataflow.NewSet(st.Dest), none
	case *ir3.AssignConstString:
		return dataflow.NewSet(st.Dest), none
	case *ir3.SpillVariable:
		return none, dataflow.NewSet(st.VarName)
	case *ir3.RestoreVariable:
		return dataflow.NewSet(st.VarName), none
	case *ir3.StoreField:
		return none, dataflow.NewSet(st.VarName, st.Src)
	default:
		return none, none
	}
}

// Liveness holds the per-statement live-in/live-out variable sets,
// indexed the same way as the FlatFunc they were computed from.
type Liveness struct {
	Flat *dataflow.FlatFunc
	In   []dataflow.Set[string]
	Out  []dataflow.Set[string]
}

// Analyse runs backward liveness over fn, seeding statement 0's defs with
// every local and parameter so their lifetimes are considered to start at
// function entry (cgliveness.py's analyse).
func Analyse(fn *ir3.FuncDefn) *Liveness {
	ff := dataflow.Flatten(fn)

	defsOf := make([]dataflow.Set[string], len(ff.Stmts))
	usesOf := make([]dataflow.Set[string], len(ff.Stmts))
	for i, s := range ff.Stmts {
		defsOf[i], usesOf[i] = defsUses(s)
	}
	if len(defsOf) > 0 {
		for _, v := range fn.Locals {
			defsOf[0].Add(v.Name)
		}
		for _, p := range fn.Params {
			defsOf[0].Add(p.Name)
		}
	}

	res := dataflow.Solve(ff, dataflow.Problem[string]{
		Direction: dataflow.Backward,
		Combine:   dataflow.Union,
		Gen:       func(idx int) dataflow.Set[string] { return usesOf[idx] },
		Kill:      func(idx int) dataflow.Set[string] { return defsOf[idx] },
	})
	return &Liveness{Flat: ff, In: res.In, Out: res.Out}
}
