package iropt

import (
	"jlitec/internal/dataflow"
	"jlitec/internal/ir3"
)

// EliminateCommonSubexpressions replaces a recomputed expression with a
// reference to the temporary that already holds its value, when that
// value is guaranteed available on every path reaching the recomputation.
// Only expressions assigned to a temporary are tracked, since temporaries
// are SSA-unique and therefore safe to treat as available without a kill
// from reassignment. Grounded on
// original_source/src/iropt.py's eliminate_common_subexpressions.
type EliminateCommonSubexpressions struct{}

func (*EliminateCommonSubexpressions) Name() string { return "common subexpression elimination" }
func (*EliminateCommonSubexpressions) Description() string {
	return "reuses an already-computed temporary instead of recomputing an identical expression"
}

func (*EliminateCommonSubexpressions) Apply(fn *ir3.FuncDefn) bool {
	ff := dataflow.Flatten(fn)

	// exprGenerator[stmt index] = (expr id, dest var), when that statement
	// generates a tracked expression.
	generatorOf := map[int]string{} // expr id -> generating temp name
	exprAt := map[int]ir3.Expr{}    // expr id -> the expr instance

	gen := func(idx int) dataflow.Set[int] {
		if a, ok := ff.Stmts[idx].(*ir3.AssignOp); ok && isTemporary(a.Dest) {
			exprAt[a.Rhs.ID()] = a.Rhs
			generatorOf[a.Rhs.ID()] = a.Dest
			return dataflow.NewSet(a.Rhs.ID())
		}
		return dataflow.NewSet[int]()
	}
	kill := func(idx int) dataflow.Set[int] {
		defs := dataflow.NewSet(stmtDefs(ff.Stmts[idx])...)
		out := dataflow.NewSet[int]()
		for id, e := range exprAt {
			for _, u := range exprUses(e) {
				if defs.Has(u) {
					out.Add(id)
					break
				}
			}
		}
		return out
	}

	res := dataflow.Solve(ff, dataflow.Problem[int]{Direction: dataflow.Forward, Combine: dataflow.Intersect, Gen: gen, Kill: kill})

	removed := false
	for idx, s := range ff.Stmts {
		var rhs ir3.Expr
		switch st := s.(type) {
		case *ir3.AssignOp:
			rhs = st.Rhs
		case *ir3.AssignDotOp:
			rhs = st.Rhs
		default:
			continue
		}

		switch rhs.(type) {
		case *ir3.FnCallExpr, *ir3.NewOp:
			continue
		}

		for availID := range res.In[idx] {
			if availID == rhs.ID() {
				continue
			}
			avail, ok := exprAt[availID]
			if !ok || avail.String() != rhs.String() {
				continue
			}
			replacement := &ir3.ValueExpr{Val: ir3.VarRef{Name: generatorOf[availID]}}
			switch st := s.(type) {
			case *ir3.AssignOp:
				st.Rhs = replacement
			case *ir3.AssignDotOp:
				st.Rhs = replacement
			}
			removed = true
			break
		}
	}
	return removed
}
