package iropt

import (
	"jlitec/internal/dataflow"
	"jlitec/internal/ir3"
)

// PropagateConstants replaces a use of a variable with a literal value
// when exactly one constant assignment to that variable can reach the use
// along every transitive predecessor. Grounded on
// original_source/src/iropt.py's propagate_constants.
type PropagateConstants struct{}

func (*PropagateConstants) Name() string { return "constant propagation" }
func (*PropagateConstants) Description() string {
	return "replaces a variable use with its unique statically-known constant value"
}

func (*PropagateConstants) Apply(fn *ir3.FuncDefn) bool {
	ff := dataflow.Flatten(fn)

	// constants[var][defIdx] = the constant assigned there.
	constants := map[string]map[int]ir3.Value{}
	for idx, s := range ff.Stmts {
		a, ok := s.(*ir3.AssignOp)
		if !ok {
			continue
		}
		ve, ok := a.Rhs.(*ir3.ValueExpr)
		if !ok || !isConstantValue(ve.Val) {
			continue
		}
		if constants[a.Dest] == nil {
			constants[a.Dest] = map[int]ir3.Value{}
		}
		constants[a.Dest][idx] = ve.Val
	}

	gen := func(idx int) dataflow.Set[string] {
		if _, ok := constants[firstDestOrEmpty(ff.Stmts[idx])][idx]; ok {
			return dataflow.NewSet(firstDestOrEmpty(ff.Stmts[idx]))
		}
		return dataflow.NewSet[string]()
	}
	kill := func(idx int) dataflow.Set[string] {
		if d := firstDestOrEmpty(ff.Stmts[idx]); d != "" {
			return dataflow.NewSet(d)
		}
		return dataflow.NewSet[string]()
	}

	res := dataflow.Solve(ff, dataflow.Problem[string]{Direction: dataflow.Forward, Combine: dataflow.Intersect, Gen: gen, Kill: kill})

	reaching := map[string]dataflow.Set[int]{}
	for idx, ins := range res.In {
		for v := range ins {
			if reaching[v] == nil {
				reaching[v] = dataflow.NewSet[int]()
			}
			reaching[v].Add(idx)
		}
	}

	predecessors := transitivePredClosure(ff)

	removed := 0
	for srcVar, stmts := range reaching {
		consts, ok := constants[srcVar]
		if !ok {
			continue
		}
		for idx := range stmts {
			visible := dataflow.NewSet[int]()
			for defIdx := range consts {
				if predecessors[idx].Has(defIdx) {
					visible.Add(defIdx)
				}
			}
			if len(visible) != 1 {
				continue
			}
			var only int
			for d := range visible {
				only = d
			}
			removed += replaceValueInStmt(ff.Stmts[idx], srcVar, consts[only])
		}
	}
	return removed > 0
}

func firstDestOrEmpty(s ir3.Stmt) string {
	if a, ok := s.(*ir3.AssignOp); ok {
		return a.Dest
	}
	return ""
}

// transitivePredClosure returns, for each statement index, the set of all
// statement indices reachable by following Pred edges backward (its own
// index included), used to decide whether a candidate constant definition
// could possibly be the source of a value at a given point.
func transitivePredClosure(ff *dataflow.FlatFunc) map[int]dataflow.Set[int] {
	out := make(map[int]dataflow.Set[int], len(ff.Stmts))
	for start := range ff.Stmts {
		seen := dataflow.NewSet[int](start)
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for p := range ff.Pred[cur] {
				if !seen.Has(p) {
					seen.Add(p)
					queue = append(queue, p)
				}
			}
		}
		out[start] = seen
	}
	return out
}
