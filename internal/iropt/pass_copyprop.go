package iropt

import (
	"jlitec/internal/dataflow"
	"jlitec/internal/ir3"
)

// PropagateCopies finds assignments of the form `copier = var;` where both
// names are temporaries (hence SSA: each is assigned exactly once), and
// replaces every later use of copier -- everywhere var's definition still
// reaches -- with var directly. This leaves the original copy assignment
// unused, letting RemoveUnusedVariables delete it on the pass after.
// Grounded on original_source/src/iropt.py's propagate_copies.
type PropagateCopies struct{}

func (*PropagateCopies) Name() string { return "copy propagation" }
func (*PropagateCopies) Description() string {
	return "replaces a temporary copy's uses with the original value it copied"
}

func (*PropagateCopies) Apply(fn *ir3.FuncDefn) bool {
	ff := dataflow.Flatten(fn)

	gen := func(idx int) dataflow.Set[string] {
		if a, ok := ff.Stmts[idx].(*ir3.AssignOp); ok && isTemporary(a.Dest) {
			return dataflow.NewSet(a.Dest)
		}
		return dataflow.NewSet[string]()
	}
	kill := func(int) dataflow.Set[string] { return dataflow.NewSet[string]() }

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

	copiers := map[string]string{} // source var -> copier var
	for idx, s := range ff.Stmts {
		a, ok := s.(*ir3.AssignOp)
		if !ok || !isTemporary(a.Dest) {
			continue
		}
		ve, ok := a.Rhs.(*ir3.ValueExpr)
		if !ok {
			continue
		}
		ref, ok := ve.Val.(ir3.VarRef)
		if !ok {
			continue
		}
		if !reaching[ref.Name].Has(idx) {
			continue
		}
		copiers[ref.Name] = a.Dest
	}

	removed := 0
	for srcVar, stmts := range reaching {
		copier, ok := copiers[srcVar]
		if !ok {
			continue
		}
		for idx := range stmts {
			removed += replaceValueInStmt(ff.Stmts[idx], copier, ir3.VarRef{Name: srcVar})
		}
	}
	return removed > 0
}
