package iropt

import "jlitec/internal/ir3"

// RemoveUnusedVariables drops any local whose value is never read. When a
// dropped assignment's rhs has a side effect (a call), the assignment is
// replaced by a bare FnCallStmt so the call still executes; otherwise the
// statement is deleted outright. Grounded on
// original_source/src/iropt.py's remove_unused_variables.
type RemoveUnusedVariables struct{}

func (*RemoveUnusedVariables) Name() string { return "unused variable removal" }
func (*RemoveUnusedVariables) Description() string {
	return "deletes locals with no remaining reads, preserving call side effects"
}

func (*RemoveUnusedVariables) Apply(fn *ir3.FuncDefn) bool {
	removed := false

	var stillUsed []ir3.VarDecl
	for _, v := range fn.Locals {
		if countUses(fn, v.Name) > 0 {
			stillUsed = append(stillUsed, v)
			continue
		}

		for _, b := range fn.Blocks {
			var kept []ir3.Stmt
			for _, s := range b.Stmts {
				if !assignsTo(s, v.Name) {
					kept = append(kept, s)
					continue
				}
				if a, ok := s.(*ir3.AssignOp); ok {
					if se := sideEffectOf(a.Rhs); se != nil {
						kept = append(kept, se)
						continue
					}
				}
				// statement dropped entirely
			}
			b.Stmts = kept
		}
		removed = true
	}
	fn.Locals = stillUsed
	return removed
}

func countUses(fn *ir3.FuncDefn, name string) int {
	n := 0
	for _, b := range fn.Blocks {
		for _, s := range b.Stmts {
			for _, u := range stmtUses(s) {
				if u == name {
					n++
				}
			}
		}
	}
	return n
}

func assignsTo(s ir3.Stmt, name string) bool {
	for _, d := range stmtDefs(s) {
		if d == name {
			return true
		}
	}
	return false
}
