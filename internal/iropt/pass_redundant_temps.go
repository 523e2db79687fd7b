package iropt

import "jlitec/internal/ir3"

// RemoveRedundantTemporaries collapses the common code-generation pattern
// `_t1 = a + b; m = _t1;` into `m = a + b;` whenever the temporary is
// assigned exactly once and its only use is the very next statement in
// the same block. Grounded on
// original_source/src/iropt.py's remove_redundant_temporaries.
type RemoveRedundantTemporaries struct{}

func (*RemoveRedundantTemporaries) Name() string { return "redundant temporary removal" }
func (*RemoveRedundantTemporaries) Description() string {
	return "inlines a once-assigned temporary into its sole, immediately-following use"
}

func (*RemoveRedundantTemporaries) Apply(fn *ir3.FuncDefn) bool {
	removed := false
	for _, blk := range fn.Blocks {
		for i := 0; i+1 < len(blk.Stmts); i++ {
			ass, ok := blk.Stmts[i].(*ir3.AssignOp)
			if !ok || !isTemporary(ass.Dest) {
				continue
			}
			if countAssigns(fn, ass.Dest) != 1 {
				continue
			}

			next := blk.Stmts[i+1]
			switch nxt := next.(type) {
			case *ir3.AssignOp:
				if ve, ok := nxt.Rhs.(*ir3.ValueExpr); ok {
					if ref, ok := ve.Val.(ir3.VarRef); ok && ref.Name == ass.Dest {
						nxt.Rhs = ass.Rhs
						removed = true
					}
				}
			case *ir3.AssignDotOp:
				if ve, ok := nxt.Rhs.(*ir3.ValueExpr); ok {
					if ref, ok := ve.Val.(ir3.VarRef); ok && ref.Name == ass.Dest {
						nxt.Rhs = ass.Rhs
						removed = true
					}
				}
			}
		}
	}
	return removed
}

func countAssigns(fn *ir3.FuncDefn, name string) int {
	n := 0
	for _, b := range fn.Blocks {
		for _, s := range b.Stmts {
			if a, ok := s.(*ir3.AssignOp); ok && a.Dest == name {
				n++
			}
		}
	}
	return n
}
