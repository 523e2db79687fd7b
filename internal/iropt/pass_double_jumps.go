package iropt

import "jlitec/internal/ir3"

// RemoveDoubleJumps retargets any branch into a block that itself consists
// of nothing but a single unconditional Branch, so `a: goto b; b: goto c;`
// becomes `a: goto c;` directly. It does not delete block b itself --
// RemoveUnreachableBlocks does that once nothing points at it anymore.
// Grounded on original_source/src/iropt.py's remove_double_jumps.
type RemoveDoubleJumps struct{}

func (*RemoveDoubleJumps) Name() string { return "double jump removal" }
func (*RemoveDoubleJumps) Description() string {
	return "retargets branches that jump to a block containing only another branch"
}

func (*RemoveDoubleJumps) Apply(fn *ir3.FuncDefn) bool {
	removed := false
	for _, blk := range fn.Blocks {
		if len(blk.Stmts) != 1 {
			continue
		}
		br, ok := blk.Stmts[0].(*ir3.Branch)
		if !ok {
			continue
		}
		target := br.Target

		for _, other := range fn.Blocks {
			for _, s := range other.Stmts {
				switch j := s.(type) {
				case *ir3.Branch:
					if j.Target == blk.Label {
						j.Target = target
						removed = true
					}
				case *ir3.CondBranch:
					if j.IfTrue == blk.Label {
						j.IfTrue = target
						removed = true
					}
				}
			}
		}
	}
	return removed
}
