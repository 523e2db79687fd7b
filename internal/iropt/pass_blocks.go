package iropt

import "jlitec/internal/ir3"

// RemoveUnreachableBlocks deletes every block not reachable from the
// function's entry block by following Branch/CondBranch edges (plain
// fallthrough is not a real edge at this stage: every block here already
// ends in an explicit terminator). Grounded on
// original_source/src/iropt.py's remove_unreachable_blocks.
type RemoveUnreachableBlocks struct{}

func (*RemoveUnreachableBlocks) Name() string { return "unreachable block removal" }
func (*RemoveUnreachableBlocks) Description() string {
	return "deletes blocks no longer reachable from the entry block"
}

func (*RemoveUnreachableBlocks) Apply(fn *ir3.FuncDefn) bool {
	if len(fn.Blocks) == 0 {
		return false
	}
	byLabel := map[string]*ir3.BasicBlock{}
	for _, b := range fn.Blocks {
		byLabel[b.Label] = b
	}

	reachable := map[string]bool{}
	queue := []string{fn.Blocks[0].Label}
	for len(queue) > 0 {
		label := queue[0]
		queue = queue[1:]
		if reachable[label] {
			continue
		}
		reachable[label] = true
		b := byLabel[label]
		if b == nil {
			continue
		}
		for _, s := range b.Stmts {
			switch st := s.(type) {
			case *ir3.Branch:
				queue = append(queue, st.Target)
			case *ir3.CondBranch:
				queue = append(queue, st.IfTrue)
			}
		}
	}

	var kept []*ir3.BasicBlock
	removed := false
	for _, b := range fn.Blocks {
		if reachable[b.Label] {
			kept = append(kept, b)
		} else {
			removed = true
		}
	}
	fn.Blocks = kept
	return removed
}
