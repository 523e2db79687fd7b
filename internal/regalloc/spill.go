package regalloc

import "jlitec/internal/ir3"

// insertSpillCode rewrites every block of fn so that name's value is
// reloaded immediately before each use and written back immediately after
// each def, then forgotten in registers for the rest of its lifetime.
// Only the first four incoming parameters get an extra spill right at
// entry: those arrive in a1..a4 and hold a meaningful value from the
// caller, so that value must be preserved before it is ever restored.
// Parameters 5+ arrive on the stack and every other local starts
// indeterminate, so neither needs a spill of an "initial" value.
// Grounded on cgreg.py's alloc_function spill-retry block.
func insertSpillCode(fn *ir3.FuncDefn, name string, slot int) {
	isRegParam := false
	for i, p := range fn.Params {
		if p.Name == name && i < 4 {
			isRegParam = true
			break
		}
	}

	for bi, b := range fn.Blocks {
		var rebuilt []ir3.Stmt

		if bi == 0 && isRegParam {
			rebuilt = append(rebuilt, &ir3.SpillVariable{VarName: name, Slot: slot})
		}

		for _, s := range b.Stmts {
			defs, uses := defsUses(s)
			needsRestore := false
			for _, u := range uses.Slice() {
				if u == name {
					needsRestore = true
				}
			}
			needsSpill := false
			for _, d := range defs.Slice() {
				if d == name {
					needsSpill = true
				}
			}

			if needsRestore {
				rebuilt = append(rebuilt, &ir3.RestoreVariable{VarName: name, Slot: slot})
			}
			rebuilt = append(rebuilt, s)
			if needsSpill {
				rebuilt = append(rebuilt, &ir3.SpillVariable{VarName: name, Slot: slot})
			}
		}

		fn.Blocks[bi].Stmts = rebuilt
	}
}
