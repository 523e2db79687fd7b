package dataflow

import "jlitec/internal/ir3"

// FlatFunc is a per-statement flattening of a FuncDefn's blocks into one
// global statement index space, mirroring the original's renumber_statements
// pass: statement i's successors/predecessors are expressed as indices into
// Stmts, not as block labels, so the solver never needs to know about
// block boundaries.
type FlatFunc struct {
	Stmts  []ir3.Stmt
	// BlockOf maps a statement index to the label of its enclosing block.
	BlockOf []string
	// Succ and Pred hold the statement-level control-flow edges.
	Succ map[int]Set[int]
	Pred map[int]Set[int]
}

// Flatten builds a FlatFunc from fn's current block list.
func Flatten(fn *ir3.FuncDefn) *FlatFunc {
	ff := &FlatFunc{Succ: map[int]Set[int]{}, Pred: map[int]Set[int]{}}

	blockFirstID := map[string]int{}
	for _, b := range fn.Blocks {
		blockFirstID[b.Label] = len(ff.Stmts)
		for _, s := range b.Stmts {
			ff.Stmts = append(ff.Stmts, s)
			ff.BlockOf = append(ff.BlockOf, b.Label)
		}
	}

	idx := 0
	for _, b := range fn.Blocks {
		for i, s := range b.Stmts {
			succ := NewSet[int]()
			switch st := s.(type) {
			case *ir3.Branch:
				succ.Add(blockFirstID[st.Target])
			case *ir3.CondBranch:
				succ.Add(blockFirstID[st.IfTrue])
				if i+1 < len(b.Stmts) {
					succ.Add(idx + 1)
				}
			case *ir3.ReturnStmt:
				// no successors
			default:
				if i+1 < len(b.Stmts) {
					succ.Add(idx + 1)
				}
			}
			ff.Succ[idx] = succ
			idx++
		}
	}

	for from, tos := range ff.Succ {
		for to := range tos {
			if ff.Pred[to] == nil {
				ff.Pred[to] = NewSet[int]()
			}
			ff.Pred[to].Add(from)
		}
	}
	return ff
}
