package iropt

import "jlitec/internal/ir3"

// RemoveUnreachableStatements deletes any statement following an
// unconditional Branch or a ReturnStmt within the same block --
// code the front end or an earlier pass left stranded after a jump it
// introduced. At most one such run is trimmed per block per call, mirroring
// the warning raised during basic-block construction ("at most once
// per block").
type RemoveUnreachableStatements struct{}

func (*RemoveUnreachableStatements) Name() string { return "unreachable statement removal" }
func (*RemoveUnreachableStatements) Description() string {
	return "trims statements stranded after a block's terminator"
}

func (*RemoveUnreachableStatements) Apply(fn *ir3.FuncDefn) bool {
	changed := false
	for _, b := range fn.Blocks {
		for i, s := range b.Stmts {
			if isTerminator(s) && i+1 < len(b.Stmts) {
				b.Stmts = b.Stmts[:i+1]
				changed = true
				break
			}
		}
	}
	return changed
}

func isTerminator(s ir3.Stmt) bool {
	switch s.(type) {
	case *ir3.Branch, *ir3.ReturnStmt:
		return true
	default:
		return false
	}
}
