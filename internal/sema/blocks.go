package sema

import (
	"jlitec/internal/errors"
	"jlitec/internal/ir3"
	"jlitec/internal/token"
)

// convertToBasicBlocks groups a flat, label/branch-annotated statement list
// into ir3.BasicBlocks. Grounded on convert_to_basic_blocks, but does not
// populate BasicBlock.Preds: nothing downstream reads it (dataflow.Flatten
// recomputes predecessor/successor edges itself from Branch/CondBranch
// targets), so the bookkeeping the original performs for it is dropped.
func convertToBasicBlocks(ts *state, retty string, stmts []ir3.Stmt) ([]*ir3.BasicBlock, error) {
	if len(stmts) == 0 {
		return nil, nil
	}

	labelPos := map[string]token.Position{}
	for _, s := range stmts {
		if l, ok := s.(*ir3.Label); ok {
			labelPos[l.Name] = l.Pos()
		}
	}

	var blocks []*ir3.BasicBlock
	blockNames := map[string]*ir3.BasicBlock{}

	entry := &ir3.BasicBlock{Loc: stmts[0].Pos(), Label: ".entry"}
	blockNames[entry.Label] = entry
	blocks = append(blocks, entry)
	current := entry

	exitedBlock := false
	warnedThisBlock := false

	for i, stmt := range stmts {
		if l, ok := stmt.(*ir3.Label); ok {
			if !exitedBlock {
				return nil, errors.Fatalf(errors.ErrorDanglingLabel, "ir3 should not fallthrough at %d:%d", l.Pos().Line, l.Pos().Column)
			}

			if next, ok := blockNames[l.Name]; ok {
				current = next
			} else {
				blk := &ir3.BasicBlock{Loc: l.Pos(), Label: l.Name}
				blockNames[l.Name] = blk
				current = blk
			}
			blocks = append(blocks, current)

			exitedBlock = false
			warnedThisBlock = false
			continue
		}

		if exitedBlock {
			if !warnedThisBlock {
				if _, ok := stmt.(*ir3.Branch); !ok {
					ts.warn(errors.UnreachableStatement(stmt.Pos()))
					warnedThisBlock = true
				}
			}
			continue
		}

		switch s := stmt.(type) {
		case *ir3.Branch:
			current.Stmts = append(current.Stmts, s)
			if _, ok := blockNames[s.Target]; !ok {
				blockNames[s.Target] = &ir3.BasicBlock{Loc: labelPos[s.Target], Label: s.Target}
			}
			exitedBlock = true

		case *ir3.CondBranch:
			current.Stmts = append(current.Stmts, s)
			if _, ok := blockNames[s.IfTrue]; !ok {
				blockNames[s.IfTrue] = &ir3.BasicBlock{Loc: s.Pos(), Label: s.IfTrue}
			}
			exitedBlock = false
			warnedThisBlock = false

		case *ir3.ReturnStmt:
			current.Stmts = append(current.Stmts, s)
			exitedBlock = true

		default:
			current.Stmts = append(current.Stmts, s)
		}

		if retty == "Void" && i+1 == len(stmts) {
			current.Stmts = append(current.Stmts, &ir3.ReturnStmt{Value: nil})
		}
	}

	return blocks, nil
}

// ensureCorrectBasicBlocks enforces that every block ends in a Return or
// Branch -- no implicit fallthrough, per ensure_correct_basic_blocks.
func ensureCorrectBasicBlocks(fn *ir3.FuncDefn) error {
	for _, b := range fn.Blocks {
		if len(b.Stmts) == 0 {
			return errors.Fatalf(errors.ErrorMalformedBasicBlock, "malformed IR: empty basic block %q in %s", b.Label, fn.MangledName)
		}
		last := b.Stmts[len(b.Stmts)-1]
		switch last.(type) {
		case *ir3.ReturnStmt, *ir3.Branch:
		default:
			return errors.Fatalf(errors.ErrorMalformedBasicBlock, "malformed IR: fallthrough in basic block %q in %s", b.Label, fn.MangledName)
		}
	}
	return nil
}
