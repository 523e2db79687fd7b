package regalloc

import "jlitec/internal/ir3"

// computePreferences builds, for each variable, an ordered list of
// preferred registers (most-preferred first): one vote for a1..a4 per
// incoming-parameter position it occupies (when not shadowed by a local
// of the same name), plus one vote per call site where it is passed in
// one of the first four argument positions. Grounded on
// original_source/src/cgreg.py's alloc_function preassignment block.
func computePreferences(fn *ir3.FuncDefn) map[string][]string {
	counts := map[string]map[string]int{}
	vote := func(name, reg string) {
		if counts[name] == nil {
			counts[name] = map[string]int{}
		}
		counts[name][reg]++
	}

	isLocal := map[string]bool{}
	for _, v := range fn.Locals {
		isLocal[v.Name] = true
	}

	for i, p := range fn.Params {
		if i >= len(ArgRegisters) {
			break
		}
		if isLocal[p.Name] {
			continue
		}
		vote(p.Name, ArgRegisters[i])
	}

	visitCall := func(call ir3.Call) {
		for i, a := range call.Args {
			if i >= len(ArgRegisters) {
				break
			}
			if ref, ok := a.(ir3.VarRef); ok {
				vote(ref.Name, ArgRegisters[i])
			}
		}
	}

	for _, b := range fn.Blocks {
		for _, s := range b.Stmts {
			switch st := s.(type) {
			case *ir3.FnCallStmt:
				visitCall(st.Call)
			case *ir3.AssignOp:
				if call, ok := st.Rhs.(*ir3.FnCallExpr); ok {
					visitCall(call.Call)
				}
			}
		}
	}

	out := make(map[string][]string, len(counts))
	for name, regs := range counts {
		out[name] = sortByCountDesc(regs)
	}
	return out
}

func sortByCountDesc(counts map[string]int) []string {
	type pair struct {
		reg string
		n   int
	}
	pairs := make([]pair, 0, len(counts))
	for r, n := range counts {
		pairs = append(pairs, pair{r, n})
	}
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j].n > pairs[j-1].n; j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.reg
	}
	return out
}
