package regalloc

import "jlitec/internal/ir3"

// buildInterferenceGraph adds an edge between every pair of variables
// simultaneously live at some program point (the usual def-vs-live-out
// rule, with a same-statement carve-out so a destination never interferes
// with itself). Grounded on cgreg.py's build_graph.
func buildInterferenceGraph(fn *ir3.FuncDefn, live *Liveness) *graph {
	g := newGraph()

	for _, v := range fn.Locals {
		g.add(v.Name)
	}
	for _, p := range fn.Params {
		g.add(p.Name)
	}

	for i, s := range live.Flat.Stmts {
		defs, _ := defsUses(s)
		for _, d := range defs.Slice() {
			g.add(d)
			for _, o := range live.Out[i].Slice() {
				if o == d {
					continue
				}
				g.add(o)
				g.interfere(d, o)
			}
		}
	}

	return g
}

// usesCounts returns, for each variable, the number of statements that use
// it -- the numerator of the spill-cost heuristic.
func usesCounts(fn *ir3.FuncDefn, live *Liveness) map[string]int {
	out := map[string]int{}
	for _, s := range live.Flat.Stmts {
		_, uses := defsUses(s)
		for _, u := range uses.Slice() {
			out[u]++
		}
	}
	return out
}

// liveRangeLengths returns, for each variable, the number of program
// points at which it is live -- the live-range term of the spill-cost
// heuristic's denominator.
func liveRangeLengths(live *Liveness) map[string]int {
	out := map[string]int{}
	for i := range live.Flat.Stmts {
		for _, v := range live.Out[i].Slice() {
			out[v]++
		}
		for _, v := range live.In[i].Slice() {
			out[v]++
		}
	}
	return out
}
