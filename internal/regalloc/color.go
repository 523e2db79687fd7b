package regalloc

import "sort"

// colorResult is the outcome of one coloring attempt: either a complete
// assignment, or exactly one variable that must be spilled before trying
// again.
type colorResult struct {
	assignments map[string]string
	prespilled  map[string]bool
	spillVar    string
	needsRetry  bool
}

// colorGraph runs the simplify/select loop: repeatedly remove a low-degree
// node (preferring non-preassigned ones so preassigned variables are
// pushed later, popped and colored earlier, and more likely to keep their
// preferred register), and when no such node exists, pick the cheapest
// spill candidate by uses/(liveRange+degree). Grounded on
// original_source/src/cgreg.py's colour_graph.
func colorGraph(g0 *graph, registers []string, uses map[string]int, liveRanges map[string]int,
	preferences map[string][]string, prespilled0 map[string]bool) colorResult {

	g := g0.clone()
	prespilled := map[string]bool{}
	for k := range prespilled0 {
		prespilled[k] = true
	}

	preassignedVars := map[string]bool{}
	for v := range preferences {
		preassignedVars[v] = true
	}

	var stack []string
	for len(g.remainingNodes()) > 0 {
		if sel, ok := g.simplifiableNode(len(registers), preassignedVars); ok {
			g.remove(sel)
			stack = append(stack, sel)
			delete(prespilled, sel)
			continue
		}

		if sel, ok := g.simplifiableNode(len(registers), map[string]bool{}); ok {
			g.remove(sel)
			stack = append(stack, sel)
			delete(prespilled, sel)
			continue
		}

		remaining := g.remainingNodes()
		var candidates []string
		for _, v := range remaining {
			if !prespilled[v] {
				candidates = append(candidates, v)
			}
		}
		if len(candidates) == 0 {
			break
		}
		sort.Strings(candidates)
		sort.SliceStable(candidates, func(i, j int) bool {
			return spillCost(candidates[i], uses, liveRanges, g) < spillCost(candidates[j], uses, liveRanges, g)
		})
		sel := candidates[0]
		g.remove(sel)
		stack = append(stack, sel)
	}

	for v := range prespilled {
		g.remove(v)
		stack = append(stack, v)
	}

	assignments := map[string]string{}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		g.unremove(v)

		used := map[string]bool{}
		for _, n2 := range g.neighbours(v) {
			used[assignments[n2]] = true
		}

		var free []string
		for _, r := range registers {
			if !used[r] {
				free = append(free, r)
			}
		}

		if len(free) == 0 {
			return colorResult{spillVar: v, needsRetry: true}
		}

		freeSet := map[string]bool{}
		for _, r := range free {
			freeSet[r] = true
		}
		chosen := ""
		for _, pref := range preferences[v] {
			if freeSet[pref] {
				chosen = pref
				break
			}
		}
		if chosen == "" {
			chosen = free[0]
		}
		assignments[v] = chosen
	}

	return colorResult{assignments: assignments, prespilled: prespilled}
}

func spillCost(v string, uses map[string]int, liveRanges map[string]int, g *graph) float64 {
	denom := liveRanges[v] + g.degree(v)
	if denom == 0 {
		denom = 1
	}
	return float64(uses[v]) / float64(denom)
}
