package regalloc

import "sort"

// graph is an undirected interference graph over variable names, with a
// "soft delete" (Remove/Unremove) used by the simplify/select coloring
// loop so edges survive a node's time on the stack. Grounded on
// original_source/src/cgreg.py's Graph class.
type graph struct {
	edges   map[string]map[string]bool
	removed map[string]bool
}

func newGraph() *graph {
	return &graph{edges: map[string]map[string]bool{}, removed: map[string]bool{}}
}

func (g *graph) add(v string) {
	if g.edges[v] == nil {
		g.edges[v] = map[string]bool{}
	}
}

func (g *graph) interfere(a, b string) {
	g.edges[a][b] = true
	g.edges[b][a] = true
}

func (g *graph) remove(v string)   { g.removed[v] = true }
func (g *graph) unremove(v string) { delete(g.removed, v) }

func (g *graph) degree(v string) int {
	n := 0
	for n2 := range g.edges[v] {
		if !g.removed[n2] {
			n++
		}
	}
	return n
}

func (g *graph) neighbours(v string) []string {
	if g.removed[v] {
		return nil
	}
	var out []string
	for n2 := range g.edges[v] {
		if !g.removed[n2] {
			out = append(out, n2)
		}
	}
	return out
}

func (g *graph) remainingNodes() []string {
	var out []string
	for v := range g.edges {
		if !g.removed[v] {
			out = append(out, v)
		}
	}
	return out
}

// simplifiableNode returns the alphabetically-first non-excluded node with
// degree below maxDegree, or "" if none exists. Iterating in sorted order
// keeps the allocator's output deterministic.
func (g *graph) simplifiableNode(maxDegree int, exclude map[string]bool) (string, bool) {
	names := make([]string, 0, len(g.edges))
	for v := range g.edges {
		names = append(names, v)
	}
	sort.Strings(names)
	for _, v := range names {
		if g.removed[v] || exclude[v] {
			continue
		}
		if g.degree(v) < maxDegree {
			return v, true
		}
	}
	return "", false
}

func (g *graph) clone() *graph {
	out := newGraph()
	for v, ns := range g.edges {
		cp := make(map[string]bool, len(ns))
		for n2 := range ns {
			cp[n2] = true
		}
		out.edges[v] = cp
	}
	for v := range g.removed {
		out.removed[v] = true
	}
	return out
}
