// Package iropt runs the fixed-point IR3 optimization pipeline: each pass
// is tried in order, and whenever a pass reports a change the pipeline
// restarts from the first pass (statement/expression numbering is
// invalidated by any edit, so there is no profit in resuming mid-list).
// Structured as OptimizationPass values the way
// kanso/internal/ir/optimizations.go's pipeline does, with each pass
// grounded 1:1 on a function in original_source/src/iropt.py.
package iropt

import "jlitec/internal/ir3"

// maxIterations bounds the fixed-point loop; the original has no such
// cap, but a bound guards against a pass that flip-flops due to a latent
// bug rather than looping until memory is exhausted.
const maxIterations = 500

// OptimizationPass is one rewrite rule over a single function's IR3.
type OptimizationPass interface {
	Name() string
	Description() string
	Apply(fn *ir3.FuncDefn) bool
}

// Pipeline runs every pass to a fixed point.
type Pipeline struct {
	passes []OptimizationPass
}

// NewPipeline builds the default nine-pass pipeline in the order the
// original applies them: structural cleanups first (since they can
// invalidate numbering cheaply), then the dataflow-backed passes.
func NewPipeline() *Pipeline {
	return &Pipeline{passes: []OptimizationPass{
		&RemoveUnreachableBlocks{},
		&RemoveDoubleJumps{},
		&RemoveRedundantTemporaries{},
		&RemoveUnusedVariables{},
		&EliminateCommonSubexpressions{},
		&PropagateCopies{},
		&PropagateConstants{},
		&FoldConstants{},
		&RemoveUnreachableStatements{},
	}}
}

// Run applies the pipeline to fn until no pass reports a change, or until
// maxIterations fixed-point rounds elapse. It returns the number of
// rounds in which some pass changed fn (the final no-change round is not
// counted), for diagnostics.
func (p *Pipeline) Run(fn *ir3.FuncDefn) int {
	rounds := 0
	for ; rounds < maxIterations; rounds++ {
		Renumber(fn)

		changed := false
		for _, pass := range p.passes {
			if pass.Apply(fn) {
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}
	return rounds
}
