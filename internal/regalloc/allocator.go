package regalloc

import (
	"fmt"

	"jlitec/internal/dataflow"
	"jlitec/internal/ir3"
	"jlitec/internal/lower"
)

const maxSpillRounds = 64

// Result is the final, fully-colored state of one function: a register
// name per variable, the set of variables that ended up spilled to the
// stack, the slot each spilled variable occupies, and, per register, the
// statement indices where it holds a live value -- the third artifact
// the allocator must hand the emitter, so call
// sequencing knows which caller-saved registers need saving.
type Result struct {
	Assignments   map[string]string
	SpillSlots    map[string]int
	RegLiveRanges map[string]dataflow.Set[int]
}

func regLiveRanges(assignments map[string]string, live *Liveness) map[string]dataflow.Set[int] {
	out := map[string]dataflow.Set[int]{}
	for i := range live.Flat.Stmts {
		for v, reg := range assignments {
			if live.In[i].Has(v) || live.Out[i].Has(v) {
				if out[reg] == nil {
					out[reg] = dataflow.NewSet[int]()
				}
				out[reg].Add(i)
			}
		}
	}
	return out
}

// Allocate lowers fn and runs the simplify/spill/select loop to a fixed
// point. A variable spilled twice in the same run is a fatal condition --
// it means the heuristic picked a candidate that did not actually relieve
// pressure, which should never happen for a well-formed function.
// Grounded on cgreg.py's allocate_registers.
func Allocate(fn *ir3.FuncDefn) (*Result, error) {
	lower.Lower(fn)

	spilled := map[string]bool{}
	slots := map[string]int{}
	nextSlot := 0

	for round := 0; round < maxSpillRounds; round++ {
		live := Analyse(fn)
		g := buildInterferenceGraph(fn, live)
		uses := usesCounts(fn, live)
		liveRanges := liveRangeLengths(live)
		prefs := computePreferences(fn)

		result := colorGraph(g, AllocatableRegisters, uses, liveRanges, prefs, spilled)
		if !result.needsRetry {
			return &Result{
				Assignments:   result.assignments,
				SpillSlots:    slots,
				RegLiveRanges: regLiveRanges(result.assignments, live),
			}, nil
		}

		if spilled[result.spillVar] {
			return nil, fmt.Errorf("regalloc: %s spilled twice in %s, allocation cannot converge",
				result.spillVar, fn.MangledName)
		}

		spilled[result.spillVar] = true
		slots[result.spillVar] = nextSlot
		nextSlot++
		insertSpillCode(fn, result.spillVar, slots[result.spillVar])
	}

	return nil, fmt.Errorf("regalloc: %s exceeded %d spill rounds without converging", fn.MangledName, maxSpillRounds)
}
