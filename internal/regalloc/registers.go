package regalloc

// AllocatableRegisters is the fixed 10-color pool the graph colorer draws
// from, in preference order for the "first free register" fallback
// . sp, lr, pc, and ip are never allocated.
var AllocatableRegisters = []string{"v1", "v2", "v3", "v4", "v5", "a1", "a2", "a3", "a4", "fp"}

// CalleeSavedRegisters is the subset the prologue/epilogue must push and
// pop -- but only the ones actually touched by a given function
// .
var CalleeSavedRegisters = map[string]bool{
	"v1": true, "v2": true, "v3": true, "v4": true, "v5": true,
	"v6": true, "v7": true, "fp": true,
}

// ArgRegisters names the first four integer/pointer argument registers.
var ArgRegisters = []string{"a1", "a2", "a3", "a4"}
