package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// annotationBlock renders the per-function "@ reg allocation: ... / @
// spilled: ..." comment pair emitted at function finalization when -a is
// set. Grounded on original_source/src/cgannotate.py, which prints the
// same summary ahead of a function's body so a human reading the .s file
// can see the allocator's decisions without cross-referencing the
// compiler's debug output.
func (fs *FuncState) annotationBlock() []string {
	names := make([]string, 0, len(fs.locations))
	for name := range fs.locations {
		names = append(names, name)
	}
	sort.Strings(names)

	var assigned, spilled []string
	for _, name := range names {
		loc := fs.locations[name]
		if loc.reg != nil {
			assigned = append(assigned, fmt.Sprintf("%s=%s", name, loc.reg.Name))
		}
		if loc.hasStack {
			spilled = append(spilled, name)
		}
	}

	return []string{
		"@ reg allocation: " + joinOrNone(assigned),
		"@ spilled: " + joinOrNone(spilled),
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
