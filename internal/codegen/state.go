package codegen

import (
	"sort"
	"strconv"

	"github.com/sasha-s/go-deadlock"
)

// CodegenState is the process-wide state shared across every function
// being assembled in one compilation: the deduplicated string pool and
// the set of runtime builtins any function has required. A plain
// sync.Mutex would do today since functions are compiled one at a time,
// but go-deadlock catches a hang with a stack trace instead of silence
// the day this gets threaded through a per-function worker pool.
// Grounded on cgstate.py's CodegenState.
type CodegenState struct {
	mu deadlock.RWMutex

	strings  map[string]int
	builtins map[string]bool
}

func NewCodegenState() *CodegenState {
	return &CodegenState{strings: map[string]int{}, builtins: map[string]bool{}}
}

// AddString interns s and returns its pool label.
func (cs *CodegenState) AddString(s string) string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if id, ok := cs.strings[s]; ok {
		return stringLabel(id)
	}
	id := len(cs.strings)
	cs.strings[s] = id
	return stringLabel(id)
}

func stringLabel(id int) string { return ".string" + strconv.Itoa(id) }

// AddRawString interns s like AddString but returns the label for its raw
// bytes directly (skipping the 4-byte length prefix), for compiler-owned
// text -- printf format strings, the "true"/"false" literals -- that
// never flows through the length-tracked user string representation.
func (cs *CodegenState) AddRawString(s string) string {
	return cs.AddString(s) + "_raw"
}

func (cs *CodegenState) require(name string) string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.builtins[name] = true
	return name
}

func (cs *CodegenState) RequireStringConcatFunction() string  { return cs.require("__string_concat") }
func (cs *CodegenState) RequireStringCompareFunction() string { return cs.require("__string_compare") }
func (cs *CodegenState) RequireDivideFunction() string       { return cs.require("__divide_int") }
func (cs *CodegenState) RequireReadlnIntFunction() string    { return cs.require("__readln_int") }
func (cs *CodegenState) RequireReadlnBoolFunction() string   { return cs.require("__readln_bool") }
func (cs *CodegenState) RequireReadlnStringFunction() string { return cs.require("__readln_string") }

// Strings returns the interned strings in pool order, for the serializer.
func (cs *CodegenState) Strings() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]string, len(cs.strings))
	for s, id := range cs.strings {
		out[id] = s
	}
	return out
}

// Builtins returns the required builtin names in sorted order, so the
// emitted assembly is deterministic across runs.
func (cs *CodegenState) Builtins() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]string, 0, len(cs.builtins))
	for b := range cs.builtins {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
