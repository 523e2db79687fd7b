package codegen

import "jlitec/internal/ir3"

const savedLR = 4

var callerArgRegs = []string{"a1", "a2", "a3", "a4"}

// selectCall lowers one call site in full: caller-save, stack-argument
// spill, dependency-safe register shuffling, the branch-and-link, and
// result cleanup. destName is "" for a call used as a statement (result
// discarded). Grounded on the call sequencing convention below.
func selectCall(cs *CodegenState, fs *FuncState, call ir3.Call, destName string) {
	saveSet := callerSaveSet(fs, destName)

	pad := alignmentPadding(fs, len(saveSet))
	if pad {
		fs.Emit(sub(SP, SP, Constant{Value: 4}))
		fs.stackExtraOffset += 4
	}

	if len(saveSet) > 0 {
		fs.AnnotateNext("caller-save")
		fs.Emit(storeMultiple(SP, saveSet))
		fs.stackExtraOffset += 4 * len(saveSet)
	}

	stackArgs := 0
	if len(call.Args) > 4 {
		stackArgs = len(call.Args) - 4
		fs.Emit(sub(SP, SP, Constant{Value: int32(stackArgs * 4)}))
		fs.stackExtraOffset += stackArgs * 4
		for k := 4; k < len(call.Args); k++ {
			v := resolveRegister(fs, call.Args[k])
			fs.Emit(store(v, Memory{Base: SP, Offset: (k - 4) * 4}))
		}
	}

	shuffleArgsIntoRegisters(fs, call.Args)

	fs.Emit(branchLink(calleeSymbol(call.Callee)))

	if stackArgs > 0 {
		fs.Emit(add(SP, SP, Constant{Value: int32(stackArgs * 4)}))
		fs.stackExtraOffset -= stackArgs * 4
	}

	if len(saveSet) > 0 {
		fs.AnnotateNext("caller-restore")
		fs.Emit(loadMultiple(SP, saveSet))
		fs.stackExtraOffset -= 4 * len(saveSet)
	}

	if pad {
		fs.Emit(add(SP, SP, Constant{Value: 4}))
		fs.stackExtraOffset -= 4
	}

	if destName != "" && destName != "a1" {
		fs.Emit(mov(Register{destName}, Register{"a1"}))
	}
}

// callerSaveSet picks the a1..a4 that are live past this call, excluding
// whichever one is about to receive the call's own result.
func callerSaveSet(fs *FuncState, destName string) []string {
	var out []string
	for _, r := range callerArgRegs {
		if r == destName {
			continue
		}
		if fs.IsRegisterLive(r, fs.stmtIndex()+1) {
			out = append(out, r)
		}
	}
	return out
}

func alignmentPadding(fs *FuncState, saveSetLen int) bool {
	total := savedLR + fs.FrameSize + fs.stackExtraOffset + 4*saveSetLen
	return total%8 != 0
}

// shuffleArgsIntoRegisters moves the first (up to) four arguments into
// a1..a4 in an order that never clobbers an argument before it has been
// read as another argument's source -- repeatedly picking a destination
// that is not also someone else's source.
func shuffleArgsIntoRegisters(fs *FuncState, args []ir3.Value) {
	n := len(args)
	if n > 4 {
		n = 4
	}

	type move struct {
		dest string
		src  ir3.Value
	}
	var pending []move
	for i := 0; i < n; i++ {
		pending = append(pending, move{dest: callerArgRegs[i], src: args[i]})
	}

	isSourceOfOther := func(reg string, except int) bool {
		for i, m := range pending {
			if i == except {
				continue
			}
			if ref, ok := m.src.(ir3.VarRef); ok {
				if loc := fs.locations[ref.Name]; loc != nil && loc.reg != nil && loc.reg.Name == reg {
					return true
				}
			}
		}
		return false
	}

	for len(pending) > 0 {
		progressed := false
		for i, m := range pending {
			if isSourceOfOther(m.dest, i) {
				continue
			}
			fs.Emit(mov(Register{m.dest}, resolveValue(fs, m.src)))
			pending = append(pending[:i], pending[i+1:]...)
			progressed = true
			break
		}
		if !progressed {
			panic("selectCall: cyclic argument dependency, should be unreachable after register allocation")
		}
	}
}

// calleeSymbol appends the PLT suffix libc builtins need for dynamic
// linking; mangled IR names call directly.
func calleeSymbol(name string) string {
	switch name {
	case "puts", "printf", "malloc", "calloc":
		return name + "(PLT)"
	default:
		return name
	}
}
