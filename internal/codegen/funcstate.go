package codegen

import (
	"fmt"
	"sort"

	"jlitec/internal/dataflow"
	"jlitec/internal/ir3"
	"jlitec/internal/regalloc"
)

const stackAlignment = 8

var calleeSaved = []string{"v1", "v2", "v3", "v4", "v5", "v6", "v7", "fp"}

// varLoc tracks where one variable's value lives: a register, a spill
// slot, or both (a spilled variable still needs a register for its short
// restore/use/spill window). Grounded on cgstate.py's VarLoc.
type varLoc struct {
	name     string
	ty       string
	reg      *Register
	hasStack bool
	stackOfs int
}

func (v *varLoc) register() Register {
	if v.reg == nil {
		panic(fmt.Sprintf("variable %q has no register", v.name))
	}
	return *v.reg
}

func (v *varLoc) valid() bool { return v.reg != nil || v.hasStack }

// FuncState carries one function's emitted instructions plus everything
// instruction selection needs to resolve a variable to an operand: its
// register, its spill offset, and the frame layout computed from both.
// Grounded on cgstate.py's FuncState.
type FuncState struct {
	Method   *ir3.FuncDefn
	ExitLabel string

	locations map[string]*varLoc
	instrs    []*Instruction

	FrameSize int
	usedRegs  map[string]bool

	regLiveRanges map[string]dataflow.Set[int]

	nextAnnotation  string
	stackExtraOffset int

	curStmt int

	Classes map[string]*ClassLayout
}

// NewFuncState builds the per-function frame layout from a completed
// register allocation: parameters first (so a local that shadows a
// parameter name wins), then locals, with spilled variables claiming a
// stack slot in allocation order.
func NewFuncState(fn *ir3.FuncDefn, alloc *regalloc.Result, classes map[string]*ClassLayout) *FuncState {
	fs := &FuncState{
		Method:    fn,
		ExitLabel: "." + fn.MangledName + "_exit",
		locations: map[string]*varLoc{},
		Classes:   classes,
	}

	isLocal := map[string]bool{}
	for _, v := range fn.Locals {
		isLocal[v.Name] = true
	}

	frameSize := 0

	for i, p := range fn.Params {
		if isLocal[p.Name] {
			continue
		}
		loc := &varLoc{name: p.Name, ty: p.Type}

		if i < 4 {
			if slot, spilled := alloc.SpillSlots[p.Name]; spilled {
				loc.hasStack = true
				loc.stackOfs = -(frameSize + 4)
				_ = slot
				frameSize += pointerSize
			}
			if reg, ok := alloc.Assignments[p.Name]; ok {
				r := Register{reg}
				loc.reg = &r
			}
		} else {
			loc.hasStack = true
			loc.stackOfs = 8 + (i-4)*4
			if reg, ok := alloc.Assignments[p.Name]; ok {
				r := Register{reg}
				loc.reg = &r
			}
		}
		fs.locations[p.Name] = loc
	}

	for _, v := range fn.Locals {
		loc := &varLoc{name: v.Name, ty: v.Type}
		if _, spilled := alloc.SpillSlots[v.Name]; spilled {
			loc.hasStack = true
			loc.stackOfs = -(frameSize + 4)
			frameSize += pointerSize
		}
		if reg, ok := alloc.Assignments[v.Name]; ok {
			r := Register{reg}
			loc.reg = &r
		}
		fs.locations[v.Name] = loc
	}

	fs.FrameSize = stackAlignment * ((frameSize + stackAlignment - 1) / stackAlignment)

	fs.usedRegs = map[string]bool{}
	for _, r := range alloc.Assignments {
		fs.usedRegs[r] = true
	}

	fs.regLiveRanges = alloc.RegLiveRanges

	return fs
}

// stmtIndex tracks the flattened statement position Select is currently
// emitting, so call sequencing can ask IsRegisterLive about "the next
// statement" (point of a call) using the same indexing regalloc used.
func (fs *FuncState) stmtIndex() int       { return fs.curStmt }
func (fs *FuncState) setStmtIndex(i int)   { fs.curStmt = i }

func (fs *FuncState) IsVarUsed(name string) bool {
	loc, ok := fs.locations[name]
	return ok && loc.valid()
}

func (fs *FuncState) Type(name string) string { return fs.locations[name].ty }

// SetRegisterLiveRanges records, per register name, the set of flattened
// statement indices during which it holds a live value -- read through
// IsRegisterLive by call sequencing to decide which caller-saved registers
// must be saved around a call.
func (fs *FuncState) SetRegisterLiveRanges(ranges map[string]dataflow.Set[int]) {
	fs.regLiveRanges = ranges
}

func (fs *FuncState) IsRegisterLive(reg string, stmt int) bool {
	rng, ok := fs.regLiveRanges[reg]
	return ok && rng.Has(stmt)
}

func (fs *FuncState) calculateStackOffset(ofs int) int {
	return ofs + fs.FrameSize + fs.stackExtraOffset
}

func (fs *FuncState) loadStackLocation(name string, reg Register) {
	loc := fs.locations[name]
	fs.Emit(load(reg, Memory{Base: SP, Offset: fs.calculateStackOffset(loc.stackOfs)}))
}

func (fs *FuncState) storeStackLocation(name string, reg Register) {
	loc := fs.locations[name]
	fs.Emit(store(reg, Memory{Base: SP, Offset: fs.calculateStackOffset(loc.stackOfs)}))
}

// SpillVariable stores a variable's register value to its stack slot. The
// register must already be populated -- spill/restore pseudo-ops only
// appear where the allocator's live-range split guarantees this.
func (fs *FuncState) SpillVariable(name string) {
	loc := fs.locations[name]
	if loc.reg == nil {
		panic(fmt.Sprintf("no register to spill %q", name))
	}
	fs.storeStackLocation(name, *loc.reg)
}

func (fs *FuncState) RestoreVariable(name string) {
	loc := fs.locations[name]
	if loc.reg == nil {
		panic(fmt.Sprintf("could not restore %q", name))
	}
	fs.loadStackLocation(name, *loc.reg)
}

func (fs *FuncState) StackPush(r Register) {
	fs.Emit(store(r, Memory{Base: SP, Offset: -4, PostIncr: true}))
	fs.stackExtraOffset += 4
}

func (fs *FuncState) StackPush32n(n int) {
	fs.Emit(sub(SP, SP, Constant{Value: int32(n * 4)}))
	fs.stackExtraOffset += 4 * n
}

func (fs *FuncState) StackPop32n(n int) {
	fs.Emit(add(SP, SP, Constant{Value: int32(n * 4)}))
	fs.stackExtraOffset -= 4 * n
	if fs.stackExtraOffset < 0 {
		panic("stack_extra_offset went negative")
	}
}

func (fs *FuncState) CurrentStackOffset() int { return fs.FrameSize + fs.stackExtraOffset }

func (fs *FuncState) MangleLabel(name string) string {
	if len(name) > 0 && name[0] == '.' {
		name = name[1:]
	}
	return "." + fs.Method.MangledName + "_" + name
}

func (fs *FuncState) EmitLabel(name string) { fs.Emit(label(fs.MangleLabel(name))) }

func (fs *FuncState) Emit(instr *Instruction) *Instruction {
	if fs.nextAnnotation != "" {
		instr.Annotate(fs.nextAnnotation)
		fs.nextAnnotation = ""
	}
	fs.instrs = append(fs.instrs, instr)
	return instr
}

func (fs *FuncState) AnnotateNext(msg string) { fs.nextAnnotation = msg }

// Instructions exposes the emitted body (not yet wrapped in a prologue
// or epilogue) for the peephole pass to rewrite in place.
func (fs *FuncState) Instructions() []*Instruction { return fs.instrs }

func (fs *FuncState) SetInstructions(instrs []*Instruction) { fs.instrs = instrs }

func (fs *FuncState) BranchToExit() { fs.Emit(branch(fs.ExitLabel)) }

// Finalise assembles the complete instruction stream: header, prologue,
// body, epilogue. annotate controls whether per-instruction comments are
// kept or stripped (the -a/-na flags).
func (fs *FuncState) Finalise(annotate bool) []string {
	if !annotate {
		for _, i := range fs.instrs {
			i.ClearAnnotations()
		}
	}

	var all []*Instruction
	all = append(all, fs.prologue()...)
	all = append(all, fs.instrs...)
	all = append(all, fs.epilogue()...)

	out := []string{
		".global " + fs.Method.MangledName,
		".type " + fs.Method.MangledName + ", %function",
	}
	if annotate {
		out = append(out, fs.annotationBlock()...)
	}
	out = append(out, fs.Method.MangledName+":")
	for _, instr := range all {
		if instr.IsLabel {
			out = append(out, instr.String())
		} else {
			out = append(out, "\t"+instr.String())
		}
	}
	return out
}

func (fs *FuncState) restoreSet() []string {
	var out []string
	for _, r := range calleeSaved {
		if fs.usedRegs[r] {
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}

func (fs *FuncState) prologue() []*Instruction {
	restore := fs.restoreSet()
	var instrs []*Instruction

	if fs.FrameSize > 0 {
		instrs = append(instrs, storeMultiple(SP, []string{"lr"}))
		instrs = append(instrs, sub(SP, SP, Constant{Value: int32(fs.FrameSize)}))
		if len(restore) > 0 {
			instrs = append(instrs, storeMultiple(SP, restore))
		}
	} else {
		instrs = append(instrs, storeMultiple(SP, append([]string{"lr"}, restore...)))
	}
	return instrs
}

func (fs *FuncState) epilogue() []*Instruction {
	restore := fs.restoreSet()
	instrs := []*Instruction{label(fs.ExitLabel)}

	if fs.FrameSize > 0 {
		if len(restore) > 0 {
			instrs = append(instrs, loadMultiple(SP, restore))
		}
		instrs = append(instrs, add(SP, SP, Constant{Value: int32(fs.FrameSize)}))
		instrs = append(instrs, loadMultiple(SP, []string{"pc"}))
	} else {
		instrs = append(instrs, loadMultiple(SP, append([]string{"pc"}, restore...)))
	}
	return instrs
}
