// Package peephole rewrites a finished function's instruction stream
// with a small fixed set of local patterns: redundant branches,
// duplicate loads/stores, dead load-then-store pairs, folded
// compare-and-branch sequences, and no-op arithmetic. Grounded 1:1 on
// original_source/src/cgopt.py.
package peephole

import "jlitec/internal/codegen"

// Optimize runs every rule to a fixed point, same loop structure as
// cgopt.py's optimise.
func Optimize(fs *codegen.FuncState) {
	for {
		instrs := fs.Instructions()
		if removeRedundantBranches(fs) {
			continue
		}
		if removeRedundantConsecutiveLoadsStores(fs) {
			continue
		}
		if removeRedundantLoadStore(fs) {
			continue
		}
		if optimizeConditionalBranches(fs) {
			continue
		}
		if removeRedundantArithmetic(fs) {
			continue
		}
		_ = instrs
		break
	}
}

func removeInstr(fs *codegen.FuncState, i int) {
	instrs := fs.Instructions()
	fs.SetInstructions(append(instrs[:i:i], instrs[i+1:]...))
}

// removeRedundantBranches drops an unconditional branch that jumps
// straight to the label immediately following it.
func removeRedundantBranches(fs *codegen.FuncState) bool {
	instrs := fs.Instructions()
	for i := 0; i+1 < len(instrs); i++ {
		in, next := instrs[i], instrs[i+1]
		if in.Mnemonic != "b" || !next.IsLabel {
			continue
		}
		if len(in.Operands) != 1 {
			continue
		}
		if lbl, ok := in.Operands[0].(codegen.Label); ok && lbl.Name+":" == next.Mnemonic {
			removeInstr(fs, i)
			return true
		}
	}
	return false
}

func sameInstruction(a, b *codegen.Instruction) bool {
	if a.Mnemonic != b.Mnemonic || a.RawOperand != b.RawOperand || len(a.Operands) != len(b.Operands) {
		return false
	}
	for i := range a.Operands {
		if a.Operands[i] != b.Operands[i] {
			return false
		}
	}
	return true
}

// sameOperands compares two instructions' operands and raw trailing text
// while ignoring their mnemonics, for rules that intentionally pair two
// different opcodes (a load and the store that immediately re-writes it).
func sameOperands(a, b *codegen.Instruction) bool {
	if a.RawOperand != b.RawOperand || len(a.Operands) != len(b.Operands) {
		return false
	}
	for i := range a.Operands {
		if a.Operands[i] != b.Operands[i] {
			return false
		}
	}
	return true
}

func memoryOperand(instr *codegen.Instruction) (codegen.Memory, bool) {
	if len(instr.Operands) < 2 {
		return codegen.Memory{}, false
	}
	m, ok := instr.Operands[1].(codegen.Memory)
	return m, ok
}

// removeRedundantConsecutiveLoadsStores drops one of two identical
// consecutive ldr/str instructions (labels naturally partition this to
// one basic block, since a label line breaks the adjacency).
func removeRedundantConsecutiveLoadsStores(fs *codegen.FuncState) bool {
	instrs := fs.Instructions()
	for i := 0; i+1 < len(instrs); i++ {
		in1, in2 := instrs[i], instrs[i+1]
		if in1.Mnemonic != "str" && in1.Mnemonic != "ldr" {
			continue
		}
		if !sameInstruction(in1, in2) {
			continue
		}
		if m1, ok := memoryOperand(in1); ok && m1.PostIncr {
			continue
		}
		if m2, ok := memoryOperand(in2); ok && m2.PostIncr {
			continue
		}
		removeInstr(fs, i)
		return true
	}
	return false
}

// removeRedundantLoadStore drops a store that immediately re-writes the
// exact value a preceding load just read from the same location, and also
// collapses a caller-restore immediately followed by a caller-save of the
// same register set (a call whose argument shuffle needed none of the
// saved values back) into a single load with its writeback cleared, so
// the stack pointer stays where the save would have left it.
func removeRedundantLoadStore(fs *codegen.FuncState) bool {
	instrs := fs.Instructions()
	for i := 0; i+1 < len(instrs); i++ {
		in1, in2 := instrs[i], instrs[i+1]

		if !in1.IsLabel && !in2.IsLabel && in1.Mnemonic == "ldr" && in2.Mnemonic == "str" {
			if sameOperands(in1, in2) {
				m1, ok1 := memoryOperand(in1)
				m2, ok2 := memoryOperand(in2)
				if !(ok1 && m1.PostIncr) && !(ok2 && m2.PostIncr) {
					removeInstr(fs, i+1)
					return true
				}
			}
		}

		if hasAnnotation(in1, "caller-restore") && hasAnnotation(in2, "caller-save") {
			if in1.Mnemonic != "ldmfd" || in2.Mnemonic != "stmfd" {
				continue
			}
			if in1.RawOperand != in2.RawOperand || len(in1.Operands) != 1 || len(in2.Operands) != 1 {
				continue
			}
			r1, ok1 := in1.Operands[0].(codegen.Register)
			r2, ok2 := in2.Operands[0].(codegen.Register)
			if !ok1 || !ok2 || !r1.Writeback || !r2.Writeback || r1.Name != r2.Name {
				continue
			}

			removeInstr(fs, i+1)
			instrs = fs.Instructions()
			instrs[i].Operands[0] = codegen.Register{Name: r1.Name, Writeback: false}
			return true
		}
	}
	return false
}

func hasAnnotation(instr *codegen.Instruction, tag string) bool {
	for _, a := range instr.Annotations {
		if a == tag {
			return true
		}
	}
	return false
}

var branchConditions = map[string]bool{"eq": true, "ne": true, "lt": true, "gt": true, "le": true, "ge": true}

func condSuffix(mnemonic, prefix string) (string, bool) {
	if len(mnemonic) <= len(prefix) || mnemonic[:len(prefix)] != prefix {
		return "", false
	}
	suf := mnemonic[len(prefix):]
	return suf, branchConditions[suf]
}

// optimizeConditionalBranches collapses the cmp/moveq/movne/cmp/bne
// five-instruction idiom IR-level relational BinaryOp selection produces
// into a single cmp + conditional branch.
func optimizeConditionalBranches(fs *codegen.FuncState) bool {
	instrs := fs.Instructions()
	for i := 0; i+4 < len(instrs); i++ {
		w := instrs[i : i+5]
		if w[0].Mnemonic != "cmp" {
			continue
		}

		cond1, ok1 := condSuffix(w[1].Mnemonic, "mov")
		cond2, ok2 := condSuffix(w[2].Mnemonic, "mov")
		if !ok1 || !ok2 {
			continue
		}
		if len(w[1].Operands) != 2 || len(w[2].Operands) != 2 {
			continue
		}
		if w[1].Operands[0] != w[2].Operands[0] {
			continue
		}
		if w[1].Operands[1] != codegen.Operand(codegen.Constant{Value: 1}) {
			continue
		}
		if w[2].Operands[1] != codegen.Operand(codegen.Constant{Value: 0}) {
			continue
		}
		cmpReg := w[1].Operands[0]

		if w[3].Mnemonic != "cmp" || len(w[3].Operands) != 2 {
			continue
		}
		if w[3].Operands[0] != cmpReg || w[3].Operands[1] != codegen.Operand(codegen.Constant{Value: 0}) {
			continue
		}

		brCond, ok := condSuffix(w[4].Mnemonic, "b")
		if !ok || brCond != "ne" {
			continue
		}
		if len(w[4].Operands) != 1 {
			continue
		}
		target := w[4].Operands[0]

		replaced := &codegen.Instruction{Mnemonic: "b" + cond1, Operands: []codegen.Operand{target}}

		rebuilt := append([]*codegen.Instruction{}, instrs[:i]...)
		rebuilt = append(rebuilt, w[0], replaced)
		rebuilt = append(rebuilt, instrs[i+5:]...)
		fs.SetInstructions(rebuilt)
		return true
	}
	return false
}

// removeRedundantArithmetic drops self-moves (mov a, a) and additive
// identities (add/sub a, a, #0).
func removeRedundantArithmetic(fs *codegen.FuncState) bool {
	instrs := fs.Instructions()
	var out []*codegen.Instruction
	removed := false

	for _, instr := range instrs {
		if instr.Mnemonic == "mov" && len(instr.Operands) == 2 && instr.Operands[0] == instr.Operands[1] {
			removed = true
			continue
		}
		if (instr.Mnemonic == "add" || instr.Mnemonic == "sub") && len(instr.Operands) == 3 {
			if instr.Operands[0] == instr.Operands[1] {
				if c, ok := instr.Operands[2].(codegen.Constant); ok && !c.IsMemory && c.Value == 0 {
					removed = true
					continue
				}
			}
		}
		out = append(out, instr)
	}

	if removed {
		fs.SetInstructions(out)
	}
	return removed
}
