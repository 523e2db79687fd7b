package codegen

import (
	"fmt"
	"strings"
)

// Instruction is one emitted assembly line: a mnemonic plus its operands,
// with optional raw trailing text (register lists) and annotations that
// are stripped entirely when annotations are disabled. Grounded on
// cgarm.py's Instruction class.
type Instruction struct {
	Mnemonic    string
	Operands    []Operand
	RawOperand  string
	IsLabel     bool
	Annotations []string
}

func (i *Instruction) Annotate(msg string) *Instruction {
	i.Annotations = append(i.Annotations, msg)
	return i
}

func (i *Instruction) ClearAnnotations() { i.Annotations = nil }

func (i *Instruction) String() string {
	parts := make([]string, len(i.Operands))
	for j, o := range i.Operands {
		parts[j] = o.String()
	}
	body := i.Mnemonic
	if len(parts) > 0 {
		body += " " + strings.Join(parts, ", ")
	}
	if i.RawOperand != "" {
		if len(i.Operands) > 0 {
			body += ", " + i.RawOperand
		} else {
			body += " " + i.RawOperand
		}
	}
	if len(i.Annotations) == 0 {
		return body
	}
	pad := 40 - len(body)
	if pad < 1 {
		pad = 1
	}
	return body + strings.Repeat(" ", pad) + "@ " + strings.Join(i.Annotations, "; ")
}

func raw(instr string) *Instruction { return &Instruction{Mnemonic: instr} }

func label(name string) *Instruction { return &Instruction{Mnemonic: name + ":", IsLabel: true} }

func ensureRegister(instr string, op Operand, nth string) {
	if _, ok := op.(Register); !ok {
		panic(fmt.Sprintf("%s operand for %q must be a register", nth, instr))
	}
}

func add(dest, op1, op2 Operand) *Instruction {
	ensureRegister("add", dest, "destination")
	if c1, ok := op1.(Constant); ok {
		if c2, ok := op2.(Constant); ok {
			return mov(dest, Constant{Value: c1.Value + c2.Value})
		}
		// add is commutative: a left-hand constant would leave op1
		// (Rn) non-register, so swap -- the constant is only valid in
		// Operand2's position.
		return &Instruction{Mnemonic: "add", Operands: []Operand{dest, op2, op1}}
	}
	return &Instruction{Mnemonic: "add", Operands: []Operand{dest, op1, op2}}
}

func sub(dest, op1, op2 Operand) *Instruction {
	ensureRegister("sub", dest, "destination")
	if c1, ok := op1.(Constant); ok {
		if c2, ok := op2.(Constant); ok {
			return mov(dest, Constant{Value: c1.Value - c2.Value})
		}
		// sub is not commutative: a left-hand constant can't sit in Rn,
		// so rewrite `dest = c - op2` as the rsb that computes exactly
		// that (rsb dest, op2, c = op2's Operand2-slot constant minus
		// op2 itself, i.e. c - op2), per spec §4.8.
		return rsb(dest, op2, op1)
	}
	return &Instruction{Mnemonic: "sub", Operands: []Operand{dest, op1, op2}}
}

func rsb(dest, op1, op2 Operand) *Instruction {
	ensureRegister("rsb", dest, "destination")
	if c1, ok := op1.(Constant); ok {
		if c2, ok := op2.(Constant); ok {
			return mov(dest, Constant{Value: c2.Value - c1.Value})
		}
	}
	if _, ok := op1.(Constant); ok {
		return sub(dest, op2, op1)
	}
	return &Instruction{Mnemonic: "rsb", Operands: []Operand{dest, op1, op2}}
}

func mul(dest, op1, op2 Operand) *Instruction {
	ensureRegister("mul", dest, "destination")
	return &Instruction{Mnemonic: "mul", Operands: []Operand{dest, op1, op2}}
}

func mov(dest, src Operand) *Instruction {
	ensureRegister("mov", dest, "destination")
	switch s := src.(type) {
	case Register:
		return &Instruction{Mnemonic: "mov", Operands: []Operand{dest, s}}
	case Constant:
		if s.IsSmall() {
			return &Instruction{Mnemonic: "mov", Operands: []Operand{dest, s}}
		}
		return &Instruction{Mnemonic: "ldr", Operands: []Operand{dest, s.AsMemory()}}
	default:
		panic("source operand for 'mov' must be either a register or a constant")
	}
}

func load(dest Register, src Memory) *Instruction {
	return &Instruction{Mnemonic: "ldr", Operands: []Operand{dest, src}}
}

func loadByte(dest Register, src Memory) *Instruction {
	return &Instruction{Mnemonic: "ldrb", Operands: []Operand{dest, src}}
}

func loadLabel(dest Register, l Label) *Instruction {
	return &Instruction{Mnemonic: "ldr", Operands: []Operand{dest, LabelAddress{l.Name}}}
}

func loadLabelCond(cond string, dest Register, l Label) *Instruction {
	return &Instruction{Mnemonic: "ldr" + cond, Operands: []Operand{dest, LabelAddress{l.Name}}}
}

func store(src Register, dest Memory) *Instruction {
	return &Instruction{Mnemonic: "str", Operands: []Operand{src, dest}}
}

func storeByte(src Register, dest Memory) *Instruction {
	return &Instruction{Mnemonic: "strb", Operands: []Operand{src, dest}}
}

func branch(target string) *Instruction {
	return &Instruction{Mnemonic: "b", Operands: []Operand{Label{target}}}
}

func branchLink(target string) *Instruction {
	return &Instruction{Mnemonic: "bl", Operands: []Operand{Label{target}}}
}

func branchCond(cond, target string) *Instruction {
	return &Instruction{Mnemonic: "b" + cond, Operands: []Operand{Label{target}}}
}

func cmp(a, b Operand) *Instruction {
	return &Instruction{Mnemonic: "cmp", Operands: []Operand{a, b}}
}

func storeMultiple(base Register, regs []string) *Instruction {
	wb := Register{Name: base.Name, Writeback: true}
	return &Instruction{Mnemonic: "stmfd", Operands: []Operand{wb}, RawOperand: regList(regs)}
}

func loadMultiple(base Register, regs []string) *Instruction {
	wb := Register{Name: base.Name, Writeback: true}
	return &Instruction{Mnemonic: "ldmfd", Operands: []Operand{wb}, RawOperand: regList(regs)}
}

func regList(regs []string) string {
	return "{" + strings.Join(regs, ", ") + "}"
}
