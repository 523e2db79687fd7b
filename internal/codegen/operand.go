// Package codegen lowers register-allocated IR3 into ARM32 EABI assembly
// text: operand/instruction modelling, per-function state (frame layout,
// prologue/epilogue), instruction selection, call sequencing, and class
// layout. Grounded on original_source/src/cgarm.py (operand/instruction
// model) and original_source/src/cgstate.py (FuncState, CGClass).
package codegen

import "fmt"

// Operand is anything an Instruction can take as an argument: a register,
// an immediate constant, or a memory reference.
type Operand interface {
	isOperand()
	String() string
}

// Register numbers follow the EABI mapping cgarm.py's Register class uses;
// sp/lr/pc/ip are reserved and never handed to the allocator.
var registerNumbers = map[string]int{
	"a1": 0, "a2": 1, "a3": 2, "a4": 3,
	"v1": 4, "v2": 5, "v3": 6, "v4": 7,
	"v5": 8, "v6": 9, "v7": 10, "fp": 11,
	"ip": 12, "sp": 13, "lr": 14, "pc": 15,
}

// Register is a named ARM32 register. Writeback marks the `!` suffix a
// stmfd/ldmfd base register carries (push/pop auto-adjusts sp); ordinary
// register operands always leave it false.
type Register struct {
	Name      string
	Writeback bool
}

func (Register) isOperand() {}
func (r Register) String() string {
	if r.Writeback {
		return r.Name + "!"
	}
	return r.Name
}
func (r Register) Number() int { return registerNumbers[r.Name] }

var (
	SP = Register{"sp"}
	LR = Register{"lr"}
	PC = Register{"pc"}
	IP = Register{"ip"}
	FP = Register{"fp"}
)

// Constant is an immediate (#N) or, when IsMemory is set, a literal-pool
// reference (=#N) emitted by mov when the value doesn't fit 9 signed bits.
type Constant struct {
	Value    int32
	IsMemory bool
}

func (Constant) isOperand() {}

// IsSmall reports whether Value fits the immediate range mov/add/sub can
// encode directly without a literal-pool load.
func (c Constant) IsSmall() bool { return c.Value >= -256 && c.Value <= 256 }

func (c Constant) AsMemory() Constant { return Constant{Value: c.Value, IsMemory: true} }

func (c Constant) String() string {
	if c.IsMemory {
		return fmt.Sprintf("=#%d", c.Value)
	}
	return fmt.Sprintf("#%d", c.Value)
}

// Memory is a [base, #offset] addressing mode, optionally post-increment
// (used only by the stack_push helper).
type Memory struct {
	Base      Register
	Offset    int
	PostIncr  bool
}

func (Memory) isOperand() {}

func (m Memory) String() string {
	if m.PostIncr {
		return fmt.Sprintf("[%s], #%d", m.Base, m.Offset)
	}
	if m.Offset == 0 {
		return fmt.Sprintf("[%s]", m.Base)
	}
	return fmt.Sprintf("[%s, #%d]", m.Base, m.Offset)
}

// Label is a bare symbolic operand, used for branch targets.
type Label struct{ Name string }

func (Label) isOperand()       {}
func (l Label) String() string { return l.Name }

// LabelAddress is the `=name` literal-pool form `ldr` uses to load a
// label's address (a string pool entry) rather than branch to it.
type LabelAddress struct{ Name string }

func (LabelAddress) isOperand()       {}
func (l LabelAddress) String() string { return "=" + l.Name }
