package ir3

import (
	"fmt"

	"jlitec/internal/token"
)

// Stmt is one instruction within a basic block. Real front-end output uses
// only the first group below; the pseudo-ops are introduced by later
// pipeline stages (lower, regalloc) and never appear before lowering.
type Stmt interface {
	Pos() token.Position
	String() string
}

type stmtBase struct {
	Loc token.Position
}

func (s stmtBase) Pos() token.Position { return s.Loc }

// AssignOp assigns the result of an Expr to a local or temporary.
type AssignOp struct {
	stmtBase
	Dest string
	Rhs  Expr
}

func (s *AssignOp) String() string { return fmt.Sprintf("%s = %s;", s.Dest, s.Rhs) }

// AssignDotOp stores the result of an Expr into a field of the object
// named by VarName. FieldType records the field's static type, per the
// front end's contract (§6.4) that every AssignDotOp arrives already
// typed. lower splits any non-trivial Rhs into a temporary plus a
// StoreField pseudo-op before instruction selection sees it.
type AssignDotOp struct {
	stmtBase
	VarName   string
	FieldName string
	FieldType string
	Rhs       Expr
}

func (s *AssignDotOp) String() string {
	return fmt.Sprintf("%s.%s = %s;", s.VarName, s.FieldName, s.Rhs)
}

// FnCallStmt is a call whose result is discarded.
type FnCallStmt struct {
	stmtBase
	Call Call
}

func (s *FnCallStmt) String() string { return s.Call.String() + ";" }

// ReturnStmt returns from the enclosing function. Value is nil for Void
// methods.
type ReturnStmt struct {
	stmtBase
	Value Value
}

func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// ReadLnCall reads one line of input into Dest, whose static type decides
// which runtime reader builtin the codegen stage selects.
type ReadLnCall struct {
	stmtBase
	Dest     string
	DestType string
}

func (s *ReadLnCall) String() string { return fmt.Sprintf("readln(%s);", s.Dest) }

// PrintLnCall writes Val followed by a newline. ValType records Val's
// static type so the code generator can dispatch to the matching runtime
// formatter (§4.8): printf for Int, puts for String (skipping the pool's
// length prefix), a conditional "true"/"false" select for Bool.
type PrintLnCall struct {
	stmtBase
	Val     Value
	ValType string
}

func (s *PrintLnCall) String() string { return fmt.Sprintf("println(%s);", s.Val) }

// Branch is an unconditional jump to Target.
type Branch struct {
	stmtBase
	Target string
}

func (s *Branch) String() string { return "goto " + s.Target + ";" }

// CondBranch jumps to IfTrue when Cond holds, else continues with the next
// statement of its own block; the front end always places an explicit
// Branch there, so no block falls through into the next one.
type CondBranch struct {
	stmtBase
	Cond   Value
	IfTrue string
}

func (s *CondBranch) String() string { return fmt.Sprintf("if (%s) goto %s;", s.Cond, s.IfTrue) }

// Label marks a basic block entry point; blocks are also addressed
// structurally, but instruction selection emits Label as real assembly
// text, so it is kept as a statement rather than folded into BasicBlock.
type Label struct {
	stmtBase
	Name string
}

func (s *Label) String() string { return s.Name + ":" }

// AssignConstInt and AssignConstString are pseudo-ops introduced by lower
// to materialize an out-of-range immediate or a string literal before an
// instruction that cannot embed it directly (§4.4).
type AssignConstInt struct {
	stmtBase
	Dest string
	Val  int32
}

func (s *AssignConstInt) String() string { return fmt.Sprintf("%s = %d; // materialized", s.Dest, s.Val) }

type AssignConstString struct {
	stmtBase
	Dest  string
	Label string
}

func (s *AssignConstString) String() string {
	return fmt.Sprintf("%s = %s; // materialized", s.Dest, s.Label)
}

// SpillVariable and RestoreVariable are pseudo-ops inserted by regalloc
// when the graph colorer cannot find a free register for a variable
// (§4.5.5). Spilling the same variable twice in one pass is a fatal
// invariant violation, never a recoverable condition.
type SpillVariable struct {
	stmtBase
	VarName string
	Slot    int
}

func (s *SpillVariable) String() string { return fmt.Sprintf("spill %s -> [fp, #%d];", s.VarName, s.Slot) }

type RestoreVariable struct {
	stmtBase
	VarName string
	Slot    int
}

func (s *RestoreVariable) String() string {
	return fmt.Sprintf("restore %s <- [fp, #%d];", s.VarName, s.Slot)
}

// StoreField is the split form of a field-store whose rhs is itself
// complex: lower rewrites AssignDotOp{obj.f = expr} into an AssignOp that
// materializes expr into a temporary followed by a StoreField of that
// temporary (§4.4), so the instruction selector only ever sees a Value on
// the right of a field store.
type StoreField struct {
	stmtBase
	VarName   string
	FieldName string
	Src       string
}

func (s *StoreField) String() string {
	return fmt.Sprintf("store %s.%s <- %s;", s.VarName, s.FieldName, s.Src)
}

// DummyStmt is inserted as the first statement of a function's entry block
// by lower, giving the register allocator and instruction selector a safe
// place to attribute the prologue to (§4.4, §4.10).
type DummyStmt struct {
	stmtBase
}

func (s *DummyStmt) String() string { return "nop;" }

// PhiNode is never produced by this pipeline (the IR is not SSA) but is
// kept as a named pseudo-op so the dataflow package's generic Stmt walkers
// have a documented placeholder to ignore rather than silently mishandle
// if a future pass ever introduces one.
type PhiNode struct {
	stmtBase
	Dest    string
	Sources []string
}

func (s *PhiNode) String() string { return fmt.Sprintf("%s = phi(%v);", s.Dest, s.Sources) }
