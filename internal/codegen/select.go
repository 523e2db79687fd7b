package codegen

import (
	"jlitec/internal/ir3"
)

// relCond maps a relational operator to the ARM condition suffix used by
// moveq/movne/etc. Grounded on codegen.py's codegen_binop instr_map.
var relCond = map[string]string{
	"==": "eq", "!=": "ne", "<=": "le", ">=": "ge", "<": "lt", ">": "gt",
}

// invertedRelCond gives the condition suffix for "b rel a" given the
// suffix for "a rel b" -- used when a relational operator's constant
// operand has to move from the left side of cmp to the right.
var invertedRelCond = map[string]string{
	"eq": "eq", "ne": "ne", "le": "ge", "ge": "le", "lt": "gt", "gt": "lt",
}

// oppositeCond gives the suffix for the negation of a condition, used to
// materialize the false case of a relational comparison into 0.
var oppositeCond = map[string]string{
	"eq": "ne", "ne": "eq", "le": "gt", "gt": "le", "ge": "lt", "lt": "ge",
}

// isConstantValue reports whether v is a compile-time constant rather
// than a variable reference -- constants can't sit in cmp's first
// (register-only) operand position.
func isConstantValue(v ir3.Value) bool {
	switch v.(type) {
	case ir3.ConstantInt, ir3.ConstantBool, ir3.ConstantNull:
		return true
	default:
		return false
	}
}

// scratch is a register never handed out by the allocator, used to
// materialize a value that lives only on the stack (caller-passed
// arguments beyond the fourth) for the duration of one instruction.
var scratch = Register{"ip"}

// Select emits every instruction for one function body into fs, walking
// blocks in order and mangling each block's label. Grounded on
// codegen.py's codegen_method/codegen_stmt family, adapted to read
// variable locations from a completed register allocation instead of
// picking registers on the fly.
func Select(cs *CodegenState, fs *FuncState) {
	idx := 0
	for _, b := range fs.Method.Blocks {
		fs.EmitLabel(b.Label)
		for _, s := range b.Stmts {
			fs.AnnotateNext(s.String())
			fs.setStmtIndex(idx)
			selectStmt(cs, fs, s)
			idx++
		}
	}
}

func selectStmt(cs *CodegenState, fs *FuncState, s ir3.Stmt) {
	switch st := s.(type) {
	case *ir3.AssignOp:
		selectAssign(cs, fs, st)
	case *ir3.AssignDotOp:
		selectAssignDot(cs, fs, st)
	case *ir3.StoreField:
		selectStoreField(fs, st)
	case *ir3.FnCallStmt:
		selectCall(cs, fs, st.Call, "")
	case *ir3.ReturnStmt:
		selectReturn(fs, st)
	case *ir3.ReadLnCall:
		selectReadLn(cs, fs, st)
	case *ir3.PrintLnCall:
		selectPrintLn(cs, fs, st)
	case *ir3.Branch:
		fs.Emit(branch(fs.MangleLabel(st.Target)))
	case *ir3.CondBranch:
		selectCondBranch(fs, st)
	case *ir3.Label:
		// blocks already carry their own label; a bare mid-block Label
		// statement (if any survive optimization) needs its own mark.
		fs.Emit(label(fs.MangleLabel(st.Name)))
	case *ir3.AssignConstInt:
		dest := fs.locations[st.Dest].register()
		fs.Emit(mov(dest, Constant{Value: st.Val}))
	case *ir3.AssignConstString:
		// st.Label still carries the literal text lower attached; interning
		// happens here, during selection, where the shared pool lives.
		dest := fs.locations[st.Dest].register()
		fs.Emit(loadLabel(dest, Label{cs.AddString(st.Label)}))
	case *ir3.SpillVariable:
		fs.SpillVariable(st.VarName)
	case *ir3.RestoreVariable:
		fs.RestoreVariable(st.VarName)
	case *ir3.DummyStmt:
		// marks function entry for the lowering stage; nothing to emit.
	default:
		fs.Emit(raw("@ unhandled statement"))
	}
}

// resolveValue produces an Operand for reading v. A VarRef whose location
// lacks a register (only possible for a caller-stack argument past
// position four) is loaded into the scratch register on the spot.
func resolveValue(fs *FuncState, v ir3.Value) Operand {
	switch val := v.(type) {
	case ir3.ConstantInt:
		return Constant{Value: val.IntVal}
	case ir3.ConstantBool:
		if val.BoolVal {
			return Constant{Value: 1}
		}
		return Constant{Value: 0}
	case ir3.ConstantNull:
		return Constant{Value: 0}
	case ir3.VarRef:
		loc := fs.locations[val.Name]
		if loc.reg != nil {
			return *loc.reg
		}
		fs.Emit(load(scratch, Memory{Base: SP, Offset: fs.calculateStackOffset(loc.stackOfs)}))
		return scratch
	default:
		panic("resolveValue: unhandled Value kind")
	}
}

func resolveRegister(fs *FuncState, v ir3.Value) Register {
	op := resolveValue(fs, v)
	if r, ok := op.(Register); ok {
		return r
	}
	fs.Emit(mov(scratch, op))
	return scratch
}

func selectExpr(cs *CodegenState, fs *FuncState, e ir3.Expr, dest Register) {
	switch ex := e.(type) {
	case *ir3.ValueExpr:
		fs.Emit(mov(dest, resolveValue(fs, ex.Val)))

	case *ir3.BinaryOp:
		selectBinaryOp(cs, fs, ex, dest)

	case *ir3.UnaryOp:
		v := resolveValue(fs, ex.Val)
		switch ex.Op {
		case "-":
			fs.Emit(rsb(dest, v, Constant{Value: 0}))
		case "!":
			// valid because booleans are canonicalized to 0/1: NOT is 1-x.
			fs.Emit(rsb(dest, v, Constant{Value: 1}))
		}

	case *ir3.DotOp:
		base := fs.locations[ex.VarName].register()
		layout := fs.Classes[fs.Type(ex.VarName)]
		off := 0
		isBool := false
		if layout != nil {
			off = layout.FieldOffset(ex.FieldName)
			isBool = layout.IsBoolField(ex.FieldName)
		}
		if isBool {
			fs.Emit(loadByte(dest, Memory{Base: base, Offset: off}))
		} else {
			fs.Emit(load(dest, Memory{Base: base, Offset: off}))
		}

	case *ir3.FnCallExpr:
		selectCall(cs, fs, ex.Call, dest.Name)

	case *ir3.NewOp:
		selectNew(cs, fs, ex, dest)

	default:
		fs.Emit(raw("@ unhandled expr"))
	}
}

func selectBinaryOp(cs *CodegenState, fs *FuncState, ex *ir3.BinaryOp, dest Register) {
	switch ex.Op {
	case "+":
		fs.Emit(add(dest, resolveValue(fs, ex.Lhs), resolveValue(fs, ex.Rhs)))
		return
	case "-":
		fs.Emit(sub(dest, resolveValue(fs, ex.Lhs), resolveValue(fs, ex.Rhs)))
		return
	case "*":
		l := resolveRegister(fs, ex.Lhs)
		r := resolveRegister(fs, ex.Rhs)
		fs.Emit(mul(dest, l, r))
		return
	case "/":
		fn := cs.RequireDivideFunction()
		selectBuiltinBinaryCall(fs, fn, ex.Lhs, ex.Rhs, dest)
		return
	case "&&":
		l := resolveRegister(fs, ex.Lhs)
		r := resolveRegister(fs, ex.Rhs)
		fs.Emit(&Instruction{Mnemonic: "and", Operands: []Operand{dest, l, r}})
		return
	case "||":
		l := resolveRegister(fs, ex.Lhs)
		r := resolveRegister(fs, ex.Rhs)
		fs.Emit(&Instruction{Mnemonic: "orr", Operands: []Operand{dest, l, r}})
		return
	case "+s": // string concatenation, tagged by the front end after type checking
		fn := cs.RequireStringConcatFunction()
		selectBuiltinBinaryCall(fs, fn, ex.Lhs, ex.Rhs, dest)
		return
	case "==s": // string equality, tagged by the front end after type checking
		fn := cs.RequireStringCompareFunction()
		selectBuiltinBinaryCall(fs, fn, ex.Lhs, ex.Rhs, dest)
		return
	case "!=s":
		fn := cs.RequireStringCompareFunction()
		selectBuiltinBinaryCall(fs, fn, ex.Lhs, ex.Rhs, dest)
		fs.Emit(rsb(dest, dest, Constant{Value: 1}))
		return
	}

	cond, ok := relCond[ex.Op]
	if !ok {
		fs.Emit(raw("@ unhandled binop " + ex.Op))
		return
	}
	lhsVal, rhsVal := ex.Lhs, ex.Rhs
	if isConstantValue(lhsVal) && !isConstantValue(rhsVal) {
		// cmp's first operand must be a register; swap operands and flip
		// the relation (a < b  <=>  b > a) so a left-hand constant still
		// produces an encodable `cmp`.
		lhsVal, rhsVal = rhsVal, lhsVal
		cond = invertedRelCond[cond]
	}
	lhs := resolveValue(fs, lhsVal)
	rhs := resolveValue(fs, rhsVal)
	fs.Emit(cmp(lhs, rhs))
	fs.Emit(&Instruction{Mnemonic: "mov" + cond, Operands: []Operand{dest, Constant{Value: 1}}})
	fs.Emit(&Instruction{Mnemonic: "mov" + oppositeCond[cond], Operands: []Operand{dest, Constant{Value: 0}}})
}

// selectBuiltinBinaryCall moves both operands into a1/a2 and calls a
// runtime builtin, used by division and string concatenation. a1/a2's
// prior contents are saved by the normal
// caller-save convention's call sequencing, handled by selectCall's
// argument shuffle for ordinary calls; builtins are simple enough to call
// directly here since they never recurse into user code.
func selectBuiltinBinaryCall(fs *FuncState, builtin string, lhs, rhs ir3.Value, dest Register) {
	l := resolveValue(fs, lhs)
	r := resolveValue(fs, rhs)
	fs.Emit(mov(Register{"a1"}, l))
	fs.Emit(mov(Register{"a2"}, r))
	fs.Emit(branchLink(builtin))
	if dest != (Register{"a1"}) {
		fs.Emit(mov(dest, Register{"a1"}))
	}
}

func selectAssign(cs *CodegenState, fs *FuncState, st *ir3.AssignOp) {
	loc := fs.locations[st.Dest]
	if loc == nil || loc.reg == nil {
		return // dead store to an unused destination; nothing was assigned a register.
	}
	selectExpr(cs, fs, st.Rhs, *loc.reg)
}

// selectAssignDot stores a (by lower's contract, already-simple) Expr
// into an object field. Anything non-trivial arrives pre-split into a
// StoreField by the lowering stage.
func selectAssignDot(cs *CodegenState, fs *FuncState, st *ir3.AssignDotOp) {
	base := fs.locations[st.VarName].register()
	layout := fs.Classes[fs.Type(st.VarName)]
	off := 0
	if layout != nil {
		off = layout.FieldOffset(st.FieldName)
	}

	src := resolveRegister(fs, exprAsValue(st.Rhs))
	if st.FieldType == "Bool" {
		fs.Emit(storeByte(src, Memory{Base: base, Offset: off}))
	} else {
		fs.Emit(store(src, Memory{Base: base, Offset: off}))
	}
}

// exprAsValue unwraps the ValueExpr wrapper lower/iropt always produce
// for a field-store's rhs by the time instruction selection sees it.
func exprAsValue(e ir3.Expr) ir3.Value {
	if ve, ok := e.(*ir3.ValueExpr); ok {
		return ve.Val
	}
	panic("selectAssignDot: non-trivial rhs reached instruction selection")
}

func selectStoreField(fs *FuncState, st *ir3.StoreField) {
	base := fs.locations[st.VarName].register()
	layout := fs.Classes[fs.Type(st.VarName)]
	off := 0
	isBool := false
	if layout != nil {
		off = layout.FieldOffset(st.FieldName)
		isBool = layout.IsBoolField(st.FieldName)
	}
	src := fs.locations[st.Src].register()
	if isBool {
		fs.Emit(storeByte(src, Memory{Base: base, Offset: off}))
	} else {
		fs.Emit(store(src, Memory{Base: base, Offset: off}))
	}
}

func selectReturn(fs *FuncState, st *ir3.ReturnStmt) {
	if st.Value != nil {
		fs.Emit(mov(Register{"a1"}, resolveValue(fs, st.Value)))
	}
	fs.BranchToExit()
}

func selectCondBranch(fs *FuncState, st *ir3.CondBranch) {
	cond := resolveValue(fs, st.Cond)
	fs.Emit(cmp(cond, Constant{Value: 0}))
	fs.Emit(branchCond("ne", fs.MangleLabel(st.IfTrue)))
}

func selectReadLn(cs *CodegenState, fs *FuncState, st *ir3.ReadLnCall) {
	var builtin string
	switch st.DestType {
	case "Int":
		builtin = cs.RequireReadlnIntFunction()
	case "Bool":
		builtin = cs.RequireReadlnBoolFunction()
	default:
		builtin = cs.RequireReadlnStringFunction()
	}
	fs.Emit(branchLink(builtin))
	dest := fs.locations[st.Dest].register()
	if dest != (Register{"a1"}) {
		fs.Emit(mov(dest, Register{"a1"}))
	}
}

// selectPrintLn dispatches by static type: Int goes through printf's
// "%d\n", String skips the pool's 4-byte length prefix and calls
// puts directly, Bool selects between interned "true"/"false" literals,
// and anything else (a null object reference) prints the literal "null".
func selectPrintLn(cs *CodegenState, fs *FuncState, st *ir3.PrintLnCall) {
	switch st.ValType {
	case "Int":
		fmtLabel := cs.AddRawString("%d\n")
		fs.Emit(loadLabel(Register{"a1"}, Label{fmtLabel}))
		fs.Emit(mov(Register{"a2"}, resolveValue(fs, st.Val)))
		fs.Emit(branchLink(calleeSymbol("printf")))

	case "String":
		v := resolveRegister(fs, st.Val)
		fs.Emit(add(Register{"a1"}, v, Constant{Value: 4}))
		fs.Emit(branchLink(calleeSymbol("puts")))

	case "Bool":
		v := resolveRegister(fs, st.Val)
		trueLabel := cs.AddRawString("true")
		falseLabel := cs.AddRawString("false")
		fs.Emit(cmp(v, Constant{Value: 0}))
		fs.Emit(loadLabelCond("eq", Register{"a1"}, Label{falseLabel}))
		fs.Emit(loadLabelCond("ne", Register{"a1"}, Label{trueLabel}))
		fs.Emit(branchLink(calleeSymbol("puts")))

	default:
		nullLabel := cs.AddRawString("null")
		fs.Emit(loadLabel(Register{"a1"}, Label{nullLabel}))
		fs.Emit(branchLink(calleeSymbol("puts")))
	}
}

// selectNew zeroes a freshly heap-allocated object's fields; allocation
// itself goes through the C library calloc, sized from the class layout.
func selectNew(cs *CodegenState, fs *FuncState, ex *ir3.NewOp, dest Register) {
	layout := fs.Classes[ex.ClassName]
	size := 4
	if layout != nil {
		size = layout.TotalSize
	}
	fs.Emit(mov(Register{"a1"}, Constant{Value: 1}))
	fs.Emit(mov(Register{"a2"}, Constant{Value: int32(size)}))
	fs.Emit(branchLink(calleeSymbol("calloc")))
	if dest != (Register{"a1"}) {
		fs.Emit(mov(dest, Register{"a1"}))
	}
}
