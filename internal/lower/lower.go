// Package lower performs the two machine-friendly rewrites that must run
// once per function between optimization and register allocation:
// constant materialization and field-store splitting. Grounded on
// original_source/src/cglower.py's lower_const_value/lower_expr/
// lower_stmt/lower_function.
package lower

import "jlitec/internal/ir3"

// minImmediate and maxImmediate bound the signed 9-bit range this
// §4.4 requires for an ARM immediate operand; int32 constants outside this
// range must be materialized into a register via a pseudo-assign before
// they can be used.
const (
	minImmediate = -256
	maxImmediate = 256
)

// lowerer.counter is reset per function; lower runs strictly after the
// optimizer's last renumbering, so collisions with front-end temporaries
// (which all begin with a single '_') are avoided by using a distinct
// "_lw" prefix.
type lowerer struct {
	fn      *ir3.FuncDefn
	counter int
}

func (l *lowerer) freshTemp() string {
	l.counter++
	name := "_lw" + itoa(l.counter)
	l.fn.Locals = append(l.fn.Locals, ir3.VarDecl{Name: name, Type: "Int"})
	return name
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func fitsImmediate(n int32) bool {
	return n >= minImmediate && n <= maxImmediate
}

// Lower runs constant materialization and field-store splitting over fn
// in place, then prepends a DummyStmt to the entry block.
func Lower(fn *ir3.FuncDefn) {
	l := &lowerer{fn: fn}
	for _, b := range fn.Blocks {
		var out []ir3.Stmt
		for _, s := range b.Stmts {
			out = append(out, l.lowerStmt(s)...)
		}
		b.Stmts = out
	}
	if len(fn.Blocks) > 0 {
		entry := fn.Blocks[0]
		entry.Stmts = append([]ir3.Stmt{&ir3.DummyStmt{}}, entry.Stmts...)
	}
}

// lowerStmt returns the replacement sequence for one statement: usually a
// single statement, but field-store splitting and constant materialization
// both prepend pseudo-assigns.
func (l *lowerer) lowerStmt(s ir3.Stmt) []ir3.Stmt {
	switch st := s.(type) {
	case *ir3.AssignOp:
		pre, rhs := l.lowerExpr(st.Rhs)
		st.Rhs = rhs
		return append(pre, st)

	case *ir3.AssignDotOp:
		pre, rhs := l.lowerExpr(st.Rhs)
		tmp := l.freshTemp()
		pre = append(pre, &ir3.AssignOp{Dest: tmp, Rhs: rhs})
		return append(pre, &ir3.StoreField{VarName: st.VarName, FieldName: st.FieldName, Src: tmp})

	case *ir3.FnCallStmt:
		pre, args := l.lowerValues(st.Call.Args)
		st.Call.Args = args
		return append(pre, st)

	case *ir3.ReturnStmt:
		if st.Value == nil {
			return []ir3.Stmt{st}
		}
		pre, v := l.lowerValue(st.Value)
		st.Value = v
		return append(pre, st)

	case *ir3.PrintLnCall:
		pre, v := l.lowerValue(st.Val)
		st.Val = v
		return append(pre, st)

	case *ir3.CondBranch:
		pre, v := l.lowerValue(st.Cond)
		st.Cond = v
		return append(pre, st)

	default:
		return []ir3.Stmt{s}
	}
}

func (l *lowerer) lowerExpr(e ir3.Expr) ([]ir3.Stmt, ir3.Expr) {
	switch ex := e.(type) {
	case *ir3.BinaryOp:
		pre1, lhs := l.lowerValue(ex.Lhs)
		pre2, rhs := l.lowerValue(ex.Rhs)
		ex.Lhs, ex.Rhs = lhs, rhs
		return append(pre1, pre2...), ex

	case *ir3.UnaryOp:
		pre, v := l.lowerValue(ex.Val)
		ex.Val = v
		return pre, ex

	case *ir3.ValueExpr:
		pre, v := l.lowerValue(ex.Val)
		ex.Val = v
		return pre, ex

	case *ir3.FnCallExpr:
		pre, args := l.lowerValues(ex.Call.Args)
		ex.Call.Args = args
		return pre, ex

	default:
		return nil, e
	}
}

func (l *lowerer) lowerValues(vs []ir3.Value) ([]ir3.Stmt, []ir3.Value) {
	var pre []ir3.Stmt
	out := make([]ir3.Value, len(vs))
	for i, v := range vs {
		p, nv := l.lowerValue(v)
		pre = append(pre, p...)
		out[i] = nv
	}
	return pre, out
}

// lowerValue materializes a Value that the emitter cannot encode as an
// immediate operand, returning the pseudo-assigns to run first and the
// (possibly rewritten) Value to use in the original position.
func (l *lowerer) lowerValue(v ir3.Value) ([]ir3.Stmt, ir3.Value) {
	switch val := v.(type) {
	case ir3.ConstantInt:
		if fitsImmediate(val.IntVal) {
			return nil, v
		}
		tmp := l.freshTemp()
		return []ir3.Stmt{&ir3.AssignConstInt{Dest: tmp, Val: val.IntVal}}, ir3.VarRef{Name: tmp}

	case ir3.ConstantString:
		tmp := l.freshTemp()
		label := stringLabelPlaceholder(val.StrVal)
		return []ir3.Stmt{&ir3.AssignConstString{Dest: tmp, Label: label}}, ir3.VarRef{Name: tmp}

	default:
		return nil, v
	}
}

// stringLabelPlaceholder records the literal text as the statement's
// Label; internal/codegen's instruction selector interns that text into
// the shared string pool each time it selects this AssignConstString and
// loads the label the pool returns, leaving the statement unchanged.
func stringLabelPlaceholder(s string) string {
	return s
}
