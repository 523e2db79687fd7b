package iropt

import "jlitec/internal/ir3"

// FoldConstants evaluates a BinaryOp/UnaryOp whose operands are already
// literal constants, replacing the expression with a ValueExpr. Arithmetic
// rules are the same ones original_source/src/simp.py applies to the AST;
// here they run at the IR3 level instead, since by this stage the front
// end has already flattened expressions into three-address form. Integer
// division truncates toward negative infinity to match Python's `//`,
// which is what the original front end's constant folder used.
type FoldConstants struct{}

func (*FoldConstants) Name() string { return "constant folding" }
func (*FoldConstants) Description() string {
	return "evaluates arithmetic, comparison, and logical operators over literal operands"
}

func (*FoldConstants) Apply(fn *ir3.FuncDefn) bool {
	changed := false
	for _, b := range fn.Blocks {
		for _, s := range b.Stmts {
			switch st := s.(type) {
			case *ir3.AssignOp:
				if folded := foldExpr(st.Rhs); folded != nil {
					st.Rhs = folded
					changed = true
				}
			case *ir3.AssignDotOp:
				if folded := foldExpr(st.Rhs); folded != nil {
					st.Rhs = folded
					changed = true
				}
			}
		}
	}
	return changed
}

func foldExpr(e ir3.Expr) *ir3.ValueExpr {
	switch ex := e.(type) {
	case *ir3.BinaryOp:
		return foldBinary(ex)
	case *ir3.UnaryOp:
		return foldUnary(ex)
	default:
		return nil
	}
}

func foldBinary(b *ir3.BinaryOp) *ir3.ValueExpr {
	if li, ok := b.Lhs.(ir3.ConstantInt); ok {
		if ri, ok := b.Rhs.(ir3.ConstantInt); ok {
			return foldIntPair(b, li.IntVal, ri.IntVal)
		}
	}
	if ls, ok := b.Lhs.(ir3.ConstantString); ok {
		if rs, ok := b.Rhs.(ir3.ConstantString); ok && b.Op == "+" {
			return &ir3.ValueExpr{Val: ir3.ConstantString{StrVal: ls.StrVal + rs.StrVal}}
		}
	}
	if lb, ok := b.Lhs.(ir3.ConstantBool); ok {
		if rb, ok := b.Rhs.(ir3.ConstantBool); ok {
			switch b.Op {
			case "&&":
				return &ir3.ValueExpr{Val: ir3.ConstantBool{BoolVal: lb.BoolVal && rb.BoolVal}}
			case "||":
				return &ir3.ValueExpr{Val: ir3.ConstantBool{BoolVal: lb.BoolVal || rb.BoolVal}}
			}
		}
	}
	return nil
}

func foldIntPair(b *ir3.BinaryOp, l, r int32) *ir3.ValueExpr {
	switch b.Op {
	case "+":
		return &ir3.ValueExpr{Val: ir3.ConstantInt{IntVal: l + r}}
	case "-":
		return &ir3.ValueExpr{Val: ir3.ConstantInt{IntVal: l - r}}
	case "*":
		return &ir3.ValueExpr{Val: ir3.ConstantInt{IntVal: l * r}}
	case "/":
		if r == 0 {
			return nil
		}
		return &ir3.ValueExpr{Val: ir3.ConstantInt{IntVal: floorDiv(l, r)}}
	case "<":
		return &ir3.ValueExpr{Val: ir3.ConstantBool{BoolVal: l < r}}
	case ">":
		return &ir3.ValueExpr{Val: ir3.ConstantBool{BoolVal: l > r}}
	case "<=":
		return &ir3.ValueExpr{Val: ir3.ConstantBool{BoolVal: l <= r}}
	case ">=":
		return &ir3.ValueExpr{Val: ir3.ConstantBool{BoolVal: l >= r}}
	case "==":
		return &ir3.ValueExpr{Val: ir3.ConstantBool{BoolVal: l == r}}
	case "!=":
		return &ir3.ValueExpr{Val: ir3.ConstantBool{BoolVal: l != r}}
	default:
		return nil
	}
}

func floorDiv(l, r int32) int32 {
	q := l / r
	if (l%r != 0) && ((l < 0) != (r < 0)) {
		q--
	}
	return q
}

func foldUnary(u *ir3.UnaryOp) *ir3.ValueExpr {
	switch u.Op {
	case "-":
		if ci, ok := u.Val.(ir3.ConstantInt); ok {
			return &ir3.ValueExpr{Val: ir3.ConstantInt{IntVal: -ci.IntVal}}
		}
	case "!":
		if cb, ok := u.Val.(ir3.ConstantBool); ok {
			return &ir3.ValueExpr{Val: ir3.ConstantBool{BoolVal: !cb.BoolVal}}
		}
	}
	return nil
}
