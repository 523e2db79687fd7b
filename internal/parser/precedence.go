package parser

import "jlitec/internal/token"

// precedence resolves the binary-operator precedence table. This also
// settles the grammar's one ambiguity left open by the source spec: `&&`
// and `||` are not given equal precedence. `&&` binds one level tighter
// than `||`, matching the original parser's table (LogicalAnd = 66,
// LogicalOr = 65) exactly, so `a || b && c` parses as `a || (b && c)`.
func precedence(k token.Kind) int {
	switch k {
	case token.STAR, token.SLASH:
		return 69
	case token.PLUS, token.MINUS:
		return 68
	case token.LT, token.GT, token.LE, token.GE, token.EQ, token.NOT_EQ:
		return 67
	case token.AND_AND:
		return 66
	case token.OR_OR:
		return 65
	default:
		return -1
	}
}
