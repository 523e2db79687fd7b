package parser

import (
	"strconv"

	"jlitec/internal/ast"
	jerrors "jlitec/internal/errors"
	"jlitec/internal/token"
)

// intLitFrom converts a scanned integer lexeme to the AST literal,
// rejecting values outside the 32-bit signed range JLite's Int type uses.
func (p *Parser) intLitFrom(tok token.Token) (ast.Expr, error) {
	v, err := strconv.ParseInt(tok.Lexeme, 10, 32)
	if err != nil {
		return nil, errAt(jerrors.ErrorInvalidNumber, "integer literal '"+tok.Lexeme+"' out of range", tok.Position)
	}
	return &ast.IntLitExpr{Pos: tok.Position, Value: int32(v)}, nil
}

func (p *Parser) parseFuncCall(callee ast.Expr) (*ast.CallExpr, error) {
	pos := callee.NodePos()
	if _, err := p.expect(token.LPAREN, "'(' for function call"); err != nil {
		return nil, err
	}

	var args []ast.Expr
	for !p.empty() && p.peek().Kind != token.RPAREN {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if p.peek().Kind == token.RPAREN {
			break
		}
		if _, ok := p.nextIf(token.COMMA); !ok {
			return nil, errUnexpected(p.peek())
		}
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return &ast.CallExpr{Pos: pos, Callee: callee, Args: args}, nil
}

// parseAtomChain consumes trailing `.name`, `.name(args)`, and `(args)`
// suffixes onto lhs, left-associatively.
func (p *Parser) parseAtomChain(lhs ast.Expr) (ast.Expr, error) {
	if dotTok, ok := p.nextIf(token.DOT); ok {
		identTok, err := p.expect(token.IDENT, "an identifier after '.'")
		if err != nil {
			return nil, err
		}

		dot := &ast.DotExpr{Pos: dotTok.Position, Lhs: lhs, Name: identTok.Lexeme}
		if p.peek().Kind == token.LPAREN {
			call, err := p.parseFuncCall(dot)
			if err != nil {
				return nil, err
			}
			return p.parseAtomChain(call)
		}
		return p.parseAtomChain(dot)
	}

	if p.peek().Kind == token.LPAREN {
		return p.parseFuncCall(lhs)
	}
	return lhs, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.TRUE_LIT:
		p.advance()
		return &ast.BoolLitExpr{Pos: tok.Position, Value: true}, nil
	case token.FALSE_LIT:
		p.advance()
		return &ast.BoolLitExpr{Pos: tok.Position, Value: false}, nil
	case token.NULL_LIT:
		p.advance()
		return &ast.NullLitExpr{Pos: tok.Position}, nil
	case token.THIS:
		p.advance()
		return &ast.ThisExpr{Pos: tok.Position}, nil
	case token.STR_LIT:
		p.advance()
		return &ast.StringLitExpr{Pos: tok.Position, Value: tok.Lexeme}, nil
	case token.INT_LIT:
		p.advance()
		return p.intLitFrom(tok)
	case token.NEW:
		p.advance()
		classTok, err := p.expect(token.CLASS_NAME, "a class name after 'new'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.LPAREN, "'('"); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		n := &ast.NewExpr{Pos: tok.Position, ClassName: classTok.Lexeme}
		if p.peek().Kind == token.DOT {
			return p.parseAtomChain(n)
		}
		return n, nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Pos: inner.NodePos(), Inner: inner}, nil
	case token.IDENT:
		p.advance()
		return p.parseAtomChain(&ast.IdentExpr{Pos: tok.Position, Name: tok.Lexeme})
	default:
		return nil, errUnexpected(tok)
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if tok, ok := p.nextIf(token.BANG); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Pos: tok.Position, Op: "!", Operand: operand}, nil
	}
	if tok, ok := p.nextIf(token.MINUS); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Pos: tok.Position, Op: "-", Operand: operand}, nil
	}
	return p.parsePrimary()
}

// parseRHS implements precedence climbing: it folds in every operator at
// or above minPrec, recursing into parseRHS at prec+1 for a right operand
// followed by a strictly higher-precedence operator. JLite has no
// right-associative binary operator, so no special case is needed for that.
func (p *Parser) parseRHS(lhs ast.Expr, minPrec int) (ast.Expr, error) {
	for {
		if p.peek().Kind == token.DOT {
			var err error
			lhs, err = p.parseAtomChain(lhs)
			if err != nil {
				return nil, err
			}
			continue
		}

		prec := precedence(p.peek().Kind)
		if prec < minPrec {
			return lhs, nil
		}

		opTok := p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		if precedence(p.peek().Kind) > prec {
			rhs, err = p.parseRHS(rhs, prec+1)
			if err != nil {
				return nil, err
			}
		}

		lhs = &ast.BinaryExpr{Pos: opTok.Position, Op: opTok.Lexeme, Left: lhs, Right: rhs}
	}
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.parseRHS(lhs, 0)
}
