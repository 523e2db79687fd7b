// Package parser implements a hand-rolled recursive-descent parser over
// internal/lexer tokens, producing an internal/ast.Program. Grounded on
// original_source/src/parser.py's ParserState/parse_* functions, adapted
// from exception-based control flow to Go's explicit error returns.
package parser

import (
	"jlitec/internal/ast"
	jerrors "jlitec/internal/errors"
	"jlitec/internal/lexer"
	"jlitec/internal/token"
)

// Parser holds one token of lookahead over a lexer.Lexer.
type Parser struct {
	lex *lexer.Lexer
	cur token.Token
}

// New constructs a Parser positioned at the first token of src.
func New(filename, src string) *Parser {
	p := &Parser{lex: lexer.New(filename, src)}
	p.cur = p.lex.Next()
	return p
}

// Parse runs the parser to completion and returns the resulting AST, or
// the first diagnostic encountered (this parser does not attempt error
// recovery, matching the original's single-shot exception model).
func Parse(filename, src string) (*ast.Program, error) {
	return New(filename, src).parseProgram()
}

func (p *Parser) peek() token.Token { return p.cur }

func (p *Parser) empty() bool { return p.cur.Kind == token.EOF }

func (p *Parser) advance() token.Token {
	t := p.cur
	p.cur = p.lex.Next()
	return t
}

func (p *Parser) nextIf(kind token.Kind) (token.Token, bool) {
	if p.cur.Kind == kind {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(kind token.Kind, want string) (token.Token, error) {
	if p.cur.Kind == token.ILLEGAL {
		return token.Token{}, errUnexpected(p.cur)
	}
	if p.cur.Kind != kind {
		return token.Token{}, errExpected(want, p.cur)
	}
	return p.advance(), nil
}

func (p *Parser) expectSemicolon() error {
	if _, err := p.expect(token.SEMICOLON, "';' after statement"); err != nil {
		return err
	}
	return nil
}

func isTypeToken(k token.Kind) bool {
	switch k {
	case token.INT_TY, token.BOOL_TY, token.VOID, token.STRING_TY, token.CLASS_NAME:
		return true
	default:
		return false
	}
}

// parseTypedName parses "Type identifier", returning (type, name).
func (p *Parser) parseTypedName() (string, string, error) {
	tok := p.advance()
	var ty string
	switch tok.Kind {
	case token.INT_TY:
		ty = "Int"
	case token.BOOL_TY:
		ty = "Bool"
	case token.VOID:
		ty = "Void"
	case token.STRING_TY:
		ty = "String"
	case token.CLASS_NAME:
		ty = tok.Lexeme
	default:
		return "", "", errExpected("a typename (Int, Bool, Void, String, or a class name)", tok)
	}

	name, err := p.expect(token.IDENT, "an identifier")
	if err != nil {
		return "", "", err
	}
	return ty, name.Lexeme, nil
}

func (p *Parser) parseArgList() ([]ast.VarDecl, error) {
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var params []ast.VarDecl
	for !p.empty() && p.peek().Kind != token.RPAREN {
		pos := p.peek().Position
		ty, name, err := p.parseTypedName()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.VarDecl{Pos: pos, Type: ty, Name: name})

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
	return params, nil
}

// parseMethodBody parses the hoisted local declarations followed by the
// statement list of a method or the synthetic main function.
func (p *Parser) parseMethodBody() ([]ast.VarDeclStmt, ast.Block, error) {
	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, ast.Block{}, err
	}

	var locals []ast.VarDeclStmt
	var stmts []ast.Stmt

	for !p.empty() && p.peek().Kind != token.RBRACE {
		if isTypeToken(p.peek().Kind) {
			pos := p.peek().Position
			ty, name, err := p.parseTypedName()
			if err != nil {
				return nil, ast.Block{}, err
			}
			locals = append(locals, ast.VarDeclStmt{Pos: pos, Type: ty, Name: name})
			if err := p.expectSemicolon(); err != nil {
				return nil, ast.Block{}, err
			}
		} else {
			block, err := p.parseStmtList()
			if err != nil {
				return nil, ast.Block{}, err
			}
			stmts = block
		}
	}

	if len(stmts) == 0 {
		return nil, ast.Block{}, errAt(jerrors.ErrorUnexpectedToken, "method body cannot be empty", p.peek().Position)
	}

	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, ast.Block{}, err
	}
	return locals, ast.Block{Stmts: stmts}, nil
}

func (p *Parser) parseClass(isFirst bool) (ast.ClassDecl, error) {
	classPos, err := p.expect(token.CLASS, "'class'")
	if err != nil {
		return ast.ClassDecl{}, err
	}
	nameTok, err := p.expect(token.CLASS_NAME, "a class name")
	if err != nil {
		return ast.ClassDecl{}, err
	}
	cls := ast.ClassDecl{Pos: classPos.Position, Name: nameTok.Lexeme}

	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return ast.ClassDecl{}, err
	}

	if isFirst {
		mainPos, err := p.expect(token.VOID, "'Void' (the first method of the first class must be 'main')")
		if err != nil {
			return ast.ClassDecl{}, err
		}
		if _, err := p.expect(token.MAIN, "'main' (the first method of the first class)"); err != nil {
			return ast.ClassDecl{}, err
		}
		params, err := p.parseArgList()
		if err != nil {
			return ast.ClassDecl{}, err
		}
		locals, body, err := p.parseMethodBody()
		if err != nil {
			return ast.ClassDecl{}, err
		}
		if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
			return ast.ClassDecl{}, err
		}
		cls.Methods = append(cls.Methods, ast.MethodDecl{
			Pos: mainPos.Position, Name: "main", ClassName: cls.Name,
			Params: params, ReturnType: "Void", Locals: locals, Body: body,
		})
		return cls, nil
	}

	for !p.empty() && p.peek().Kind != token.RBRACE {
		pos := p.peek().Position
		ty, name, err := p.parseTypedName()
		if err != nil {
			return ast.ClassDecl{}, err
		}

		switch p.peek().Kind {
		case token.SEMICOLON:
			p.advance()
			cls.Fields = append(cls.Fields, ast.VarDecl{Pos: pos, Type: ty, Name: name})
		case token.LPAREN:
			params, err := p.parseArgList()
			if err != nil {
				return ast.ClassDecl{}, err
			}
			locals, body, err := p.parseMethodBody()
			if err != nil {
				return ast.ClassDecl{}, err
			}
			cls.Methods = append(cls.Methods, ast.MethodDecl{
				Pos: pos, Name: name, ClassName: cls.Name,
				Params: params, ReturnType: ty, Locals: locals, Body: body,
			})
		default:
			return ast.ClassDecl{}, errExpected("';' to declare a field or '(' to begin a method", p.peek())
		}
	}

	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return ast.ClassDecl{}, err
	}
	return cls, nil
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	var classes []ast.ClassDecl
	for !p.empty() {
		cls, err := p.parseClass(len(classes) == 0)
		if err != nil {
			return nil, err
		}
		classes = append(classes, cls)
	}
	if len(classes) == 0 {
		return nil, errAt(jerrors.ErrorUnexpectedToken, "at least one class (containing the main method) must be defined", p.peek().Position)
	}
	return &ast.Program{Classes: classes}, nil
}
