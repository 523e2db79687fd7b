package parser

import (
	"fmt"

	jerrors "jlitec/internal/errors"
	"jlitec/internal/token"
)

// Error wraps a single parse-time diagnostic so the CLI and LSP front ends
// can render it with jerrors.ErrorReporter without re-parsing.
type Error struct {
	Diagnostic jerrors.CompilerError
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Diagnostic.Code, e.Diagnostic.Position.Line, e.Diagnostic.Position.Column, e.Diagnostic.Message)
}

func errAt(code, message string, pos token.Position) error {
	return &Error{Diagnostic: jerrors.New(code, message, pos).Build()}
}

func errUnexpected(tok token.Token) error {
	if tok.Kind == token.EOF {
		return errAt(jerrors.ErrorUnexpectedToken, "unexpected end of input", tok.Position)
	}
	if tok.Kind == token.ILLEGAL {
		return errAt(jerrors.ErrorUnexpectedToken, tok.Lexeme, tok.Position)
	}
	return errAt(jerrors.ErrorUnexpectedToken, fmt.Sprintf("unexpected token '%s'", tok.Lexeme), tok.Position)
}

func errExpected(want string, got token.Token) error {
	if got.Kind == token.EOF {
		return errAt(jerrors.ErrorExpectedToken, fmt.Sprintf("unexpected end of input; expected %s", want), got.Position)
	}
	return errAt(jerrors.ErrorExpectedToken, fmt.Sprintf("expected %s, found '%s' instead", want, got.Lexeme), got.Position)
}
