package declparse

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"jlitec/internal/errors"
	"jlitec/internal/token"
)

// Error wraps a participle parse failure as a CompilerError so callers can
// report it through the same errors.ErrorReporter used for JLite source
// diagnostics, instead of participle's own plain-text formatting.
type Error struct {
	Diagnostic errors.CompilerError
}

func (e *Error) Error() string { return e.Diagnostic.Message }

var parser = buildParser()

func buildParser() *participle.Parser[HeaderFile] {
	p, err := participle.Build[HeaderFile](
		participle.Lexer(HeaderLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(2),
	)
	if err != nil {
		// Only possible if the grammar itself is malformed; this is a
		// build-time invariant, not a user-facing condition.
		panic(fmt.Sprintf("declparse: grammar failed to build: %v", err))
	}
	return p
}

// ParseString parses the contents of one .jlitehdr file already read into
// memory. filename is used only for diagnostic positions.
func ParseString(filename, src string) (*HeaderFile, error) {
	hf, err := parser.ParseString(filename, src)
	if err != nil {
		if perr, ok := err.(participle.Error); ok {
			pos := perr.Position()
			return nil, &Error{Diagnostic: errors.New(
				errors.ErrorUnexpectedToken,
				fmt.Sprintf("%s: %s", filename, perr.Message()),
				token.Position{Line: pos.Line, Column: pos.Column, Offset: pos.Offset},
			).Build()}
		}
		return nil, err
	}
	return hf, nil
}
