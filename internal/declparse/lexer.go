package declparse

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// HeaderLexer tokenizes .jlitehdr external-declaration files. Grounded on
// kanso/grammar/lexer.go (lexer.MustStateful over a single "Root"
// state), trimmed to the much smaller token set a field-list-only grammar
// needs: no operators, no string/bool literals, just identifiers,
// punctuation, and comments.
var HeaderLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Punctuation", `[{}:;,]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
