package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jlitec/internal/token"
)

func allTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New("test.j", src)
	var out []token.Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF || tok.Kind == token.ILLEGAL {
			break
		}
	}
	return out
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks := allTokens(t, "class Foo { Int x; }")
	kinds := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.CLASS, token.CLASS_NAME, token.LBRACE, token.INT_TY, token.IDENT,
		token.SEMICOLON, token.RBRACE, token.EOF,
	}, kinds)
}

func TestScanTwoCharOperators(t *testing.T) {
	toks := allTokens(t, "a <= b && c != d")
	require.True(t, len(toks) >= 6)
	assert.Equal(t, token.LE, toks[1].Kind)
	assert.Equal(t, token.AND_AND, toks[3].Kind)
	assert.Equal(t, token.NOT_EQ, toks[5].Kind)
}

func TestScanStringLiteralEscapes(t *testing.T) {
	toks := allTokens(t, `"hi\n\t\"there\""`)
	require.Equal(t, token.STR_LIT, toks[0].Kind)
	assert.Equal(t, "hi\n\t\"there\"", toks[0].Lexeme)
}

func TestUnterminatedStringIsIllegal(t *testing.T) {
	toks := allTokens(t, `"abc`)
	assert.Equal(t, token.ILLEGAL, toks[0].Kind)
}

func TestSkipsCommentsAndWhitespace(t *testing.T) {
	toks := allTokens(t, "// a comment\nInt /* inline */ x;")
	assert.Equal(t, token.INT_TY, toks[0].Kind)
	assert.Equal(t, token.IDENT, toks[1].Kind)
}

func TestPositionTracksLineAndColumn(t *testing.T) {
	toks := allTokens(t, "Int\nx;")
	// "x" starts on line 2, column 1
	var xTok token.Token
	for _, tk := range toks {
		if tk.Kind == token.IDENT {
			xTok = tk
			break
		}
	}
	assert.Equal(t, 2, xTok.Position.Line)
	assert.Equal(t, 1, xTok.Position.Column)
}
