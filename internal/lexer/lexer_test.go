package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestEmptyScriptYieldsOnlyEOF(t *testing.T) {
	toks := Tokens("")
	require.Equal(t, []Kind{EndOfFile}, kinds(toks))
}

func TestSimpleTestCase(t *testing.T) {
	toks := Tokens(`"PING" : "PONG"`)
	require.Equal(t, []Kind{Content, DirectionSeparator, Content, EndOfFile}, kinds(toks))
	require.Equal(t, "PING", toks[0].Value)
	require.Equal(t, "PONG", toks[2].Value)
}

func TestFormatSpecifierBeforeQuote(t *testing.T) {
	toks := Tokens(`h"48"`)
	require.Equal(t, []Kind{FormatSpecifier, Content, EndOfFile}, kinds(toks))
}

func TestModifierLetterWithoutQuoteIsIdentifier(t *testing.T) {
	toks := Tokens(`hello`)
	require.Equal(t, []Kind{Identifier, EndOfFile}, kinds(toks))
	require.Equal(t, "hello", toks[0].Value)
}

func TestGroupHeader(t *testing.T) {
	toks := Tokens(`[grp, ignore-case, timeout=500ms]`)
	require.Equal(t, []Kind{
		LeftGroupParenthesis, Identifier, ContentSeparator, Identifier,
		ContentSeparator, Identifier, OptionSeparator, Identifier,
		RightGroupParenthesis, EndOfFile,
	}, kinds(toks))
}

func TestCommentLineProducesNewlineThenNothing(t *testing.T) {
	toks := Tokens("# a comment\n\"a\":\"b\"")
	require.Equal(t, []Kind{Newline, Content, DirectionSeparator, Content, EndOfFile}, kinds(toks))
}

func TestCommentAtEOFWithNoTrailingNewline(t *testing.T) {
	toks := Tokens("# just a comment")
	require.Equal(t, []Kind{EndOfFile}, kinds(toks))
}

func TestUnterminatedStringIsIllegal(t *testing.T) {
	toks := Tokens("\"abc\ndef\"")
	require.Equal(t, Illegal, toks[len(toks)-1].Kind)
	require.Equal(t, 1, toks[len(toks)-1].Line)
}

func TestEscapedQuoteInsideContentIsNotTerminator(t *testing.T) {
	toks := Tokens(`"a\"b"`)
	require.Equal(t, []Kind{Content, EndOfFile}, kinds(toks))
	require.Equal(t, `a\"b`, toks[0].Value)
}

func TestIllegalCharacter(t *testing.T) {
	toks := Tokens("@")
	require.Equal(t, Illegal, toks[0].Kind)
	require.Equal(t, "@", toks[0].Value)
}

func TestPositionsAreOneBased(t *testing.T) {
	toks := Tokens("[a]")
	for _, tok := range toks {
		if tok.Kind == EndOfFile {
			continue
		}
		require.GreaterOrEqual(t, tok.Line, 1)
		require.GreaterOrEqual(t, tok.Column, 1)
	}
}

func TestNewlineAdvancesLine(t *testing.T) {
	toks := Tokens("\"a\":\"b\"\n\"c\":\"d\"")
	var newline Token
	for _, tok := range toks {
		if tok.Kind == Newline {
			newline = tok
		}
	}
	require.Equal(t, Newline, newline.Kind)
	// the second line's first token should report line 2.
	found := false
	for _, tok := range toks {
		if tok.Kind == Content && tok.Line == 2 {
			found = true
		}
	}
	require.True(t, found)
}

func TestIdentifierAllowsInternalSpacesAndHyphens(t *testing.T) {
	toks := Tokens("[my test group, stop-on-failure]")
	require.Equal(t, Identifier, toks[1].Kind)
	require.Equal(t, "my test group", toks[1].Value)
}
