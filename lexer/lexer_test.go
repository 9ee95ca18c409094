package lexer

import "testing"

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexComparisonExpression(t *testing.T) {
	toks := Lex(`name is 'Jack' and age >= 30`)
	want := []TokenKind{
		TokenIdentifier, TokenIs, TokenString, TokenAnd,
		TokenIdentifier, TokenGte, TokenNumber, TokenEOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), toks)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected kind %v, got %v (%q)", i, want[i], got[i], toks[i].Text)
		}
	}
}

func TestLexSetLiteralAndOperators(t *testing.T) {
	toks := Lex(`{1 2.5 -3} contains x != true`)
	want := []TokenKind{
		TokenLBrace, TokenNumber, TokenNumber, TokenNumber, TokenRBrace,
		TokenContains, TokenIdentifier, TokenNeq, TokenTrue, TokenEOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), toks)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected kind %v, got %v", i, want[i], got[i])
		}
	}
	if toks[2].Text != "2.5" || toks[3].Text != "-3" {
		t.Fatalf("expected number texts 2.5 and -3, got %q and %q", toks[2].Text, toks[3].Text)
	}
}

func TestLexCommentsSkippedToEndOfLine(t *testing.T) {
	toks := Lex("a > 1 # trailing comment\nand b < 2")
	for _, tok := range toks {
		if tok.Kind == TokenError {
			t.Fatalf("unexpected error token %v", tok)
		}
	}
	if len(toks) != 8 { // a > 1 and b < 2 EOF
		t.Fatalf("expected 8 tokens, got %d: %v", len(toks), toks)
	}
}

func TestLexDottedAndDashedIdentifiers(t *testing.T) {
	toks := Lex(`req.sdk.version server-01`)
	if toks[0].Kind != TokenIdentifier || toks[0].Text != "req.sdk.version" {
		t.Fatalf("expected dotted identifier, got %v", toks[0])
	}
	if toks[1].Kind != TokenIdentifier || toks[1].Text != "server-01" {
		t.Fatalf("expected dashed identifier, got %v", toks[1])
	}
}

func TestLexErrorTokenDoesNotStopLaterTokens(t *testing.T) {
	toks := Lex(`a @ b`)
	var sawError, sawB bool
	for _, tok := range toks {
		if tok.Kind == TokenError && tok.Text == "@" {
			sawError = true
		}
		if tok.Kind == TokenIdentifier && tok.Text == "b" {
			sawB = true
		}
	}
	if !sawError || !sawB {
		t.Fatalf("expected an error token and the tokens after it, got %v", toks)
	}
}

func TestLexUnterminatedStringIsError(t *testing.T) {
	toks := Lex(`name is 'Jack`)
	last := toks[len(toks)-2] // before EOF
	if last.Kind != TokenError {
		t.Fatalf("expected an error token for the unterminated string, got %v", last)
	}
}

func TestLexPositions(t *testing.T) {
	toks := Lex("a\nand b")
	if toks[1].Line != 2 || toks[1].Col != 1 {
		t.Fatalf("expected 'and' at 2:1, got %d:%d", toks[1].Line, toks[1].Col)
	}
	if toks[2].Line != 2 || toks[2].Col != 5 {
		t.Fatalf("expected 'b' at 2:5, got %d:%d", toks[2].Line, toks[2].Col)
	}
}
