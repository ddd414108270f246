package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tsawler/rtfkit/codepage"
)

// collect reads tokens until EOF, failing on any error.
func collect(t *testing.T, input string) []*Token {
	t.Helper()
	lexer := NewLexer(strings.NewReader(input))
	var tokens []*Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// TestTokenTypeString tests the String method on TokenType
func TestTokenTypeString(t *testing.T) {
	tests := []struct {
		token TokenType
		want  string
	}{
		{TokenEOF, "EOF"},
		{TokenGroupOpen, "GroupOpen"},
		{TokenGroupClose, "GroupClose"},
		{TokenControlWord, "ControlWord"},
		{TokenControlSymbol, "ControlSymbol"},
		{TokenText, "Text"},
		{TokenBinary, "Binary"},
		{TokenType(99), "TokenType(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.token.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestLexerEOF tests EOF handling
func TestLexerEOF(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"line breaks only", "\r\n\n\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(strings.NewReader(tt.input))
			token, err := lexer.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token.Type != TokenEOF {
				t.Errorf("expected TokenEOF, got %v", token.Type)
			}
		})
	}
}

// TestLexerControlWords tests control word names, parameters and delimiters
func TestLexerControlWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		word     string
		param    int
		hasParam bool
		rest     string
	}{
		{"no parameter", `\b`, "b", 0, false, ""},
		{"parameter", `\fs24`, "fs", 24, true, ""},
		{"zero parameter", `\b0`, "b", 0, true, ""},
		{"negative parameter", `\u-3913`, "u", -3913, true, ""},
		{"space delimiter consumed", `\b bold`, "b", 0, false, "bold"},
		{"only one space consumed", `\b  two`, "b", 0, false, " two"},
		{"non-space delimiter kept", `\i;x`, "i", 0, false, ";x"},
		{"minus without digit is text", `\b-x`, "b", 0, false, "-x"},
		{"case sensitive", `\Par`, "Par", 0, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := collect(t, tt.input)
			if len(tokens) == 0 {
				t.Fatal("expected at least one token")
			}
			tok := tokens[0]
			if tok.Type != TokenControlWord {
				t.Fatalf("expected TokenControlWord, got %v", tok.Type)
			}
			if tok.Name != tt.word || tok.Param != tt.param || tok.HasParam != tt.hasParam {
				t.Errorf("got %s (param=%d has=%v), want %s (param=%d has=%v)",
					tok.Name, tok.Param, tok.HasParam, tt.word, tt.param, tt.hasParam)
			}
			var rest strings.Builder
			for _, tok := range tokens[1:] {
				rest.WriteString(tok.Text)
			}
			if rest.String() != tt.rest {
				t.Errorf("expected remaining text %q, got %q", tt.rest, rest.String())
			}
		})
	}
}

// TestLexerControlSymbols tests backslash + non-letter sequences
func TestLexerControlSymbols(t *testing.T) {
	tests := []struct {
		input  string
		symbol byte
	}{
		{`\~`, '~'},
		{`\-`, '-'},
		{`\_`, '_'},
		{`\*`, '*'},
		{`\|`, '|'},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := collect(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != TokenControlSymbol || tokens[0].Symbol != tt.symbol {
				t.Errorf("expected symbol %q, got %v", tt.symbol, tokens[0])
			}
		})
	}
}

// TestLexerBackslashNewlineIsPar tests the \<newline> alias
func TestLexerBackslashNewlineIsPar(t *testing.T) {
	for _, input := range []string{"\\\n", "\\\r\n", "\\\r"} {
		tokens := collect(t, input)
		if len(tokens) != 1 || !tokens[0].Is("par") {
			t.Errorf("%q: expected single \\par, got %v", input, tokens)
		}
	}
}

// TestLexerGroups tests brace tokens and positions
func TestLexerGroups(t *testing.T) {
	tokens := collect(t, `{\rtf1 {x}}`)
	want := []TokenType{TokenGroupOpen, TokenControlWord, TokenGroupOpen, TokenText, TokenGroupClose, TokenGroupClose}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Errorf("token %d: expected %v, got %v", i, tt, tokens[i].Type)
		}
	}
	if tokens[2].Pos != 7 {
		t.Errorf("expected inner group at position 7, got %d", tokens[2].Pos)
	}
}

// TestLexerText tests literal text accumulation
func TestLexerText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Hello world", "Hello world"},
		{"line breaks dropped", "Hel\r\nlo", "Hello"},
		{"escaped braces", `a\{b\}c`, "a{b}c"},
		{"escaped backslash", `a\\b`, `a\b`},
		{"hex escape", `caf\'e9`, "café"},
		{"hex escape uppercase", `\'C9t\'C9`, "ÉtÉ"},
		{"tab kept", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := collect(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d: %v", len(tokens), tokens)
			}
			if tokens[0].Type != TokenText {
				t.Fatalf("expected TokenText, got %v", tokens[0].Type)
			}
			if tokens[0].Text != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tokens[0].Text)
			}
		})
	}
}

// TestLexerDoubleByteAcrossEscapes tests that a Shift-JIS pair written as
// two hex escapes decodes to one character
func TestLexerDoubleByteAcrossEscapes(t *testing.T) {
	dec, err := codepage.New(932)
	if err != nil {
		t.Fatalf("codepage: %v", err)
	}
	lexer := NewLexer(strings.NewReader(`\'82\'a0`))
	lexer.SetDecoder(dec)

	tok, err := lexer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Text != "あ" {
		t.Errorf("expected %q, got %q", "あ", tok.Text)
	}
}

// TestLexerSkipFallback tests dropping Unicode fallback characters
func TestLexerSkipFallback(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		skip     int
		expected string
	}{
		{"literal fallback", "?rest", 1, "rest"},
		{"hex fallback counts once", `\'e9rest`, 1, "rest"},
		{"two characters", `\'82\'a0rest`, 2, "rest"},
		{"zero skip", "?rest", 0, "?rest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(strings.NewReader(tt.input))
			lexer.SkipFallback(tt.skip)
			tok, err := lexer.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Text != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tok.Text)
			}
		})
	}
}

// TestLexerSkipFallbackStopsAtBrace tests that skipping ends at a group boundary
func TestLexerSkipFallbackStopsAtBrace(t *testing.T) {
	lexer := NewLexer(strings.NewReader("}abc"))
	lexer.SkipFallback(1)

	tok, _ := lexer.NextToken()
	if tok.Type != TokenGroupClose {
		t.Fatalf("expected TokenGroupClose, got %v", tok.Type)
	}
	tok, _ = lexer.NextToken()
	if tok.Text != "abc" {
		t.Errorf("expected %q, got %q", "abc", tok.Text)
	}
}

// TestLexerBinary tests \bin payloads
func TestLexerBinary(t *testing.T) {
	input := "\\bin5 \x00{}\\\xffafter"
	lexer := NewLexer(strings.NewReader(input))

	tok, err := lexer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != TokenBinary {
		t.Fatalf("expected TokenBinary, got %v", tok.Type)
	}
	if !bytes.Equal(tok.Raw, []byte("\x00{}\\\xff")) {
		t.Errorf("unexpected payload %v", tok.Raw)
	}

	tok, err = lexer.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Text != "after" {
		t.Errorf("expected %q, got %q", "after", tok.Text)
	}
}

// TestLexerTruncatedBinary tests the recovery token for a short \bin
func TestLexerTruncatedBinary(t *testing.T) {
	lexer := NewLexer(strings.NewReader(`\bin5 abc`))

	tok, err := lexer.NextToken()
	if !errors.Is(err, ErrTruncatedBinary) {
		t.Fatalf("expected ErrTruncatedBinary, got %v", err)
	}
	if tok == nil || tok.Type != TokenText || tok.Text != "abc" {
		t.Errorf("expected recovery text %q, got %v", "abc", tok)
	}
}

// TestLexerBinaryTooLarge tests the allocation limit
func TestLexerBinaryTooLarge(t *testing.T) {
	lexer := NewLexer(strings.NewReader(`\bin1000 abc`))
	lexer.SetMaxBinary(10)

	tok, err := lexer.NextToken()
	if tok != nil {
		t.Errorf("expected nil token, got %v", tok)
	}
	if !errors.Is(err, ErrBinaryTooLarge) {
		t.Errorf("expected ErrBinaryTooLarge, got %v", err)
	}
}

// TestLexerMalformedControlWord tests the lexical limits
func TestLexerMalformedControlWord(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"name too long", `\` + strings.Repeat("a", 40)},
		{"parameter too long", `\fs12345678901`},
		{"parameter out of range", `\fs9999999999`},
		{"backslash at end", `\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(strings.NewReader(tt.input))
			tok, err := lexer.NextToken()
			if !errors.Is(err, ErrMalformedControlWord) {
				t.Fatalf("expected ErrMalformedControlWord, got %v", err)
			}
			if tok == nil || tok.Type != TokenText {
				t.Fatalf("expected recovery text token, got %v", tok)
			}
			if !strings.HasPrefix(tok.Text, `\`) {
				t.Errorf("expected literal sequence, got %q", tok.Text)
			}
		})
	}
}

// TestLexerBadHexEscape tests \' followed by non-hex characters
func TestLexerBadHexEscape(t *testing.T) {
	lexer := NewLexer(strings.NewReader(`a\'zzb`))
	tok, err := lexer.NextToken()
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
	if tok.Text != "azzb" {
		t.Errorf("expected %q, got %q", "azzb", tok.Text)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

// TestLexerReadError tests that source failures are fatal
func TestLexerReadError(t *testing.T) {
	lexer := NewLexer(failingReader{})
	tok, err := lexer.NextToken()
	if tok != nil {
		t.Errorf("expected nil token, got %v", tok)
	}
	if !errors.Is(err, ErrRead) || !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("expected ErrRead wrapping the cause, got %v", err)
	}
}

// TestLexerPos tests byte accounting
func TestLexerPos(t *testing.T) {
	input := `{\rtf1 abc}`
	lexer := NewLexer(strings.NewReader(input))
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type == TokenEOF {
			break
		}
	}
	if lexer.Pos() != int64(len(input)) {
		t.Errorf("expected position %d, got %d", len(input), lexer.Pos())
	}
}

// TestTokenHelpers tests Is, ParamOr and String
func TestTokenHelpers(t *testing.T) {
	tok := &Token{Type: TokenControlWord, Name: "fs", Param: 24, HasParam: true}
	if !tok.Is("fs") || tok.Is("f") {
		t.Error("Is mismatch")
	}
	if tok.ParamOr(1) != 24 {
		t.Errorf("expected 24, got %d", tok.ParamOr(1))
	}
	if tok.String() != `\fs24` {
		t.Errorf("expected \\fs24, got %s", tok.String())
	}

	bare := &Token{Type: TokenControlWord, Name: "b"}
	if bare.ParamOr(1) != 1 {
		t.Errorf("expected default 1, got %d", bare.ParamOr(1))
	}
}
