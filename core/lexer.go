package core

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/tsawler/rtfkit/codepage"
)

// Lexical limits from the RTF specification.
const (
	MaxControlWordLength = 32
	MaxParamDigits       = 10
)

// DefaultMaxBinary is the \bin size limit used when none is configured.
const DefaultMaxBinary = 64 << 20

// Lexer performs lexical analysis of RTF content
type Lexer struct {
	reader    *bufio.Reader
	pos       int64
	dec       *codepage.Decoder
	skip      int
	maxBinary int64
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader:    bufio.NewReader(r),
		dec:       codepage.Default(),
		maxBinary: DefaultMaxBinary,
	}
}

// SetDecoder sets the code page used for the next text token.
func (l *Lexer) SetDecoder(d *codepage.Decoder) {
	if d != nil {
		l.dec = d
	}
}

// Decoder returns the code page decoder in effect.
func (l *Lexer) Decoder() *codepage.Decoder {
	return l.dec
}

// SetMaxBinary sets the largest \bin payload the lexer will allocate.
func (l *Lexer) SetMaxBinary(n int64) {
	if n > 0 {
		l.maxBinary = n
	}
}

// SkipFallback drops the next n characters of text. It is called after a
// \uN control word with the current \uc value. Skipping ends early at a
// brace or a control word.
func (l *Lexer) SkipFallback(n int) {
	if n < 0 {
		n = 0
	}
	l.skip = n
}

// Pos returns the number of bytes consumed so far.
func (l *Lexer) Pos() int64 {
	return l.pos
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (*Token, error) {
	for {
		b, err := l.peek()
		if err == io.EOF {
			return &Token{Type: TokenEOF, Pos: l.pos}, nil
		}
		if err != nil {
			return nil, l.readError(err)
		}

		switch b {
		case '{':
			l.skip = 0
			l.readByte()
			return &Token{Type: TokenGroupOpen, Pos: l.pos - 1}, nil
		case '}':
			l.skip = 0
			l.readByte()
			return &Token{Type: TokenGroupClose, Pos: l.pos - 1}, nil
		case '\r', '\n':
			l.readByte()
			continue
		case '\\':
			next, err := l.peekN(2)
			if err != nil && err != io.EOF {
				return nil, l.readError(err)
			}
			if len(next) == 2 && isTextEscape(next[1]) {
				tok, lexErr := l.readText()
				if tok == nil && lexErr == nil {
					continue // everything was fallback text
				}
				return tok, errOrNil(lexErr)
			}
			tok, lexErr := l.readControl()
			return tok, errOrNil(lexErr)
		default:
			tok, lexErr := l.readText()
			if tok == nil && lexErr == nil {
				continue
			}
			return tok, errOrNil(lexErr)
		}
	}
}

// errOrNil converts a typed nil *Error into an untyped nil error.
func errOrNil(e *Error) error {
	if e == nil {
		return nil
	}
	return e
}

// readByte reads a single byte and advances position
func (l *Lexer) readByte() (byte, error) {
	b, err := l.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	l.pos++
	return b, nil
}

// peek looks at the next byte without consuming it
func (l *Lexer) peek() (byte, error) {
	bytes, err := l.reader.Peek(1)
	if err != nil {
		return 0, err
	}
	return bytes[0], nil
}

// peekN looks at the next n bytes without consuming them
func (l *Lexer) peekN(n int) ([]byte, error) {
	return l.reader.Peek(n)
}

func (l *Lexer) readError(err error) *Error {
	return &Error{Err: ErrRead, Pos: l.pos, Msg: err.Error(), Cause: err}
}

// readText accumulates literal bytes and \'hh, \\, \{, \} escapes until the
// next brace or control sequence. It returns a nil token when every
// character was consumed as Unicode fallback text.
func (l *Lexer) readText() (*Token, *Error) {
	startPos := l.pos
	var buf bytes.Buffer
	var lexErr *Error

	add := func(c byte) {
		if l.skip > 0 {
			l.skip--
			return
		}
		buf.WriteByte(c)
	}

	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, l.readError(err)
		}

		if b == '{' || b == '}' {
			break
		}
		if b == '\r' || b == '\n' {
			l.readByte()
			continue
		}
		if b != '\\' {
			l.readByte()
			add(b)
			continue
		}

		next, err := l.peekN(2)
		if err != nil && err != io.EOF {
			return nil, l.readError(err)
		}
		if len(next) < 2 || !isTextEscape(next[1]) {
			break
		}

		if next[1] != '\'' {
			// \\, \{ and \} stand for the literal character
			l.readByte()
			l.readByte()
			add(next[1])
			continue
		}

		escPos := l.pos
		l.readByte()
		l.readByte()
		c, ok, consumed := l.readHexByte()
		if !ok {
			if lexErr == nil {
				lexErr = newError(ErrInvalidEncoding, escPos, `bad hex escape \'%s`, consumed)
			}
			for _, ch := range consumed {
				add(ch)
			}
			continue
		}
		add(c)
	}

	if buf.Len() == 0 {
		if lexErr != nil {
			return &Token{Type: TokenText, Pos: startPos}, lexErr
		}
		return nil, nil
	}

	raw := buf.Bytes()
	text, ok := l.dec.Decode(raw)
	if !ok && lexErr == nil {
		lexErr = newError(ErrInvalidEncoding, startPos, "bytes not valid in code page %d", l.dec.CodePage())
	}

	return &Token{Type: TokenText, Text: text, Raw: raw, Pos: startPos}, lexErr
}

// readHexByte reads the two hex digits of a \'hh escape. On failure it
// returns the bytes it consumed so the caller can keep them as text.
func (l *Lexer) readHexByte() (byte, bool, []byte) {
	var consumed []byte
	var val byte
	for i := 0; i < 2; i++ {
		b, err := l.peek()
		if err != nil || !isHexDigit(b) {
			return 0, false, consumed
		}
		l.readByte()
		consumed = append(consumed, b)
		val = val<<4 | hexValue(b)
	}
	return val, true, consumed
}

// readControl reads a control word or control symbol.
func (l *Lexer) readControl() (*Token, *Error) {
	startPos := l.pos
	l.readByte() // the backslash
	l.skip = 0

	b, err := l.peek()
	if err == io.EOF {
		tok := &Token{Type: TokenText, Text: `\`, Raw: []byte{'\\'}, Pos: startPos}
		return tok, newError(ErrMalformedControlWord, startPos, "backslash at end of input")
	}
	if err != nil {
		return nil, l.readError(err)
	}

	if !isAlpha(b) {
		l.readByte()
		if b == '\r' || b == '\n' {
			// a backslash before a line break is an alias for \par
			if b == '\r' {
				if next, err := l.peek(); err == nil && next == '\n' {
					l.readByte()
				}
			}
			return &Token{Type: TokenControlWord, Name: "par", Pos: startPos}, nil
		}
		return &Token{Type: TokenControlSymbol, Symbol: b, Pos: startPos}, nil
	}

	var name bytes.Buffer
	for {
		b, err := l.peek()
		if err != nil || !isAlpha(b) {
			break
		}
		l.readByte()
		name.WriteByte(b)
	}

	var digits bytes.Buffer
	if next, _ := l.peekN(2); len(next) == 2 && next[0] == '-' && isDigit(next[1]) {
		l.readByte()
		digits.WriteByte('-')
	}
	for {
		b, err := l.peek()
		if err != nil || !isDigit(b) {
			break
		}
		l.readByte()
		digits.WriteByte(b)
	}

	if b, err := l.peek(); err == nil && b == ' ' {
		l.readByte()
	}

	if name.Len() > MaxControlWordLength {
		return l.malformed(startPos, name.Bytes(), digits.Bytes(), "control word longer than %d letters", MaxControlWordLength)
	}

	tok := &Token{Type: TokenControlWord, Name: name.String(), Pos: startPos}
	if digits.Len() > 0 {
		d := digits.Bytes()
		n := len(d)
		if d[0] == '-' {
			n--
		}
		if n > MaxParamDigits {
			return l.malformed(startPos, name.Bytes(), d, "parameter longer than %d digits", MaxParamDigits)
		}
		v, err := strconv.ParseInt(string(d), 10, 32)
		if err != nil {
			return l.malformed(startPos, name.Bytes(), d, "parameter out of range")
		}
		tok.Param = int(v)
		tok.HasParam = true
	}

	if tok.Name == "bin" {
		return l.readBinary(tok)
	}

	return tok, nil
}

// malformed builds the recovery token for a control word that breaks the
// lexical limits: the whole sequence as literal text.
func (l *Lexer) malformed(pos int64, name, digits []byte, format string, args ...any) (*Token, *Error) {
	raw := make([]byte, 0, 1+len(name)+len(digits))
	raw = append(raw, '\\')
	raw = append(raw, name...)
	raw = append(raw, digits...)
	text, _ := l.dec.Decode(raw)
	return &Token{Type: TokenText, Text: text, Raw: raw, Pos: pos}, newError(ErrMalformedControlWord, pos, format, args...)
}

// readBinary consumes the payload announced by \binN.
func (l *Lexer) readBinary(word *Token) (*Token, *Error) {
	n := int64(word.Param)
	if n < 0 {
		tok := &Token{Type: TokenBinary, Name: "bin", Param: word.Param, HasParam: true, Pos: word.Pos}
		return tok, newError(ErrMalformedControlWord, word.Pos, "negative \\bin length %d", n)
	}
	if n > l.maxBinary {
		return nil, newError(ErrBinaryTooLarge, word.Pos, "\\bin%d exceeds %d bytes", n, l.maxBinary)
	}

	data, err := l.ReadBytes(int(n))
	if err != nil {
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, l.readError(err)
		}
		text, _ := l.dec.Decode(data)
		tok := &Token{Type: TokenText, Text: text, Raw: data, Pos: word.Pos}
		return tok, newError(ErrTruncatedBinary, word.Pos, "expected %d bytes, got %d", n, len(data))
	}

	return &Token{Type: TokenBinary, Name: "bin", Param: word.Param, HasParam: true, Raw: data, Pos: word.Pos}, nil
}

// ReadBytes reads exactly n bytes from the underlying reader.
// When the input ends early it returns the bytes read and
// io.ErrUnexpectedEOF.
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	data := make([]byte, n)
	read, err := io.ReadFull(l.reader, data)
	l.pos += int64(read)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return data[:read], err
}

// Helper functions

// isTextEscape reports whether \c is an escape that stays in the text run.
func isTextEscape(c byte) bool {
	return c == '\'' || c == '\\' || c == '{' || c == '}'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func hexValue(b byte) byte {
	if b >= '0' && b <= '9' {
		return b - '0'
	}
	if b >= 'a' && b <= 'f' {
		return b - 'a' + 10
	}
	if b >= 'A' && b <= 'F' {
		return b - 'A' + 10
	}
	return 0
}
