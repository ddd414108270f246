package core

import "fmt"

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenGroupOpen
	TokenGroupClose
	TokenControlWord   // \b, \fs24, \u-3913
	TokenControlSymbol // \~, \*, \-
	TokenText          // literal text, decoded to UTF-8
	TokenBinary        // raw bytes following \binN
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenGroupOpen:
		return "GroupOpen"
	case TokenGroupClose:
		return "GroupClose"
	case TokenControlWord:
		return "ControlWord"
	case TokenControlSymbol:
		return "ControlSymbol"
	case TokenText:
		return "Text"
	case TokenBinary:
		return "Binary"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token represents a lexical token
type Token struct {
	Type TokenType

	// Control words
	Name     string
	Param    int
	HasParam bool

	// Control symbols
	Symbol byte

	// Text holds decoded UTF-8 for TokenText.
	Text string

	// Raw holds the undecoded text bytes for TokenText and the payload for
	// TokenBinary.
	Raw []byte

	Pos int64 // Position in stream
}

// Is reports whether t is the control word name.
func (t *Token) Is(name string) bool {
	return t.Type == TokenControlWord && t.Name == name
}

// ParamOr returns the parameter of a control word, or def when the word
// was written without one.
func (t *Token) ParamOr(def int) int {
	if !t.HasParam {
		return def
	}
	return t.Param
}

// String formats the token for debugging output.
func (t *Token) String() string {
	switch t.Type {
	case TokenControlWord:
		if t.HasParam {
			return fmt.Sprintf(`\%s%d`, t.Name, t.Param)
		}
		return `\` + t.Name
	case TokenControlSymbol:
		return `\` + string(t.Symbol)
	case TokenText:
		return fmt.Sprintf("%q", t.Text)
	case TokenBinary:
		return fmt.Sprintf("binary(%d)", len(t.Raw))
	case TokenGroupOpen:
		return "{"
	case TokenGroupClose:
		return "}"
	default:
		return t.Type.String()
	}
}
