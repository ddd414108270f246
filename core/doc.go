// Package core provides the low-level RTF tokenizer.
//
// The [Lexer] turns a byte stream into a lazy, finite sequence of [Token]
// values. It knows the lexical rules of RTF and nothing about formatting:
//
//   - [TokenGroupOpen] and [TokenGroupClose] for { and }
//   - [TokenControlWord] for a backslash followed by letters and an optional
//     signed numeric parameter (\b, \fs24, \u-3913)
//   - [TokenControlSymbol] for a backslash followed by one non-letter (\~, \*)
//   - [TokenText] for literal text, including \'hh escapes, already decoded
//     to UTF-8 through the active code page
//   - [TokenBinary] for the raw bytes that follow \binN
//
// Carriage returns and line feeds in the source are not content and are
// dropped. The caller keeps the lexer informed about the active code page
// with [Lexer.SetDecoder] and about Unicode fallback characters with
// [Lexer.SkipFallback]; both take effect for the next token.
//
// # Errors
//
// NextToken returns a token and a nil error in the normal case. A
// recoverable problem (a malformed control word, a truncated \bin, an
// undecodable byte) is reported as a non-nil [*Error] together with a usable
// recovery token, normally the offending bytes as literal text. A nil token
// with a non-nil error is fatal: the source failed or a \bin block exceeds
// the configured limit.
//
//	lexer := core.NewLexer(strings.NewReader(`{\rtf1 Hello}`))
//	for {
//	    tok, err := lexer.NextToken()
//	    if tok == nil {
//	        return err
//	    }
//	    if tok.Type == core.TokenEOF {
//	        break
//	    }
//	}
package core
