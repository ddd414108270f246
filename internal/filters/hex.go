package filters

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrOddHexLength is reported when a hex payload ends with half a byte.
var ErrOddHexLength = errors.New("odd number of hex digits")

// ErrInvalidHexDigit is reported when a hex payload contains a character
// that is neither a hex digit nor whitespace.
var ErrInvalidHexDigit = errors.New("invalid hex digit")

// HexDecode decodes the hexadecimal payload of a \pict or \objdata group.
// Each pair of hex digits is one byte and whitespace is ignored.
//
// The decoded bytes are always returned, even when err is non-nil: invalid
// characters are skipped and a dangling final digit is dropped, so callers
// running in tolerant mode can keep the data and record the error.
func HexDecode(data []byte) ([]byte, error) {
	result := bytes.NewBuffer(make([]byte, 0, len(data)/2))
	var firstErr error

	var hi byte
	half := false
	for i, c := range data {
		if isWhitespace(c) {
			continue
		}

		v, ok := hexValue(c)
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w %q at offset %d", ErrInvalidHexDigit, c, i)
			}
			continue
		}

		if !half {
			hi = v
			half = true
			continue
		}
		result.WriteByte(hi<<4 | v)
		half = false
	}

	if half && firstErr == nil {
		firstErr = ErrOddHexLength
	}

	return result.Bytes(), firstErr
}

// IsHexPayload reports whether data holds only hex digits and whitespace.
func IsHexPayload(data []byte) bool {
	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		if _, ok := hexValue(c); !ok {
			return false
		}
	}
	return true
}

// hexValue converts a hexadecimal character to its numeric value (0-15).
func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
