package codepage

import (
	"errors"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// ANSI is the code page implied by \ansi and used when nothing else is declared.
const ANSI = 1252

// UTF8 is the code page number Windows uses for UTF-8.
const UTF8 = 65001

// ErrUnsupported is returned by New for code pages without a decoder.
var ErrUnsupported = errors.New("unsupported code page")

// encodings maps Windows code page numbers to decoders. It is never
// modified after package initialization.
var encodings = map[int]encoding.Encoding{
	437:   charmap.CodePage437,
	850:   charmap.CodePage850,
	852:   charmap.CodePage852,
	855:   charmap.CodePage855,
	858:   charmap.CodePage858,
	860:   charmap.CodePage860,
	862:   charmap.CodePage862,
	863:   charmap.CodePage863,
	865:   charmap.CodePage865,
	866:   charmap.CodePage866,
	874:   charmap.Windows874,
	932:   japanese.ShiftJIS,
	936:   simplifiedchinese.GBK,
	949:   korean.EUCKR,
	950:   traditionalchinese.Big5,
	1250:  charmap.Windows1250,
	1251:  charmap.Windows1251,
	1252:  charmap.Windows1252,
	1253:  charmap.Windows1253,
	1254:  charmap.Windows1254,
	1255:  charmap.Windows1255,
	1256:  charmap.Windows1256,
	1257:  charmap.Windows1257,
	1258:  charmap.Windows1258,
	10000: charmap.Macintosh,
	10007: charmap.MacintoshCyrillic,
	20866: charmap.KOI8R,
	21866: charmap.KOI8U,
	28591: charmap.ISO8859_1,
	28592: charmap.ISO8859_2,
	28593: charmap.ISO8859_3,
	28594: charmap.ISO8859_4,
	28595: charmap.ISO8859_5,
	28596: charmap.ISO8859_6,
	28597: charmap.ISO8859_7,
	28598: charmap.ISO8859_8,
	28599: charmap.ISO8859_9,
	28603: charmap.ISO8859_13,
	28605: charmap.ISO8859_15,
}

// charsets maps \fcharset values to code pages.
var charsets = map[int]int{
	0:   1252,
	1:   1252, // DEFAULT_CHARSET
	77:  10000,
	128: 932,
	129: 949,
	134: 936,
	136: 950,
	161: 1253,
	162: 1254,
	163: 1258,
	177: 1255,
	178: 1256,
	186: 1257,
	204: 1251,
	222: 874,
	238: 1250,
	254: 437,
	255: 850,
}

// Decoder decodes bytes in a single code page.
// A Decoder is immutable and safe for concurrent use.
type Decoder struct {
	cp  int
	enc encoding.Encoding // nil means UTF-8 passthrough
}

var defaultDecoder = &Decoder{cp: ANSI, enc: charmap.Windows1252}

// Default returns the Windows-1252 decoder.
func Default() *Decoder {
	return defaultDecoder
}

// New returns a decoder for the given Windows code page number.
func New(cp int) (*Decoder, error) {
	if cp == ANSI {
		return defaultDecoder, nil
	}
	if cp == UTF8 {
		return &Decoder{cp: UTF8}, nil
	}
	enc, ok := encodings[cp]
	if !ok {
		return nil, ErrUnsupported
	}
	return &Decoder{cp: cp, enc: enc}, nil
}

// Supported reports whether New accepts cp.
func Supported(cp int) bool {
	if cp == UTF8 {
		return true
	}
	_, ok := encodings[cp]
	return ok
}

// CodePage returns the code page number of the decoder.
func (d *Decoder) CodePage() int {
	return d.cp
}

// IsMultiByte reports whether the code page uses lead/trail byte pairs.
func (d *Decoder) IsMultiByte() bool {
	switch d.cp {
	case 932, 936, 949, 950, UTF8:
		return true
	}
	return false
}

// Decode converts b to UTF-8. The boolean result is false when some input
// could not be mapped; such bytes are replaced with U+FFFD.
func (d *Decoder) Decode(b []byte) (string, bool) {
	if isASCII(b) {
		return string(b), true
	}

	if d.enc == nil {
		if utf8.Valid(b) {
			return string(b), true
		}
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), false
	}

	out, err := d.enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError)), false
	}
	s := string(out)
	return s, !strings.ContainsRune(s, utf8.RuneError)
}

// FromCharset returns the code page implied by an RTF \fcharset value.
// The symbol charset (2) and unknown values report false.
func FromCharset(charset int) (int, bool) {
	cp, ok := charsets[charset]
	return cp, ok
}

// FromUnicodeParam converts the signed parameter of \uN to a UTF-16 code
// unit. RTF writers emit values above 32767 as negative numbers.
func FromUnicodeParam(p int) rune {
	if p < 0 {
		p += 65536
	}
	return rune(p & 0xFFFF)
}

// IsHighSurrogate reports whether r is the first half of a surrogate pair.
func IsHighSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDBFF
}

// IsLowSurrogate reports whether r is the second half of a surrogate pair.
func IsLowSurrogate(r rune) bool {
	return r >= 0xDC00 && r <= 0xDFFF
}

// Combine joins a surrogate pair. It reports false and U+FFFD when the
// pair is not valid.
func Combine(hi, lo rune) (rune, bool) {
	r := utf16.DecodeRune(hi, lo)
	if r == utf8.RuneError {
		return utf8.RuneError, false
	}
	return r, true
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
