// Package codepage converts RTF text bytes to UTF-8.
//
// RTF documents declare a document code page (\ansi, \mac, \pc, \pca or
// \ansicpgN) and may override it per font through \fcharsetN. Text bytes,
// including those written as \'hh escapes, are decoded through the code
// page active at the point they appear. Unicode escapes (\uN) carry signed
// 16-bit UTF-16 code units and are handled by [FromUnicodeParam] and
// [Combine].
//
// Single-byte pages are backed by golang.org/x/text/encoding/charmap and
// the East Asian double-byte pages by the japanese, simplifiedchinese,
// korean and traditionalchinese packages of golang.org/x/text.
//
//	dec, err := codepage.New(1251)
//	if err != nil {
//	    dec = codepage.Default()
//	}
//	s, ok := dec.Decode([]byte{0xcf, 0xf0, 0xe8})
package codepage
