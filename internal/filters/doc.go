// Package filters decodes the encoded payloads embedded in RTF groups.
//
// Pictures (\pict) and OLE objects (\objdata) normally carry their bytes as
// hexadecimal text spread over many lines:
//
//	data, err := filters.HexDecode(payload)
//
// HexDecode is lenient: it returns what it could decode together with the
// first problem it found, leaving the strict/tolerant decision to the
// caller.
package filters
