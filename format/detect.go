// Package format identifies RTF input and tells it apart from the
// document formats most often mistaken for it.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// RTF indicates a Rich Text Format document.
	RTF
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// HTML indicates an HTML document.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case RTF:
		return "RTF"
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case RTF:
		return ".rtf"
	case PDF:
		return ".pdf"
	case DOCX:
		return ".docx"
	case ODT:
		return ".odt"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".rtf", ".rtx":
		return RTF
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".odt":
		return ODT
	case ".html", ".htm":
		return HTML
	default:
		return Unknown
	}
}

var (
	utf8BOM  = []byte{0xef, 0xbb, 0xbf}
	rtfMagic = []byte(`{\rtf`)
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
)

// DetectFromMagic checks the leading bytes to determine format. Leading
// whitespace and a UTF-8 byte order mark are allowed before {\rtf.
// Returns Unknown for ZIP archives; use DetectFromReader to tell DOCX from
// ODT.
func DetectFromMagic(data []byte) Format {
	if IsRTF(data) {
		return RTF
	}
	if len(data) < 4 {
		return Unknown
	}
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}
	if bytes.HasPrefix(data, zipMagic) {
		return Unknown
	}
	if detectHTMLMagic(data) {
		return HTML
	}
	return Unknown
}

// IsRTF reports whether data starts like an RTF document.
func IsRTF(data []byte) bool {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimLeft(data, " \t\r\n\x00")
	return bytes.HasPrefix(data, rtfMagic)
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	upper := strings.ToUpper(string(data[:min(len(data), 512)]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}

// DetectFromReader inspects the content to determine format. Unlike
// DetectFromMagic it can distinguish the ZIP-based formats.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, zipMagic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat inspects a ZIP archive to determine if it's DOCX or ODT.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data := make([]byte, 256)
		n, _ := rc.Read(data)
		rc.Close()
		if strings.Contains(string(data[:n]), "application/vnd.oasis.opendocument.text") {
			return ODT, nil
		}
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return DOCX, nil
		}
	}
	return Unknown, nil
}
