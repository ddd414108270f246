package model

import (
	"strings"
	"time"
)

// Document represents a parsed RTF document
type Document struct {
	// Text is the extracted plain text. Paragraph and line breaks are "\n",
	// tabs and table cell ends are "\t".
	Text string
	Runs []Run

	Tables  []*Table
	Images  []*Image
	Objects []*Object

	Fonts  []Font
	Colors []Color
	Styles []StyleSheetEntry

	Metadata Metadata
	Type     DocumentType

	// DefaultFont is the \deff font index, or -1.
	DefaultFont int
	// CodePage is the document code page from \ansicpg, \mac, \pc or \pca.
	CodePage int
}

// Metadata contains document-level information from the \info group
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Comment  string
	Company  string
	Manager  string
	Operator string
	Category string

	// Generator is the \*\generator text, when present.
	Generator string

	Created time.Time
	Revised time.Time
	Printed time.Time

	Words                int
	Characters           int
	CharactersWithSpaces int
	Pages                int
	Version              int
	EditMinutes          int

	// RTFVersion is the N of the \rtfN header.
	RTFVersion int

	HasPictures bool
	HasObjects  bool
	HasTables   bool
	FromHTML    bool
	FromText    bool

	// Custom holds \*\userprops properties
	Custom map[string]string
}

// Field size limits for metadata strings, in bytes.
const (
	MaxShortField = 128
	MaxLongField  = 256
)

// DocumentType identifies the application that produced the document
type DocumentType int

const (
	DocumentTypeUnknown DocumentType = iota
	DocumentTypeGeneric
	DocumentTypeWord
	DocumentTypeWordPad
	DocumentTypeWordPerfect
	DocumentTypeLibreOffice
	DocumentTypeOpenOffice
	DocumentTypeApplePages
	DocumentTypeAbiWord
	DocumentTypeOther
)

func (t DocumentType) String() string {
	switch t {
	case DocumentTypeGeneric:
		return "Generic"
	case DocumentTypeWord:
		return "Microsoft Word"
	case DocumentTypeWordPad:
		return "WordPad"
	case DocumentTypeWordPerfect:
		return "WordPerfect"
	case DocumentTypeLibreOffice:
		return "LibreOffice"
	case DocumentTypeOpenOffice:
		return "OpenOffice"
	case DocumentTypeApplePages:
		return "Apple"
	case DocumentTypeAbiWord:
		return "AbiWord"
	case DocumentTypeOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Runs:        make([]Run, 0),
		DefaultFont: -1,
		CodePage:    1252,
		Metadata: Metadata{
			Custom: make(map[string]string),
		},
	}
}

// RunText returns the text covered by run i, or "" when i is out of range
func (d *Document) RunText(i int) string {
	if i < 0 || i >= len(d.Runs) {
		return ""
	}
	r := d.Runs[i]
	return d.Text[r.Start:r.End]
}

// Font returns the font table entry with the given \f index
func (d *Document) Font(index int) (Font, bool) {
	for _, f := range d.Fonts {
		if f.Index == index {
			return f, true
		}
	}
	return Font{Index: -1}, false
}

// FontFor resolves the font of a style, falling back to the default font
func (d *Document) FontFor(s Style) (Font, bool) {
	if s.FontIndex >= 0 {
		if f, ok := d.Font(s.FontIndex); ok {
			return f, true
		}
	}
	return d.Font(d.DefaultFont)
}

// Color returns the color table entry at index. Index 0 is usually the auto
// color.
func (d *Document) Color(index int) (Color, bool) {
	if index < 0 || index >= len(d.Colors) {
		return Color{Index: -1, Auto: true}, false
	}
	return d.Colors[index], true
}

// TableCount returns the number of tables
func (d *Document) TableCount() int {
	return len(d.Tables)
}

// ImageCount returns the number of pictures
func (d *Document) ImageCount() int {
	return len(d.Images)
}

// ExtractTables returns all tables in document order
func (d *Document) ExtractTables() []*Table {
	return d.Tables
}

// Paragraphs splits the text buffer on paragraph breaks, dropping empty
// paragraphs.
func (d *Document) Paragraphs() []string {
	var out []string
	for _, p := range strings.Split(d.Text, "\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
