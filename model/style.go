package model

import "fmt"

// Style is the resolved character formatting of a run. It is a comparable
// value, so adjacent text with equal styles merges into one run.
type Style struct {
	Bold         bool
	Italic       bool
	Underline    UnderlineKind
	Strike       bool
	DoubleStrike bool
	Hidden       bool
	Caps         bool
	SmallCaps    bool
	VertAlign    VerticalAlign

	// FontIndex is the \f index, -1 for the document default.
	FontIndex int
	// FontSize is in half-points, 0 for the default size.
	FontSize int

	// Color table indices, -1 for the default.
	ForeColor int
	BackColor int
	Highlight int
}

// DefaultStyle returns the style in effect at the start of a document and
// after \plain.
func DefaultStyle() Style {
	return Style{
		FontIndex: -1,
		ForeColor: -1,
		BackColor: -1,
		Highlight: -1,
	}
}

// IsPlain reports whether s has no visible formatting beyond font and size.
func (s Style) IsPlain() bool {
	return !s.Bold && !s.Italic && s.Underline == UnderlineNone && !s.Strike &&
		!s.DoubleStrike && !s.Caps && !s.SmallCaps && s.VertAlign == VertAlignBaseline
}

// PointSize returns the font size in points, or 0 for the default.
func (s Style) PointSize() float64 {
	return float64(s.FontSize) / 2
}

// UnderlineKind distinguishes the \ul family of control words
type UnderlineKind int

const (
	UnderlineNone UnderlineKind = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineDotted
	UnderlineDash
	UnderlineWord
	UnderlineWave
	UnderlineThick
)

func (u UnderlineKind) String() string {
	switch u {
	case UnderlineSingle:
		return "single"
	case UnderlineDouble:
		return "double"
	case UnderlineDotted:
		return "dotted"
	case UnderlineDash:
		return "dash"
	case UnderlineWord:
		return "word"
	case UnderlineWave:
		return "wave"
	case UnderlineThick:
		return "thick"
	default:
		return "none"
	}
}

// VerticalAlign represents superscript and subscript
type VerticalAlign int

const (
	VertAlignBaseline VerticalAlign = iota
	VertAlignSuper
	VertAlignSub
)

// Run is a maximal span of text sharing one style. Start and End are byte
// offsets into Document.Text.
type Run struct {
	Start int
	End   int
	Style Style
}

// Len returns the length of the run in bytes
func (r Run) Len() int {
	return r.End - r.Start
}

// FontFamily is the \fnil..\fbidi family of a font table entry
type FontFamily int

const (
	FamilyNil FontFamily = iota
	FamilyRoman
	FamilySwiss
	FamilyModern
	FamilyScript
	FamilyDecor
	FamilyTech
	FamilyBidi
)

func (f FontFamily) String() string {
	switch f {
	case FamilyRoman:
		return "roman"
	case FamilySwiss:
		return "swiss"
	case FamilyModern:
		return "modern"
	case FamilyScript:
		return "script"
	case FamilyDecor:
		return "decor"
	case FamilyTech:
		return "tech"
	case FamilyBidi:
		return "bidi"
	default:
		return "nil"
	}
}

// Font is a font table entry
type Font struct {
	Index   int
	Name    string
	Family  FontFamily
	Charset int
	// CodePage is derived from Charset, or set by \cpg.
	CodePage int
	// AltName is the \*\falt alternative name.
	AltName string
}

// Color is a color table entry. Auto marks the empty entry that means the
// default color.
type Color struct {
	Index   int
	R, G, B uint8
	Auto    bool
}

// Hex returns the color as #rrggbb, or "" for the auto color.
func (c Color) Hex() string {
	if c.Auto {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// StyleSheetEntry is a named style from the \stylesheet group
type StyleSheetEntry struct {
	Index int
	Name  string
	// Kind is "paragraph", "character", "section" or "table".
	Kind    string
	BasedOn int
	Style   Style
}
