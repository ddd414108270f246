package rtf

import (
	"strings"

	"github.com/tsawler/rtfkit/codepage"
	"github.com/tsawler/rtfkit/core"
	"github.com/tsawler/rtfkit/model"
)

// fontState is the font table entry being defined.
type fontState struct {
	font model.Font
	name strings.Builder
}

var fontFamilies = map[string]model.FontFamily{
	"fnil":    model.FamilyNil,
	"froman":  model.FamilyRoman,
	"fswiss":  model.FamilySwiss,
	"fmodern": model.FamilyModern,
	"fscript": model.FamilyScript,
	"fdecor":  model.FamilyDecor,
	"ftech":   model.FamilyTech,
	"fbidi":   model.FamilyBidi,
}

// fontWord handles control words inside \fonttbl. Both the grouped form
// {\f0\froman Times;} and the groupless form \f0 Times;\f1 Arial; are
// accepted.
func (s *session) fontWord(sc *scope, tok *core.Token) bool {
	switch name := tok.Name; name {
	case "f":
		s.flushFont()
		s.font = &fontState{font: model.Font{Index: tok.ParamOr(0)}}
		s.syncDecoder()
	case "fcharset":
		f := s.currentFont()
		f.font.Charset = tok.ParamOr(0)
		// charsets 0 and 1 mean the document code page
		if f.font.Charset > 1 {
			if cp, ok := codepage.FromCharset(f.font.Charset); ok {
				f.font.CodePage = cp
			}
		}
		s.syncDecoder()
	case "cpg":
		if tok.HasParam && tok.Param > 0 {
			s.currentFont().font.CodePage = tok.Param
			s.syncDecoder()
		}
	case "falt":
		s.currentFont()
		s.text.Reset()
		s.setDest(sc, destFontAlt)
	case "fprq", "ftnil", "fttruetype":
	default:
		family, ok := fontFamilies[name]
		if !ok {
			return false
		}
		s.currentFont().font.Family = family
	}
	return true
}

func (s *session) currentFont() *fontState {
	if s.font == nil {
		s.font = &fontState{font: model.Font{Index: -1}}
	}
	return s.font
}

// fontText collects the font name. A semicolon ends the entry.
func (s *session) fontText(sc *scope, text string) {
	if sc.dest == destFontAlt {
		s.text.WriteString(text)
		return
	}
	for {
		i := strings.IndexByte(text, ';')
		if i < 0 {
			break
		}
		if s.font != nil {
			s.font.name.WriteString(text[:i])
		}
		s.flushFont()
		text = text[i+1:]
	}
	if s.font != nil {
		s.font.name.WriteString(text)
	}
}

// flushFont adds the pending font to the document.
func (s *session) flushFont() {
	if s.font == nil {
		return
	}
	f := s.font.font
	f.Name = strings.TrimSpace(s.font.name.String())
	s.font = nil
	if f.Index < 0 && f.Name == "" {
		return
	}

	if i, ok := s.fontPos[f.Index]; ok {
		s.doc.Fonts[i] = f
	} else {
		s.fontPos[f.Index] = len(s.doc.Fonts)
		s.doc.Fonts = append(s.doc.Fonts, f)
	}
	s.emit(FontEvent{Font: f})
	s.syncDecoder()
}

// fontCodePage returns the code page implied by a font, 0 when the font
// uses the document code page.
func (s *session) fontCodePage(index int) int {
	if index < 0 {
		index = s.doc.DefaultFont
	}
	i, ok := s.fontPos[index]
	if !ok {
		return 0
	}
	return s.doc.Fonts[i].CodePage
}

// colorState is the color table entry being defined.
type colorState struct {
	r, g, b int
	set     bool
}

func (s *session) colorWord(tok *core.Token) bool {
	v := clampByte(tok.ParamOr(0))
	switch tok.Name {
	case "red":
		s.color.r = v
	case "green":
		s.color.g = v
	case "blue":
		s.color.b = v
	default:
		return false
	}
	s.color.set = true
	return true
}

func clampByte(v int) int {
	return min(max(v, 0), 255)
}

// colorText ends one entry per semicolon. An entry with no components is
// the auto color.
func (s *session) colorText(text string) {
	for _, c := range text {
		if c == ';' {
			s.flushColor(false)
		}
	}
}

// flushColor adds the pending entry. At the end of the table only an entry
// with components is added, since the last one is normally terminated.
func (s *session) flushColor(atClose bool) {
	if atClose && !s.color.set {
		return
	}
	c := model.Color{Index: len(s.doc.Colors)}
	if s.color.set {
		c.R, c.G, c.B = uint8(s.color.r), uint8(s.color.g), uint8(s.color.b)
	} else {
		c.Auto = true
	}
	s.doc.Colors = append(s.doc.Colors, c)
	s.color = colorState{}
	s.emit(ColorEvent{Color: c})
}

// styleState is the stylesheet entry being defined.
type styleState struct {
	entry model.StyleSheetEntry
	name  strings.Builder
}

func (s *session) currentStyle() *styleState {
	if s.style == nil {
		s.style = &styleState{entry: model.StyleSheetEntry{Kind: "paragraph", BasedOn: -1}}
	}
	return s.style
}

func (s *session) styleWord(sc *scope, tok *core.Token) bool {
	switch tok.Name {
	case "s":
		s.currentStyle().setKind("paragraph", tok.ParamOr(0))
	case "cs":
		s.currentStyle().setKind("character", tok.ParamOr(0))
	case "ds":
		s.currentStyle().setKind("section", tok.ParamOr(0))
	case "ts":
		s.currentStyle().setKind("table", tok.ParamOr(0))
	case "sbasedon":
		s.currentStyle().entry.BasedOn = tok.ParamOr(-1)
	case "additive", "snext", "sautoupd", "shidden", "slink", "slocked", "spersonal",
		"scompose", "sreply", "styrsid", "ssemihidden", "sqformat", "spriority", "sunhideused":
	default:
		return applyFormatting(&sc.style, tok.Name, tok.HasParam, tok.Param)
	}
	return true
}

func (st *styleState) setKind(kind string, index int) {
	st.entry.Kind = kind
	st.entry.Index = index
}

func (s *session) styleText(sc *scope, text string) {
	for {
		i := strings.IndexByte(text, ';')
		if i < 0 {
			break
		}
		s.currentStyle().name.WriteString(text[:i])
		s.flushStyle(sc.style)
		text = text[i+1:]
	}
	if strings.TrimSpace(text) != "" || s.style != nil {
		s.currentStyle().name.WriteString(text)
	}
}

// flushStyle adds the pending stylesheet entry with the formatting of its
// group.
func (s *session) flushStyle(style model.Style) {
	if s.style == nil {
		return
	}
	e := s.style.entry
	e.Name = strings.TrimSpace(s.style.name.String())
	e.Style = style
	s.style = nil
	if e.Name == "" {
		return
	}
	s.doc.Styles = append(s.doc.Styles, e)
}

// trimEntry trims whitespace and a trailing semicolon.
func trimEntry(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}
