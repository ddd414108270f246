package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/tsawler/rtfkit/model"
)

var familyWords = map[model.FontFamily]string{
	model.FamilyNil:    `\fnil`,
	model.FamilyRoman:  `\froman`,
	model.FamilySwiss:  `\fswiss`,
	model.FamilyModern: `\fmodern`,
	model.FamilyScript: `\fscript`,
	model.FamilyDecor:  `\fdecor`,
	model.FamilyTech:   `\ftech`,
	model.FamilyBidi:   `\fbidi`,
}

var underlineWords = map[model.UnderlineKind]string{
	model.UnderlineSingle: `\ul`,
	model.UnderlineDouble: `\uldb`,
	model.UnderlineDotted: `\uld`,
	model.UnderlineDash:   `\uldash`,
	model.UnderlineWord:   `\ulw`,
	model.UnderlineWave:   `\ulwave`,
	model.UnderlineThick:  `\ulth`,
}

// RTF writes the document back out as RTF. Text, character formatting,
// tables and the font, color and info tables survive a reparse. Pictures,
// objects and the style sheet are not written.
func RTF(doc *model.Document) string {
	if doc == nil {
		return ""
	}
	w := &rtfWriter{}
	w.WriteString(`{\rtf1\ansi\ansicpg1252`)
	if doc.DefaultFont >= 0 {
		fmt.Fprintf(w, `\deff%d`, doc.DefaultFont)
	}
	w.fontTable(doc.Fonts)
	w.colorTable(doc.Colors)
	w.info(doc.Metadata)
	w.WriteString(`{\*\generator rtfkit;}`)
	w.WriteString("\n")

	tables := make([]*model.Table, 0, len(doc.Tables))
	for _, b := range Blocks(doc) {
		if b.Table != nil {
			tables = append(tables, b.Table)
		}
	}
	pos := 0
	for _, t := range tables {
		w.runs(doc.Text, doc.Runs, pos, t.Start)
		w.table(t)
		pos = t.End
	}
	w.runs(doc.Text, doc.Runs, pos, len(doc.Text))
	w.WriteString("}")
	return w.String()
}

type rtfWriter struct {
	strings.Builder
}

func (w *rtfWriter) fontTable(fonts []model.Font) {
	if len(fonts) == 0 {
		return
	}
	w.WriteString(`{\fonttbl`)
	for _, f := range fonts {
		fmt.Fprintf(w, `{\f%d%s`, f.Index, familyWords[f.Family])
		if f.Charset > 0 {
			fmt.Fprintf(w, `\fcharset%d`, f.Charset)
		} else if f.CodePage > 0 {
			fmt.Fprintf(w, `\cpg%d`, f.CodePage)
		}
		w.WriteString(" ")
		if f.AltName != "" {
			w.WriteString(`{\*\falt `)
			w.text(f.AltName, false)
			w.WriteString("}")
		}
		w.text(f.Name, false)
		w.WriteString(";}")
	}
	w.WriteString("}")
}

func (w *rtfWriter) colorTable(colors []model.Color) {
	if len(colors) == 0 {
		return
	}
	w.WriteString(`{\colortbl`)
	for _, c := range colors {
		if !c.Auto {
			fmt.Fprintf(w, `\red%d\green%d\blue%d`, c.R, c.G, c.B)
		}
		w.WriteString(";")
	}
	w.WriteString("}")
}

func (w *rtfWriter) info(m model.Metadata) {
	fields := []struct{ word, value string }{
		{"title", m.Title},
		{"subject", m.Subject},
		{"author", m.Author},
		{"manager", m.Manager},
		{"company", m.Company},
		{"operator", m.Operator},
		{"category", m.Category},
		{"keywords", m.Keywords},
		{"doccomm", m.Comment},
	}
	iw := &rtfWriter{}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(iw, `{\%s `, f.word)
		iw.text(f.value, false)
		iw.WriteString("}")
	}
	iw.time("creatim", m.Created)
	iw.time("revtim", m.Revised)
	iw.time("printim", m.Printed)
	if iw.Len() == 0 {
		return
	}
	w.WriteString(`{\info`)
	w.WriteString(iw.String())
	w.WriteString("}")
}

func (w *rtfWriter) time(word string, t time.Time) {
	if t.IsZero() {
		return
	}
	t = t.UTC()
	fmt.Fprintf(w, `{\%s\yr%d\mo%d\dy%d\hr%d\min%d\sec%d}`, word,
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// styleWords returns the control words that turn the default style into st.
func styleWords(st model.Style) string {
	var sb strings.Builder
	flag := func(set bool, word string) {
		if set {
			sb.WriteString(word)
		}
	}
	flag(st.Bold, `\b`)
	flag(st.Italic, `\i`)
	sb.WriteString(underlineWords[st.Underline])
	flag(st.Strike, `\strike`)
	flag(st.DoubleStrike, `\striked1`)
	flag(st.Hidden, `\v`)
	flag(st.Caps, `\caps`)
	flag(st.SmallCaps, `\scaps`)
	switch st.VertAlign {
	case model.VertAlignSuper:
		sb.WriteString(`\super`)
	case model.VertAlignSub:
		sb.WriteString(`\sub`)
	}
	if st.FontIndex >= 0 {
		fmt.Fprintf(&sb, `\f%d`, st.FontIndex)
	}
	if st.FontSize > 0 {
		fmt.Fprintf(&sb, `\fs%d`, st.FontSize)
	}
	if st.ForeColor >= 0 {
		fmt.Fprintf(&sb, `\cf%d`, st.ForeColor)
	}
	if st.BackColor >= 0 {
		fmt.Fprintf(&sb, `\cb%d`, st.BackColor)
	}
	if st.Highlight >= 0 {
		fmt.Fprintf(&sb, `\highlight%d`, st.Highlight)
	}
	return sb.String()
}

// runs writes text[start:end] as one group per run.
func (w *rtfWriter) runs(text string, runs []model.Run, start, end int) {
	for _, r := range runs {
		if r.End <= start || r.Start >= end {
			continue
		}
		s, e := max(r.Start, start), min(r.End, end)
		w.WriteString("{")
		if words := styleWords(r.Style); words != "" {
			w.WriteString(words)
			w.WriteString(" ")
		}
		w.text(text[s:e], true)
		w.WriteString("}")
	}
}

func (w *rtfWriter) table(t *model.Table) {
	for _, row := range t.Rows {
		w.WriteString(`\trowd`)
		right := 0
		for _, c := range row {
			switch {
			case c.Right > 0:
				right = c.Right
			case c.Width > 0:
				right += c.Width
			default:
				right += defaultCellWidth
			}
			fmt.Fprintf(w, `\cellx%d`, right)
		}
		w.WriteString("\n")
		for _, c := range row {
			w.WriteString(`\intbl`)
			w.runs(c.Text, c.Runs, 0, len(c.Text))
			w.WriteString(`\cell`)
		}
		w.WriteString(`\row`)
		w.WriteString("\n")
	}
	w.WriteString(`\pard`)
	w.WriteString("\n")
}

// defaultCellWidth is the width in twips written for cells without one.
const defaultCellWidth = 1440

// text writes s with RTF escapes. Characters outside ASCII become \uN
// with a '?' fallback. With breaks set, newlines and tabs become \par and
// \tab.
func (w *rtfWriter) text(s string, breaks bool) {
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			w.WriteByte('\\')
			w.WriteRune(r)
		case r == '\n':
			if breaks {
				w.WriteString(`\par `)
			}
		case r == '\t':
			if breaks {
				w.WriteString(`\tab `)
			} else {
				w.WriteByte(' ')
			}
		case r == '\u00a0':
			w.WriteString(`\~`)
		case r == '\u00ad':
			w.WriteString(`\-`)
		case r == '\u2011':
			w.WriteString(`\_`)
		case r < 0x20:
		case r < 0x80:
			w.WriteRune(r)
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			w.unicode(r1)
			w.unicode(r2)
		default:
			w.unicode(r)
		}
	}
}

// unicode writes \uN. N is a signed 16-bit value.
func (w *rtfWriter) unicode(r rune) {
	n := int(r)
	if n > 32767 {
		n -= 65536
	}
	fmt.Fprintf(w, `\u%d?`, n)
}
