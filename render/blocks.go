package render

import (
	"sort"
	"strings"

	"github.com/tsawler/rtfkit/model"
)

// Block is a paragraph of document text or a table. Start and End are
// byte offsets into Document.Text.
type Block struct {
	Start, End int
	// Table is set for table blocks.
	Table *model.Table
}

// Blocks splits the document into paragraphs and tables in text order.
// Paragraphs end at a newline; the newline itself is not part of the
// block.
func Blocks(doc *model.Document) []Block {
	tables := make([]*model.Table, len(doc.Tables))
	copy(tables, doc.Tables)
	sort.Slice(tables, func(i, j int) bool { return tables[i].Start < tables[j].Start })

	var out []Block
	addText := func(from, to int) {
		for from < to {
			nl := strings.IndexByte(doc.Text[from:to], '\n')
			if nl < 0 {
				out = append(out, Block{Start: from, End: to})
				return
			}
			out = append(out, Block{Start: from, End: from + nl})
			from += nl + 1
		}
	}

	pos := 0
	for _, t := range tables {
		if t.Start < pos || t.End > len(doc.Text) {
			continue
		}
		addText(pos, t.Start)
		out = append(out, Block{Start: t.Start, End: t.End, Table: t})
		pos = t.End
	}
	addText(pos, len(doc.Text))
	return out
}

// span is a piece of text with one style.
type span struct {
	text  string
	style model.Style
}

// spans returns the styled pieces of text[start:end], skipping hidden
// text.
func spans(text string, runs []model.Run, start, end int) []span {
	var out []span
	for _, r := range runs {
		if r.End <= start || r.Start >= end {
			continue
		}
		if r.Style.Hidden {
			continue
		}
		s, e := max(r.Start, start), min(r.End, end)
		out = append(out, span{text: text[s:e], style: r.Style})
	}
	return out
}

// VisibleText returns doc.Text[start:end] without hidden runs.
func VisibleText(doc *model.Document, start, end int) string {
	return joinSpans(spans(doc.Text, doc.Runs, start, end))
}

// splitSpace separates leading and trailing whitespace from s.
func splitSpace(s string) (lead, core, trail string) {
	trimmed := strings.TrimLeft(s, " \t")
	lead = s[:len(s)-len(trimmed)]
	core = strings.TrimRight(trimmed, " \t")
	trail = trimmed[len(core):]
	return lead, core, trail
}
