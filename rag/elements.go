package rag

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/rtfkit/model"
	"github.com/tsawler/rtfkit/render"
)

// ElementType is the kind of a content element
type ElementType int

const (
	ElementParagraph ElementType = iota
	ElementHeading
	ElementTable
	ElementImage
)

func (t ElementType) String() string {
	switch t {
	case ElementHeading:
		return "heading"
	case ElementTable:
		return "table"
	case ElementImage:
		return "image"
	default:
		return "paragraph"
	}
}

// ContentElement is a paragraph, heading, table or picture of a document
type ContentElement struct {
	Type ElementType
	Text string
	// Level is the heading level (1-6), 0 for other elements.
	Level int
	// Start and End are byte offsets into Document.Text.
	Start int
	End   int
}

// defaultFontSize is the RTF default size in half-points.
const defaultFontSize = 24

// maxHeadingLength is the longest paragraph, in bytes, taken as a heading.
const maxHeadingLength = 200

// headingRatios maps heading levels to minimum font size ratios relative
// to body text
var headingRatios = []float64{1.8, 1.5, 1.3, 1.15, 1.1, 1.05}

// paragraphStats is the visible text and typography of one paragraph.
type paragraphStats struct {
	text     string
	avgSize  float64
	allBold  bool
	visible  int
	sizeHist map[int]int
}

func measure(doc *model.Document, start, end int) paragraphStats {
	ps := paragraphStats{allBold: true, sizeHist: make(map[int]int)}
	var weighted float64
	var sb strings.Builder
	for _, r := range doc.Runs {
		if r.End <= start || r.Start >= end || r.Style.Hidden {
			continue
		}
		s, e := max(r.Start, start), min(r.End, end)
		text := doc.Text[s:e]
		sb.WriteString(text)

		n := len(strings.TrimSpace(text))
		if n == 0 {
			continue
		}
		size := r.Style.FontSize
		if size <= 0 {
			size = defaultFontSize
		}
		ps.visible += n
		ps.sizeHist[size] += n
		weighted += float64(size * n)
		if !r.Style.Bold {
			ps.allBold = false
		}
	}
	ps.text = strings.TrimSpace(sb.String())
	if ps.visible > 0 {
		ps.avgSize = weighted / float64(ps.visible)
	}
	return ps
}

// Elements splits a document into content elements in text order.
// Pictures are placed at their position in the text.
func Elements(doc *model.Document) []ContentElement {
	if doc == nil {
		return nil
	}

	type para struct {
		block render.Block
		stats paragraphStats
	}
	var paras []para
	hist := make(map[int]int)
	var out []ContentElement

	for _, b := range render.Blocks(doc) {
		if b.Table != nil {
			out = append(out, ContentElement{
				Type:  ElementTable,
				Text:  strings.TrimRight(b.Table.ToMarkdown(), "\n"),
				Start: b.Start,
				End:   b.End,
			})
			continue
		}
		ps := measure(doc, b.Start, b.End)
		if ps.text == "" {
			continue
		}
		for size, n := range ps.sizeHist {
			hist[size] += n
		}
		paras = append(paras, para{block: b, stats: ps})
	}

	body := bodySize(hist)
	for _, p := range paras {
		el := ContentElement{Type: ElementParagraph, Text: p.stats.text, Start: p.block.Start, End: p.block.End}
		if len(paras) > 1 {
			if level := headingLevel(p.stats, body); level > 0 {
				el.Type = ElementHeading
				el.Level = level
			}
		}
		out = append(out, el)
	}

	for i, img := range doc.Images {
		out = append(out, ContentElement{
			Type:  ElementImage,
			Text:  imageText(i, img),
			Start: img.Offset,
			End:   img.Offset,
		})
	}

	// a picture at the start of a paragraph comes before its text
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Type == ElementImage && out[j].Type != ElementImage
	})
	return out
}

// bodySize returns the most common font size, weighted by characters.
func bodySize(hist map[int]int) float64 {
	best, count := defaultFontSize, 0
	for size, n := range hist {
		if n > count || (n == count && size < best) {
			best, count = size, n
		}
	}
	return float64(best)
}

// headingLevel returns the heading level of a paragraph, or 0 when it
// reads as body text.
func headingLevel(ps paragraphStats, body float64) int {
	if len(ps.text) > maxHeadingLength || endsSentence(ps.text) {
		return 0
	}
	ratio := ps.avgSize / body
	for i, threshold := range headingRatios {
		if ratio >= threshold {
			return i + 1
		}
	}
	if ps.allBold {
		return len(headingRatios)
	}
	return 0
}

func endsSentence(text string) bool {
	for i := len(text) - 1; i >= 0; i-- {
		c := text[i]
		if unicode.IsSpace(rune(c)) {
			continue
		}
		return c == '.' || c == ',' || c == ';'
	}
	return false
}

func imageText(index int, img *model.Image) string {
	if img.AltText != "" {
		return fmt.Sprintf("[image %d: %s]", index+1, img.AltText)
	}
	return fmt.Sprintf("[image %d: %s]", index+1, img.Format)
}
