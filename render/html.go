package render

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/rtfkit/model"
)

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// HTML returns the document as a standalone HTML page.
func HTML(doc *model.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("render: nil document")
	}

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	page := element(atom.Html)
	root.AppendChild(page)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	if doc.Metadata.Title != "" {
		title := element(atom.Title)
		title.AppendChild(textNode(doc.Metadata.Title))
		head.AppendChild(title)
	}
	if doc.Metadata.Author != "" {
		head.AppendChild(element(atom.Meta,
			html.Attribute{Key: "name", Val: "author"},
			html.Attribute{Key: "content", Val: doc.Metadata.Author}))
	}
	page.AppendChild(head)

	body := element(atom.Body)
	page.AppendChild(body)
	for _, b := range Blocks(doc) {
		if b.Table != nil {
			body.AppendChild(tableNode(doc, b.Table))
			continue
		}
		sps := spans(doc.Text, doc.Runs, b.Start, b.End)
		if strings.TrimSpace(joinSpans(sps)) == "" {
			continue
		}
		p := element(atom.P)
		appendInline(p, doc, sps)
		body.AppendChild(p)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return buf.String(), nil
}

func joinSpans(sps []span) string {
	var sb strings.Builder
	for _, sp := range sps {
		sb.WriteString(sp.text)
	}
	return sb.String()
}

func tableNode(doc *model.Document, t *model.Table) *html.Node {
	table := element(atom.Table)
	tbody := element(atom.Tbody)
	table.AppendChild(tbody)
	for _, row := range t.Rows {
		tr := element(atom.Tr)
		for _, cell := range row {
			td := element(atom.Td)
			appendInline(td, doc, spans(cell.Text, cell.Runs, 0, len(cell.Text)))
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	return table
}

// appendInline adds each span to parent wrapped in the elements for its
// style. Line breaks inside a span become <br>.
func appendInline(parent *html.Node, doc *model.Document, sps []span) {
	for _, sp := range sps {
		outer, inner := styleNodes(doc, sp.style)
		target := parent
		if outer != nil {
			parent.AppendChild(outer)
			target = inner
		}
		lines := strings.Split(strings.ReplaceAll(sp.text, "\t", " "), "\n")
		for i, line := range lines {
			if i > 0 {
				target.AppendChild(element(atom.Br))
			}
			if line != "" {
				target.AppendChild(textNode(line))
			}
		}
	}
}

// styleNodes builds the element chain for a style and returns its outer
// and innermost nodes, or nil for plain text.
func styleNodes(doc *model.Document, st model.Style) (outer, inner *html.Node) {
	var chain []*html.Node
	if css := styleCSS(doc, st); css != "" {
		chain = append(chain, element(atom.Span, html.Attribute{Key: "style", Val: css}))
	}
	if st.Bold {
		chain = append(chain, element(atom.Strong))
	}
	if st.Italic {
		chain = append(chain, element(atom.Em))
	}
	if st.Underline != model.UnderlineNone {
		chain = append(chain, element(atom.U))
	}
	if st.Strike || st.DoubleStrike {
		chain = append(chain, element(atom.S))
	}
	switch st.VertAlign {
	case model.VertAlignSuper:
		chain = append(chain, element(atom.Sup))
	case model.VertAlignSub:
		chain = append(chain, element(atom.Sub))
	}
	if len(chain) == 0 {
		return nil, nil
	}
	for i := 1; i < len(chain); i++ {
		chain[i-1].AppendChild(chain[i])
	}
	return chain[0], chain[len(chain)-1]
}

func styleCSS(doc *model.Document, st model.Style) string {
	var decls []string
	if c, ok := doc.Color(st.ForeColor); ok && !c.Auto {
		decls = append(decls, "color:"+c.Hex())
	}
	bg := st.Highlight
	if bg < 0 {
		bg = st.BackColor
	}
	if c, ok := doc.Color(bg); ok && !c.Auto {
		decls = append(decls, "background-color:"+c.Hex())
	}
	if st.FontSize > 0 {
		decls = append(decls, fmt.Sprintf("font-size:%gpt", st.PointSize()))
	}
	if f, ok := doc.FontFor(st); ok && f.Name != "" {
		decls = append(decls, fmt.Sprintf("font-family:%q", f.Name))
	}
	if st.SmallCaps {
		decls = append(decls, "font-variant:small-caps")
	}
	if st.Caps {
		decls = append(decls, "text-transform:uppercase")
	}
	return strings.Join(decls, ";")
}
