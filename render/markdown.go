package render

import (
	"strings"

	"github.com/tsawler/rtfkit/model"
)

// Markdown returns the document as Markdown. Bold, italic and struck
// through runs become **, * and ~~ spans; paragraphs are separated by a
// blank line and tables use pipe syntax.
func Markdown(doc *model.Document) string {
	if doc == nil {
		return ""
	}

	var result strings.Builder
	for _, b := range Blocks(doc) {
		var chunk string
		if b.Table != nil {
			chunk = strings.TrimRight(b.Table.ToMarkdown(), "\n")
		} else {
			chunk = inlineMarkdown(spans(doc.Text, doc.Runs, b.Start, b.End))
		}
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if result.Len() > 0 {
			result.WriteString("\n\n")
		}
		result.WriteString(chunk)
	}
	return result.String()
}

func markers(st model.Style) string {
	var m string
	if st.Bold {
		m += "**"
	}
	if st.Italic {
		m += "*"
	}
	if st.Strike || st.DoubleStrike {
		m += "~~"
	}
	return m
}

func reverseMarkers(m string) string {
	var parts []string
	for len(m) > 0 {
		switch {
		case strings.HasPrefix(m, "**"):
			parts = append(parts, "**")
			m = m[2:]
		case strings.HasPrefix(m, "~~"):
			parts = append(parts, "~~")
			m = m[2:]
		default:
			parts = append(parts, m[:1])
			m = m[1:]
		}
	}
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])
	}
	return sb.String()
}

// inlineMarkdown writes styled spans. Spans with the same markers are
// merged and whitespace is kept outside the delimiters so they stay
// flanking.
func inlineMarkdown(sps []span) string {
	var sb strings.Builder
	for i := 0; i < len(sps); {
		m := markers(sps[i].style)
		var text strings.Builder
		for ; i < len(sps) && markers(sps[i].style) == m; i++ {
			text.WriteString(sps[i].text)
		}

		escaped := escapeMarkdown(text.String())
		if m == "" {
			sb.WriteString(escaped)
			continue
		}
		lead, core, trail := splitSpace(escaped)
		sb.WriteString(lead)
		if core != "" {
			sb.WriteString(m)
			sb.WriteString(core)
			sb.WriteString(reverseMarkers(m))
		}
		sb.WriteString(trail)
	}
	return strings.TrimSpace(sb.String())
}

// escapeMarkdown backslash-escapes characters that Markdown would read as
// syntax. Tabs become spaces.
func escapeMarkdown(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch r {
		case '\\', '*', '_', '~', '`', '[', ']', '<', '>', '|', '#':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\t':
			sb.WriteByte(' ')
		case '\r':
			// Skip
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
