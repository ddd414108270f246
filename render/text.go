package render

import (
	"strings"

	"github.com/tsawler/rtfkit/model"
)

// PlainText returns the document text without hidden runs, with trailing
// whitespace removed from each line.
func PlainText(doc *model.Document) string {
	if doc == nil {
		return ""
	}
	text := VisibleText(doc, 0, len(doc.Text))

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
