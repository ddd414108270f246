package rtf

import (
	"strings"

	"github.com/tsawler/rtfkit/model"
)

// builder accumulates text and the runs that partition it.
type builder struct {
	text strings.Builder
	runs []model.Run
}

// emit appends text, extending the last run when its style is equal.
func (b *builder) emit(text string, style model.Style) {
	if text == "" {
		return
	}
	start := b.text.Len()
	b.text.WriteString(text)
	end := b.text.Len()

	if n := len(b.runs); n > 0 && b.runs[n-1].Style == style && b.runs[n-1].End == start {
		b.runs[n-1].End = end
		return
	}
	b.runs = append(b.runs, model.Run{Start: start, End: end, Style: style})
}

// Len returns the number of bytes emitted.
func (b *builder) Len() int {
	return b.text.Len()
}

// String returns the text emitted so far.
func (b *builder) String() string {
	return b.text.String()
}

// Runs returns a copy of the runs.
func (b *builder) Runs() []model.Run {
	out := make([]model.Run, len(b.runs))
	copy(out, b.runs)
	return out
}

// endsWith reports whether the text ends with s.
func (b *builder) endsWith(s string) bool {
	return strings.HasSuffix(b.text.String(), s)
}
