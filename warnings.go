package rtfkit

import (
	"fmt"
	"strings"

	"github.com/tsawler/rtfkit/rtf"
)

// Warning is a non-fatal problem found while extracting. Extraction
// succeeded, but the result may differ from what the author intended.
type Warning struct {
	Kind rtf.ErrorKind
	// Pos is the byte offset in the input, or -1 when unknown.
	Pos     int64
	Message string
}

func (w Warning) String() string {
	if w.Pos >= 0 {
		return fmt.Sprintf("%s at byte %d: %s", w.Kind, w.Pos, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// FormatWarnings joins warnings into a single line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// warningsFrom converts the errors of a parse to warnings, leaving out the
// error that ended it.
func warningsFrom(res *rtf.Result, final error) []Warning {
	if res == nil {
		return nil
	}
	var out []Warning
	for _, pe := range res.Errors {
		if final != nil && (error(pe) == final || pe.Kind.Fatal()) {
			continue
		}
		msg := pe.Msg
		if msg == "" && pe.Err != nil {
			msg = pe.Err.Error()
		}
		out = append(out, Warning{Kind: pe.Kind, Pos: pe.Pos, Message: msg})
	}
	return out
}
