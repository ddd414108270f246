package rtf

import (
	"bytes"
	"errors"
	"strings"

	"github.com/tsawler/rtfkit/core"
	"github.com/tsawler/rtfkit/format"
	"github.com/tsawler/rtfkit/model"
)

// typeHints are control words that identify the producing application.
type typeHints struct {
	cocoa bool
	word  bool
}

// Destinations only Microsoft Word writes.
var wordOnly = map[string]bool{
	"rsidtbl":            true,
	"latentstyles":       true,
	"themedata":          true,
	"colorschememapping": true,
	"datastore":          true,
	"xmlnstbl":           true,
	"mmathPr":            true,
	"wgrffmtfilter":      true,
}

func (h *typeHints) observe(name string) {
	switch {
	case strings.HasPrefix(name, "cocoa"):
		h.cocoa = true
	case wordOnly[name]:
		h.word = true
	}
}

var generatorTypes = []struct {
	needle string
	typ    model.DocumentType
}{
	{"msftedit", model.DocumentTypeWordPad},
	{"riched", model.DocumentTypeWordPad},
	{"microsoft word", model.DocumentTypeWord},
	{"libreoffice", model.DocumentTypeLibreOffice},
	{"openoffice", model.DocumentTypeOpenOffice},
	{"staroffice", model.DocumentTypeOpenOffice},
	{"abiword", model.DocumentTypeAbiWord},
	{"wordperfect", model.DocumentTypeWordPerfect},
	{"corel", model.DocumentTypeWordPerfect},
	{"pages", model.DocumentTypeApplePages},
	{"textedit", model.DocumentTypeApplePages},
	{"cocoa", model.DocumentTypeApplePages},
}

// classify picks the document type from the \*\generator text and the
// control words seen.
func classify(generator string, h typeHints) model.DocumentType {
	g := strings.ToLower(generator)
	for _, gt := range generatorTypes {
		if strings.Contains(g, gt.needle) {
			return gt.typ
		}
	}
	switch {
	case h.cocoa:
		return model.DocumentTypeApplePages
	case h.word:
		return model.DocumentTypeWord
	case generator != "":
		return model.DocumentTypeOther
	}
	return model.DocumentTypeGeneric
}

// detectScanLimit bounds how much of the input DetectDocumentType reads.
const detectScanLimit = 64 << 10

// DetectDocumentType classifies RTF data without building a document. Data
// that does not start with {\rtf is DocumentTypeUnknown.
func DetectDocumentType(data []byte) model.DocumentType {
	if !format.IsRTF(data) {
		return model.DocumentTypeUnknown
	}
	if len(data) > detectScanLimit {
		data = data[:detectScanLimit]
	}

	lex := core.NewLexer(bytes.NewReader(data))
	var (
		hints     typeHints
		generator strings.Builder
		genDepth  = -1
		depth     int
	)
	for {
		tok, err := lex.NextToken()
		if tok == nil {
			if errors.Is(err, core.ErrRead) {
				return model.DocumentTypeUnknown
			}
			continue
		}
		switch tok.Type {
		case core.TokenEOF:
			return classify(strings.TrimSpace(strings.TrimSuffix(generator.String(), ";")), hints)
		case core.TokenGroupOpen:
			depth++
		case core.TokenGroupClose:
			if depth == genDepth {
				genDepth = -1
			}
			depth--
		case core.TokenControlWord:
			hints.observe(tok.Name)
			if tok.Name == "generator" {
				genDepth = depth
			}
		case core.TokenText:
			if genDepth >= 0 && depth >= genDepth {
				generator.WriteString(tok.Text)
			}
		}
	}
}
