package rtfkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/tsawler/rtfkit/format"
	"github.com/tsawler/rtfkit/model"
	"github.com/tsawler/rtfkit/render"
	"github.com/tsawler/rtfkit/rtf"
)

// Extractor provides a fluent interface for extracting content from RTF
// documents. Each configuration method returns a new Extractor instance,
// making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source, exactly one of these is set
	filename  string
	data      []byte
	fromBytes bool
	reader    *readerSource

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// readerSource drains a reader once and keeps the bytes.
type readerSource struct {
	once sync.Once
	r    io.Reader
	data []byte
	err  error
}

func (s *readerSource) bytes() ([]byte, error) {
	s.once.Do(func() {
		if s.r == nil {
			s.err = fmt.Errorf("nil reader")
			return
		}
		s.data, s.err = io.ReadAll(s.r)
		if s.err != nil {
			s.err = fmt.Errorf("failed to read input: %w", s.err)
		}
		s.r = nil
	})
	return s.data, s.err
}

// clone creates a shallow copy of the Extractor with a copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:  e.filename,
		data:      e.data,
		fromBytes: e.fromBytes,
		reader:    e.reader,
		options:   e.options.clone(),
		err:       e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Strict makes the first parse error fail the extraction and turns off
// automatic fixes.
//
// Example:
//
//	text, _, err := rtfkit.Open("doc.rtf").Strict().Text()
func (e *Extractor) Strict() *Extractor {
	newExt := e.clone()
	newExt.options.parse.StrictMode = true
	newExt.options.parse.AutoFixErrors = false
	return newExt
}

// Tolerant recovers from parse errors and reports them as warnings. This
// is the default.
func (e *Extractor) Tolerant() *Extractor {
	newExt := e.clone()
	newExt.options.parse.StrictMode = false
	newExt.options.parse.AutoFixErrors = true
	return newExt
}

// MaxDepth sets the deepest group nesting accepted.
func (e *Extractor) MaxDepth(depth uint16) *Extractor {
	newExt := e.clone()
	newExt.options.parse.MaxDepth = depth
	return newExt
}

// NoMetadata skips the \info group.
func (e *Extractor) NoMetadata() *Extractor {
	newExt := e.clone()
	newExt.options.parse.ExtractMetadata = false
	return newExt
}

// NoTypeDetection skips guessing the producing application.
func (e *Extractor) NoTypeDetection() *Extractor {
	newExt := e.clone()
	newExt.options.parse.DetectDocumentType = false
	return newExt
}

// NoAutoFix reports a stray closing brace or a missing final brace instead
// of repairing it.
func (e *Extractor) NoAutoFix() *Extractor {
	newExt := e.clone()
	newExt.options.parse.AutoFixErrors = false
	return newExt
}

// Context sets the context that cancels a running extraction.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//	text, _, err := rtfkit.Open("big.rtf").Context(ctx).Text()
func (e *Extractor) Context(ctx context.Context) *Extractor {
	newExt := e.clone()
	if ctx == nil {
		ctx = context.Background()
	}
	newExt.options.ctx = ctx
	return newExt
}

// OnProgress registers a progress callback.
func (e *Extractor) OnProgress(fn rtf.ProgressFunc) *Extractor {
	newExt := e.clone()
	newExt.options.progress = fn
	return newExt
}

// Logger sets the structured logger used during parsing.
func (e *Extractor) Logger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// Options replaces the parse options, for example with ones read by the
// config package. Invalid options fail every terminal operation.
//
// Example:
//
//	opts := rtfkit.Must(config.FromEnv())
//	text, _, err := rtfkit.Open("doc.rtf").Options(opts).Text()
func (e *Extractor) Options(opts rtf.ParseOptions) *Extractor {
	newExt := e.clone()
	newExt.options.parse = opts
	if err := opts.Validate(); err != nil {
		newExt.err = fmt.Errorf("invalid options: %w", err)
	}
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// parse runs the parser over the configured source.
func (e *Extractor) parse() (*rtf.Result, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	opts := e.options
	var (
		res *rtf.Result
		err error
	)
	switch {
	case e.reader != nil:
		data, rerr := e.reader.bytes()
		if rerr != nil {
			return nil, nil, rerr
		}
		res, err = rtf.ParseBytes(opts.ctx, data, opts.parse, opts.parserOptions()...)
	case e.fromBytes:
		res, err = rtf.ParseBytes(opts.ctx, e.data, opts.parse, opts.parserOptions()...)
	case e.filename != "":
		if f := format.Detect(e.filename); f != format.Unknown && f != format.RTF {
			return nil, nil, fmt.Errorf("unsupported file format: %s", f)
		}
		res, err = rtf.ParseFile(opts.ctx, e.filename, opts.parse, opts.parserOptions()...)
	default:
		return nil, nil, fmt.Errorf("no filename specified")
	}

	warnings := warningsFrom(res, err)
	if err != nil {
		return res, warnings, err
	}
	return res, warnings, nil
}

// Document parses the input and returns the document model. When a
// parse is canceled the partial document is returned with the error.
//
// Example:
//
//	doc, warnings, err := rtfkit.Open("document.rtf").Document()
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	res, warnings, err := e.parse()
	if res == nil {
		return nil, warnings, err
	}
	return res.Document, warnings, err
}

// document is Document for terminal operations that return nothing on
// error.
func (e *Extractor) document() (*model.Document, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return nil, warnings, err
	}
	return doc, warnings, nil
}

// Text extracts the plain text of the document. Hidden text is left out.
//
// Returns the extracted text, any warnings encountered during processing,
// and an error if extraction failed. Warnings indicate errors the parser
// recovered from, where extraction succeeded but results may be
// imperfect.
//
// Example:
//
//	text, warnings, err := rtfkit.Open("document.rtf").Text()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", rtfkit.FormatWarnings(warnings))
//	}
func (e *Extractor) Text() (string, []Warning, error) {
	doc, warnings, err := e.document()
	if err != nil {
		return "", warnings, err
	}
	return render.PlainText(doc), warnings, nil
}

// Markdown converts the document to Markdown.
//
// Example:
//
//	md, _, err := rtfkit.Open("document.rtf").Markdown()
func (e *Extractor) Markdown() (string, []Warning, error) {
	doc, warnings, err := e.document()
	if err != nil {
		return "", warnings, err
	}
	return render.Markdown(doc), warnings, nil
}

// HTML converts the document to a standalone HTML page.
func (e *Extractor) HTML() (string, []Warning, error) {
	doc, warnings, err := e.document()
	if err != nil {
		return "", warnings, err
	}
	out, err := render.HTML(doc)
	if err != nil {
		return "", warnings, err
	}
	return out, warnings, nil
}

// RTF parses the document and writes it back out as clean RTF.
func (e *Extractor) RTF() (string, []Warning, error) {
	doc, warnings, err := e.document()
	if err != nil {
		return "", warnings, err
	}
	return render.RTF(doc), warnings, nil
}

// Tables returns the tables of the document in text order.
//
// Example:
//
//	tables, _, err := rtfkit.Open("document.rtf").Tables()
//	for _, t := range tables {
//	    fmt.Println(t.ToMarkdown())
//	}
func (e *Extractor) Tables() ([]*model.Table, []Warning, error) {
	doc, warnings, err := e.document()
	if err != nil {
		return nil, warnings, err
	}
	return doc.ExtractTables(), warnings, nil
}

// Images returns the pictures embedded in the document.
func (e *Extractor) Images() ([]*model.Image, []Warning, error) {
	doc, warnings, err := e.document()
	if err != nil {
		return nil, warnings, err
	}
	return doc.Images, warnings, nil
}

// Metadata returns the \info fields and document flags.
func (e *Extractor) Metadata() (model.Metadata, []Warning, error) {
	doc, warnings, err := e.document()
	if err != nil {
		return model.Metadata{}, warnings, err
	}
	return doc.Metadata, warnings, nil
}
