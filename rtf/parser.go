package rtf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/rtfkit/codepage"
	"github.com/tsawler/rtfkit/core"
	"github.com/tsawler/rtfkit/model"
	"github.com/tsawler/rtfkit/source"
)

// Parser parses RTF documents. It holds only configuration, so one Parser
// may run any number of parses, concurrently or not.
type Parser struct {
	opts     ParseOptions
	handler  Handler
	progress ProgressFunc
	cancel   CancelFunc
	logger   *slog.Logger
}

// NewParser validates opts and returns a Parser.
func NewParser(opts ParseOptions, options ...Option) (*Parser, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{
		opts:   opts,
		logger: discardLogger(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

// Options returns the parse options.
func (p *Parser) Options() ParseOptions {
	return p.opts
}

// Parse reads src to the end and builds a Document.
//
// The returned error is nil when the outcome is Success or
// SuccessWithRecoveredErrors. For Failed and Canceled outcomes it is the
// *ParseError that stopped the parse; the Result is returned in every case.
func (p *Parser) Parse(ctx context.Context, src source.Source) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if src == nil {
		err := newParseError(KindInvalidParameter, -1, "nil source")
		return &Result{Outcome: Failed, Errors: []*ParseError{err}, TotalBytes: -1}, err
	}
	return newSession(ctx, p, src).run()
}

// ParseBytes parses an in-memory document.
func ParseBytes(ctx context.Context, data []byte, opts ParseOptions, options ...Option) (*Result, error) {
	p, err := NewParser(opts, options...)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, source.FromBytes(data))
}

// ParseReader parses a document read from r. The total size is unknown, so
// progress fractions stay at 0 until completion.
func ParseReader(ctx context.Context, r io.Reader, opts ParseOptions, options ...Option) (*Result, error) {
	p, err := NewParser(opts, options...)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, source.FromReader(r, -1))
}

// ParseFile opens and parses the named file, memory-mapping it when the
// options allow.
func ParseFile(ctx context.Context, path string, opts ParseOptions, options ...Option) (*Result, error) {
	p, err := NewParser(opts, options...)
	if err != nil {
		return nil, err
	}
	src, err := source.Open(path, source.Options{
		UseMemoryMapping: opts.UseMemoryMapping,
		MappingThreshold: int64(opts.MemoryMappingThreshold),
	})
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return p.Parse(ctx, src)
}

// session is the state of one parse.
type session struct {
	ctx     context.Context
	opts    ParseOptions
	handler Handler
	logger  *slog.Logger
	id      string
	ctrl    *controller
	lex     *core.Lexer

	// stack[0] is the scope outside the document group.
	stack   []scope
	phantom int

	started      bool // the document group has opened
	closed       bool // the document group has closed
	implicit     bool // no opening brace; the whole input is the document
	expectHeader bool

	doc      *model.Document
	body     builder
	docCP    int
	curCP    int
	decoders map[int]*codepage.Decoder
	fontPos  map[int]int

	pendingHigh    rune
	pendingHighPos int64

	text   strings.Builder // leaf destination text
	font   *fontState
	color  colorState
	style  *styleState
	time   timeState
	prop   string
	pict   *pictState
	object *objectState
	tables tableState
	hints  typeHints
}

func newSession(ctx context.Context, p *Parser, src source.Source) *session {
	id := uuid.NewString()
	logger := p.logger.With("parse_id", id)

	s := &session{
		ctx:      ctx,
		opts:     p.opts,
		handler:  p.handler,
		logger:   logger,
		id:       id,
		lex:      core.NewLexer(src),
		stack:    []scope{{style: model.DefaultStyle(), uc: 1}},
		doc:      model.NewDocument(),
		docCP:    codepage.ANSI,
		curCP:    codepage.ANSI,
		decoders: make(map[int]*codepage.Decoder),
		fontPos:  make(map[int]int),
	}
	s.lex.SetMaxBinary(p.opts.MaxBinarySize)
	s.ctrl = &controller{
		strict:     p.opts.StrictMode,
		emit:       s.emit,
		logger:     logger,
		progress:   p.progress,
		cancel:     p.cancel,
		interval:   int64(p.opts.ProgressInterval),
		nextReport: int64(p.opts.ProgressInterval),
		total:      src.Size(),
	}
	return s
}

func (s *session) emit(e Event) {
	if s.handler != nil {
		s.handler.HandleEvent(e)
	}
}

func (s *session) top() *scope {
	return &s.stack[len(s.stack)-1]
}

func (s *session) run() (*Result, error) {
	start := time.Now()
	s.logger.Debug("parse started", "bytes", s.ctrl.total, "strict", s.opts.StrictMode)

	err := s.loop()

	result := &Result{
		ParseID:        s.id,
		Errors:         s.ctrl.errs,
		BytesProcessed: s.lex.Pos(),
		TotalBytes:     s.ctrl.total,
	}

	switch {
	case err == nil:
		s.finalize(true)
		result.Outcome = s.ctrl.outcome()
		result.Document = s.doc
		s.ctrl.finish(result.BytesProcessed)
	case errors.Is(err, ErrCanceled):
		result.Outcome = Canceled
		if s.opts.KeepPartialOnCancel {
			s.finalize(false)
			result.Document = s.doc
		}
	default:
		result.Outcome = Failed
	}

	s.logger.Debug("parse finished",
		"outcome", result.Outcome.String(),
		"errors", len(result.Errors),
		"bytes", result.BytesProcessed,
		"elapsed", time.Since(start))

	if err != nil {
		return result, err
	}
	return result, nil
}

func (s *session) loop() error {
	for {
		if perr := s.ctrl.canceled(s.ctx, s.lex.Pos()); perr != nil {
			return s.ctrl.record(perr)
		}

		tok, err := s.lex.NextToken()
		if err != nil {
			if stop := s.ctrl.lexical(err); stop != nil {
				return stop
			}
		}
		if tok == nil {
			continue
		}
		s.ctrl.tick(s.lex.Pos())

		done, err := s.handle(tok)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// handle processes one token. done is set when the document is complete.
func (s *session) handle(tok *core.Token) (done bool, err error) {
	if !tok.Is("u") {
		if err := s.flushSurrogate(); err != nil {
			return false, err
		}
	}

	if s.closed {
		return s.afterClose(tok)
	}
	if !s.started {
		handled, err := s.beforeStart(tok)
		if handled || err != nil {
			return tok.Type == core.TokenEOF, err
		}
	}
	if s.expectHeader {
		s.expectHeader = false
		if tok.Is("rtf") {
			s.doc.Metadata.RTFVersion = tok.ParamOr(1)
			return false, nil
		}
		if err := s.ctrl.recordf(KindInvalidFormat, tok.Pos, `document does not start with \rtf`); err != nil {
			return false, err
		}
	}

	switch tok.Type {
	case core.TokenEOF:
		return true, s.endOfInput(tok.Pos)
	case core.TokenGroupOpen:
		return false, s.openGroup(tok.Pos)
	case core.TokenGroupClose:
		return false, s.closeGroup(tok.Pos)
	case core.TokenControlWord:
		return false, s.controlWord(tok)
	case core.TokenControlSymbol:
		return false, s.controlSymbol(tok)
	case core.TokenText:
		return false, s.textToken(tok)
	case core.TokenBinary:
		return false, s.binary(tok)
	}
	return false, nil
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// blank reports whether raw text carries nothing but whitespace, NULs or a
// byte order mark.
func blank(raw []byte) bool {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	for _, c := range raw {
		if c != ' ' && c != '\t' && c != 0 {
			return false
		}
	}
	return true
}

// beforeStart handles tokens before the document group. handled is false
// when the token must be processed as document content.
func (s *session) beforeStart(tok *core.Token) (handled bool, err error) {
	switch {
	case tok.Type == core.TokenText && blank(tok.Raw):
		return true, nil
	case tok.Type == core.TokenGroupOpen:
		s.started = true
		s.expectHeader = true
		return true, s.openGroup(tok.Pos)
	case tok.Type == core.TokenEOF:
		return true, s.ctrl.recordf(KindInvalidFormat, tok.Pos, "no RTF content")
	}

	if err := s.ctrl.recordf(KindInvalidFormat, tok.Pos, `missing {\rtf header`); err != nil {
		return true, err
	}
	s.started = true
	s.implicit = true
	s.stack = append(s.stack, s.stack[0])
	return false, nil
}

// afterClose handles tokens after the document group has closed.
func (s *session) afterClose(tok *core.Token) (bool, error) {
	switch tok.Type {
	case core.TokenEOF:
		return true, nil
	case core.TokenText:
		if blank(tok.Raw) {
			return false, nil
		}
	case core.TokenGroupClose:
		if s.opts.AutoFixErrors {
			s.logger.Debug("stray closing brace ends document", "pos", tok.Pos)
			return true, nil
		}
		if err := s.ctrl.recordf(KindUnbalancedGroup, tok.Pos, "closing brace after end of document"); err != nil {
			return false, err
		}
		return false, nil
	}
	s.logger.Debug("ignoring content after end of document", "pos", tok.Pos)
	return true, nil
}

// base is the stack length at which the document group is closed.
func (s *session) base() int {
	if s.implicit {
		return 2
	}
	return 1
}

func (s *session) openGroup(pos int64) error {
	depth := len(s.stack)
	if s.phantom > 0 || depth > int(s.opts.MaxDepth) {
		if s.phantom == 0 {
			if err := s.ctrl.recordf(KindDepthExceeded, pos, "group nesting exceeds %d", s.opts.MaxDepth); err != nil {
				return err
			}
		}
		s.phantom++
		s.emit(GroupStartEvent{Depth: depth + s.phantom - 1})
		return nil
	}

	child := *s.top()
	child.owner = false
	child.starred = false
	s.stack = append(s.stack, child)
	s.emit(GroupStartEvent{Depth: depth})
	return nil
}

func (s *session) closeGroup(pos int64) error {
	if s.phantom > 0 {
		s.phantom--
		s.emit(GroupEndEvent{Depth: len(s.stack) + s.phantom})
		return nil
	}
	if len(s.stack) <= s.base() {
		return s.ctrl.recordf(KindUnbalancedGroup, pos, "unmatched closing brace")
	}
	return s.popGroup(pos)
}

func (s *session) popGroup(pos int64) error {
	popped := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.emit(GroupEndEvent{Depth: len(s.stack)})

	var err error
	if popped.owner {
		err = s.closeDestination(&popped, pos)
	} else {
		switch popped.dest {
		case destFontTable:
			s.flushFont()
		case destStyleSheet:
			s.flushStyle(popped.style)
		}
	}

	if s.started && !s.implicit && len(s.stack) == 1 {
		s.closed = true
	}
	s.syncDecoder()
	return err
}

// endOfInput closes whatever is still open at end of input.
func (s *session) endOfInput(pos int64) error {
	open := len(s.stack) - s.base() + s.phantom
	if open > 0 {
		if err := s.ctrl.recordf(KindUnterminatedDocument, pos, "%d group(s) not closed", open); err != nil {
			return err
		}
	}
	for ; s.phantom > 0; s.phantom-- {
		s.emit(GroupEndEvent{Depth: len(s.stack) + s.phantom - 1})
	}
	for len(s.stack) > 1 {
		if s.implicit && len(s.stack) == 2 {
			s.stack = s.stack[:1]
			break
		}
		if err := s.popGroup(pos); err != nil {
			return err
		}
	}
	return nil
}

// finalize copies the builder state into the document.
func (s *session) finalize(complete bool) {
	s.flushFont()
	if s.tables.table != nil || len(s.tables.row) > 0 {
		s.sealTable()
	}

	s.doc.Text = s.body.String()
	s.doc.Runs = s.body.Runs()
	s.doc.CodePage = s.docCP

	if s.opts.DetectDocumentType {
		s.doc.Type = classify(s.doc.Metadata.Generator, s.hints)
	}
	if !s.opts.ExtractMetadata {
		s.doc.Metadata = model.Metadata{Custom: make(map[string]string)}
		return
	}
	if complete {
		s.emit(MetadataEvent{Metadata: s.doc.Metadata, DocType: s.doc.Type})
	}
}

// decoder returns a cached decoder, falling back to 1252 for code pages
// without one.
func (s *session) decoder(cp int) *codepage.Decoder {
	if d, ok := s.decoders[cp]; ok {
		return d
	}
	d, err := codepage.New(cp)
	if err != nil {
		s.logger.Debug("code page not supported, using 1252", "codepage", cp)
		d = codepage.Default()
	}
	s.decoders[cp] = d
	return d
}

// syncDecoder points the lexer at the code page of the current scope:
// the font being defined inside the font table, otherwise the current
// font, otherwise the document code page.
func (s *session) syncDecoder() {
	cp := s.docCP
	top := s.top()
	switch top.dest {
	case destFontTable, destFontAlt:
		if s.font != nil && s.font.font.CodePage != 0 {
			cp = s.font.font.CodePage
		}
	default:
		if fcp := s.fontCodePage(top.style.FontIndex); fcp != 0 {
			cp = fcp
		}
	}
	if cp == s.curCP {
		return
	}
	s.lex.SetDecoder(s.decoder(cp))
	s.curCP = cp
}
