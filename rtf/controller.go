package rtf

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tsawler/rtfkit/core"
)

// controller records errors and decides whether the parse continues. It
// also owns progress reporting and cancellation polling.
type controller struct {
	strict   bool
	errs     []*ParseError
	emit     func(Event)
	logger   *slog.Logger
	progress ProgressFunc
	cancel   CancelFunc

	interval   int64
	nextReport int64
	total      int64
}

// record stores err and returns it when the parse must stop.
func (c *controller) record(err *ParseError) error {
	c.errs = append(c.errs, err)
	c.emit(ErrorEvent{Err: err})

	if c.strict || err.Kind.Fatal() {
		c.logger.Debug("parse error", "kind", err.Kind.String(), "pos", err.Pos, "msg", err.Msg)
		return err
	}
	c.logger.Warn("recovered parse error", "kind", err.Kind.String(), "pos", err.Pos, "msg", err.Msg)
	return nil
}

// recordf is record with a formatted message.
func (c *controller) recordf(kind ErrorKind, pos int64, format string, args ...any) error {
	return c.record(newParseError(kind, pos, format, args...))
}

// lexical converts a tokenizer error to a ParseError and records it.
func (c *controller) lexical(err error) error {
	var le *core.Error
	if !errors.As(err, &le) {
		return c.record(&ParseError{Kind: KindIoError, Pos: -1, Msg: err.Error(), Err: err})
	}

	pe := &ParseError{Pos: le.Pos, Msg: le.Msg, Err: le.Cause}
	switch {
	case errors.Is(le.Err, core.ErrMalformedControlWord):
		pe.Kind = KindMalformedControlWord
	case errors.Is(le.Err, core.ErrTruncatedBinary):
		pe.Kind = KindTruncatedBinary
	case errors.Is(le.Err, core.ErrInvalidEncoding):
		pe.Kind = KindInvalidEncoding
	case errors.Is(le.Err, core.ErrBinaryTooLarge):
		pe.Kind = KindAllocationFailure
	default:
		pe.Kind = KindIoError
	}
	return c.record(pe)
}

// canceled polls the context and the cancel callback.
func (c *controller) canceled(ctx context.Context, pos int64) *ParseError {
	if err := ctx.Err(); err != nil {
		return &ParseError{Kind: KindCanceled, Pos: pos, Msg: "context done", Err: err}
	}
	if c.cancel != nil && c.cancel() {
		return &ParseError{Kind: KindCanceled, Pos: pos, Msg: "canceled by callback"}
	}
	return nil
}

// tick reports progress once for every interval boundary passed. A token
// spanning several boundaries yields one report per boundary.
func (c *controller) tick(pos int64) {
	if c.interval <= 0 {
		return
	}
	for c.nextReport <= pos {
		mark := c.nextReport
		c.nextReport += c.interval

		p := Progress{Processed: mark, Total: c.total}
		if c.total > 0 {
			p.Fraction = float64(mark) / float64(c.total)
			if p.Fraction >= 1 {
				p.Fraction = 0.9999
			}
		}
		c.report(p)
	}
}

// finish sends the final report of a completed parse.
func (c *controller) finish(pos int64) {
	if c.interval <= 0 {
		return
	}
	c.report(Progress{Fraction: 1, Processed: pos, Total: c.total})
}

func (c *controller) report(p Progress) {
	if c.progress != nil {
		c.progress(p)
	}
	c.emit(ProgressEvent{Progress: p})
}

// outcome summarizes a parse that ran to the end of input.
func (c *controller) outcome() Outcome {
	if len(c.errs) > 0 {
		return SuccessWithRecoveredErrors
	}
	return Success
}
