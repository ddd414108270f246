package rtf

import (
	"context"

	"github.com/tsawler/rtfkit/model"
	"github.com/tsawler/rtfkit/source"
)

// EventType identifies the kind of an Event
type EventType int

const (
	EventText EventType = iota
	EventGroupStart
	EventGroupEnd
	EventError
	EventFont
	EventColor
	EventBinary
	EventMetadata
	EventProgress
)

func (t EventType) String() string {
	switch t {
	case EventText:
		return "text"
	case EventGroupStart:
		return "group-start"
	case EventGroupEnd:
		return "group-end"
	case EventError:
		return "error"
	case EventFont:
		return "font"
	case EventColor:
		return "color"
	case EventBinary:
		return "binary"
	case EventMetadata:
		return "metadata"
	case EventProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// Event is a parse event. Events are delivered strictly in document order.
type Event interface {
	Type() EventType
}

// TextEvent carries document text with its resolved style.
type TextEvent struct {
	Text  string
	Style model.Style
}

// GroupStartEvent is sent for every opening brace.
type GroupStartEvent struct {
	Depth int
}

// GroupEndEvent is sent for every closing brace, including implicit
// closes at end of input.
type GroupEndEvent struct {
	Depth int
}

// ErrorEvent reports an error as it is recorded.
type ErrorEvent struct {
	Err *ParseError
}

// FontEvent is sent when a font table entry is complete.
type FontEvent struct {
	Font model.Font
}

// ColorEvent is sent for each color table entry.
type ColorEvent struct {
	Color model.Color
}

// BinaryEvent carries a picture, object or \bin payload.
type BinaryEvent struct {
	Kind model.BinaryKind
	Data []byte
}

// MetadataEvent is sent once, after the document is complete.
type MetadataEvent struct {
	Metadata model.Metadata
	DocType  model.DocumentType
}

// ProgressEvent mirrors the progress callback.
type ProgressEvent struct {
	Progress Progress
}

func (TextEvent) Type() EventType       { return EventText }
func (GroupStartEvent) Type() EventType { return EventGroupStart }
func (GroupEndEvent) Type() EventType   { return EventGroupEnd }
func (ErrorEvent) Type() EventType      { return EventError }
func (FontEvent) Type() EventType       { return EventFont }
func (ColorEvent) Type() EventType      { return EventColor }
func (BinaryEvent) Type() EventType     { return EventBinary }
func (MetadataEvent) Type() EventType   { return EventMetadata }
func (ProgressEvent) Type() EventType   { return EventProgress }

// Handler receives parse events.
type Handler interface {
	HandleEvent(Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Event)

// HandleEvent calls f(e).
func (f HandlerFunc) HandleEvent(e Event) {
	f(e)
}

// EventStream is a parse running on its own goroutine.
type EventStream struct {
	events chan Event
	done   chan struct{}
	result *Result
	err    error
}

// DefaultStreamBuffer is the channel capacity used by Stream.
const DefaultStreamBuffer = 64

// Stream parses src on a new goroutine and delivers events over a channel.
// The caller must drain Events, or cancel ctx, for the parse to finish.
// The stream takes ownership of src and closes it.
func Stream(ctx context.Context, src source.Source, opts ParseOptions, options ...Option) *EventStream {
	s := &EventStream{
		events: make(chan Event, DefaultStreamBuffer),
		done:   make(chan struct{}),
	}

	forward := HandlerFunc(func(e Event) {
		select {
		case s.events <- e:
		case <-ctx.Done():
		}
	})

	go func() {
		defer close(s.done)
		defer close(s.events)
		defer src.Close()

		p, err := NewParser(opts, append(options, WithHandler(forward))...)
		if err != nil {
			s.err = err
			return
		}
		s.result, s.err = p.Parse(ctx, src)
	}()

	return s
}

// Events returns the event channel. It is closed when the parse ends.
func (s *EventStream) Events() <-chan Event {
	return s.events
}

// Wait blocks until the parse ends and returns its result.
func (s *EventStream) Wait() (*Result, error) {
	<-s.done
	return s.result, s.err
}
