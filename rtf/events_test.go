package rtf

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/rtfkit/model"
	"github.com/tsawler/rtfkit/source"
)

type recorder struct {
	events []Event
}

func (r *recorder) HandleEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func TestEventOrder(t *testing.T) {
	rec := &recorder{}
	input := `{\rtf1{\fonttbl{\f0 Arial;}}{\colortbl;\red1\green2\blue3;}Hi}`
	res, err := parseWith(t, input, DefaultOptions(), WithHandler(rec))
	require.NoError(t, err)
	assert.Equal(t, Success, res.Outcome)

	want := []EventType{
		EventGroupStart, EventGroupStart, EventGroupStart, EventFont, EventGroupEnd, EventGroupEnd,
		EventGroupStart, EventColor, EventColor, EventGroupEnd,
		EventText, EventGroupEnd, EventMetadata, EventProgress,
	}
	assert.Equal(t, want, rec.types())

	depths := []int{}
	for _, e := range rec.events {
		switch ev := e.(type) {
		case GroupStartEvent:
			depths = append(depths, ev.Depth)
		case GroupEndEvent:
			depths = append(depths, -ev.Depth)
		}
	}
	assert.Equal(t, []int{1, 2, 3, -3, -2, 2, -2, -1}, depths)

	assert.Equal(t, model.Font{Index: 0, Name: "Arial"}, rec.events[3].(FontEvent).Font)
	assert.True(t, rec.events[7].(ColorEvent).Color.Auto)
	assert.Equal(t, model.Color{Index: 1, R: 1, G: 2, B: 3}, rec.events[8].(ColorEvent).Color)
	assert.Equal(t, "Hi", rec.events[10].(TextEvent).Text)
	assert.Equal(t, 1.0, rec.events[13].(ProgressEvent).Progress.Fraction)
}

func TestTextEventsMatchDocument(t *testing.T) {
	input := `{\rtf1 a{\b b}\par\trowd\cellx10\intbl c\cell d\cell\row\pard e\u8364?}`
	rec := &recorder{}
	res, err := parseWith(t, input, DefaultOptions(), WithHandler(rec))
	require.NoError(t, err)

	var sb strings.Builder
	for _, e := range rec.events {
		if te, ok := e.(TextEvent); ok {
			sb.WriteString(te.Text)
		}
	}
	assert.Equal(t, res.Document.Text, sb.String())
}

func TestErrorEvents(t *testing.T) {
	rec := &recorder{}
	res, err := parseWith(t, `{\rtf1 x\u-8704?{y`, DefaultOptions(), WithHandler(rec))
	require.NoError(t, err)

	var errs []*ParseError
	for _, e := range rec.events {
		if ee, ok := e.(ErrorEvent); ok {
			errs = append(errs, ee.Err)
		}
	}
	assert.Equal(t, res.Errors, errs)
	assert.Equal(t, []ErrorKind{KindInvalidEncoding, KindUnterminatedDocument}, kinds(errs))
}

func TestBinaryEvents(t *testing.T) {
	rec := &recorder{}
	_, err := parseWith(t, "{\\rtf1{\\pict\\pngblip 89504e47}{\\object{\\*\\objdata 0102}}\\bin2 \x00\x01}", DefaultOptions(), WithHandler(rec))
	require.NoError(t, err)

	var got []model.BinaryKind
	for _, e := range rec.events {
		if be, ok := e.(BinaryEvent); ok {
			got = append(got, be.Kind)
		}
	}
	assert.Equal(t, []model.BinaryKind{model.BinaryImage, model.BinaryObject, model.BinaryOther}, got)
}

func TestMetadataEvent(t *testing.T) {
	rec := &recorder{}
	_, err := parseWith(t, `{\rtf1{\info{\title T}}{\*\generator Microsoft Word 16;}x}`, DefaultOptions(), WithHandler(rec))
	require.NoError(t, err)

	var got []MetadataEvent
	for _, e := range rec.events {
		if me, ok := e.(MetadataEvent); ok {
			got = append(got, me)
		}
	}
	require.Len(t, got, 1)
	assert.Equal(t, "T", got[0].Metadata.Title)
	assert.Equal(t, model.DocumentTypeWord, got[0].DocType)
	assert.Equal(t, EventMetadata, got[0].Type())
}

func TestProgress(t *testing.T) {
	opts := DefaultOptions()
	opts.ProgressInterval = 16
	input := `{\rtf1 ` + strings.Repeat(`{\b word} `, 20) + `}`

	var reports []Progress
	res, err := parseWith(t, input, opts, WithProgress(func(p Progress) {
		reports = append(reports, p)
	}))
	require.NoError(t, err)
	require.Greater(t, len(reports), 2)

	last := reports[len(reports)-1]
	assert.Equal(t, 1.0, last.Fraction)
	assert.Equal(t, res.BytesProcessed, last.Processed)
	assert.Equal(t, int64(len(input)), last.Total)

	for i, p := range reports[:len(reports)-1] {
		assert.Less(t, p.Fraction, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, p.Fraction, reports[i-1].Fraction)
			assert.Greater(t, p.Processed, reports[i-1].Processed)
		}
	}
}

func TestProgressEveryInterval(t *testing.T) {
	opts := DefaultOptions()
	opts.ProgressInterval = 10
	input := `{\rtf1 ` + strings.Repeat("a", 50) + `}`

	var reports []Progress
	_, err := parseWith(t, input, opts, WithProgress(func(p Progress) {
		reports = append(reports, p)
	}))
	require.NoError(t, err)
	require.Len(t, reports, 6)

	var marks []int64
	for _, p := range reports[:5] {
		marks = append(marks, p.Processed)
		assert.Equal(t, int64(len(input)), p.Total)
	}
	assert.Equal(t, []int64{10, 20, 30, 40, 50}, marks)
	assert.InDelta(t, 10.0/58.0, reports[0].Fraction, 1e-9)

	last := reports[5]
	assert.Equal(t, 1.0, last.Fraction)
	assert.Equal(t, int64(len(input)), last.Processed)
}

func TestProgressUnknownSize(t *testing.T) {
	opts := DefaultOptions()
	opts.ProgressInterval = 8

	var reports []Progress
	_, err := ParseReader(context.Background(), strings.NewReader(`{\rtf1 `+strings.Repeat("abc ", 20)+`}`), opts,
		WithProgress(func(p Progress) { reports = append(reports, p) }))
	require.NoError(t, err)
	require.NotEmpty(t, reports)
	for _, p := range reports[:len(reports)-1] {
		assert.Equal(t, 0.0, p.Fraction)
		assert.Equal(t, int64(-1), p.Total)
	}
	assert.Equal(t, 1.0, reports[len(reports)-1].Fraction)
}

func TestProgressDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ProgressInterval = 0

	called := false
	_, err := parseWith(t, `{\rtf1 x}`, opts, WithProgress(func(Progress) { called = true }))
	require.NoError(t, err)
	assert.False(t, called)
}

func TestStream(t *testing.T) {
	s := Stream(context.Background(), source.FromBytes([]byte(`{\rtf1 a{\b b}}`)), DefaultOptions())

	var text strings.Builder
	count := 0
	for e := range s.Events() {
		count++
		if te, ok := e.(TextEvent); ok {
			text.WriteString(te.Text)
		}
	}
	res, err := s.Wait()
	require.NoError(t, err)
	assert.Equal(t, Success, res.Outcome)
	assert.Equal(t, "ab", text.String())
	assert.Equal(t, res.Document.Text, text.String())
	assert.Greater(t, count, 4)
}

func TestStreamCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := Stream(ctx, source.FromBytes([]byte(`{\rtf1 never}`)), DefaultOptions())
	for range s.Events() {
	}
	res, err := s.Wait()
	require.Error(t, err)
	assert.Equal(t, Canceled, res.Outcome)
}

func TestStreamAbandoned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	input := `{\rtf1 ` + strings.Repeat(`{x}`, 500) + `}`
	s := Stream(ctx, source.FromBytes([]byte(input)), DefaultOptions())

	// read one event, then walk away
	<-s.Events()
	cancel()

	res, err := s.Wait()
	require.Error(t, err)
	assert.Equal(t, Canceled, res.Outcome)
}

func TestStreamInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDepth = 0

	s := Stream(context.Background(), source.FromBytes(nil), opts)
	for range s.Events() {
	}
	res, err := s.Wait()
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "text", EventText.String())
	assert.Equal(t, "progress", EventProgress.String())
	assert.Equal(t, "unknown", EventType(99).String())
}
