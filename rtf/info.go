package rtf

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/rtfkit/core"
	"github.com/tsawler/rtfkit/model"
)

// infoWord handles control words directly inside \info.
func (s *session) infoWord(sc *scope, tok *core.Token) bool {
	name := tok.Name
	switch {
	case infoTextFields[name]:
		s.text.Reset()
		sc.field = name
		s.setDest(sc, destInfoText)
		return true
	case infoTimeFields[name]:
		s.time = timeState{}
		sc.field = name
		s.setDest(sc, destInfoTime)
		return true
	}

	md := &s.doc.Metadata
	switch name {
	case "nofwords":
		md.Words = max(tok.ParamOr(0), 0)
	case "nofchars":
		md.Characters = max(tok.ParamOr(0), 0)
	case "nofcharsws":
		md.CharactersWithSpaces = max(tok.ParamOr(0), 0)
	case "nofpages":
		md.Pages = max(tok.ParamOr(0), 0)
	case "version":
		md.Version = tok.ParamOr(0)
	case "edmins":
		md.EditMinutes = max(tok.ParamOr(0), 0)
	case "vern", "id", "hlinkbase":
	case "userprops":
		s.setDest(sc, destUserProps)
	default:
		return false
	}
	return true
}

// timeState collects the components of an info timestamp.
type timeState struct {
	yr, mo, dy, hr, min, sec int
}

func (s *session) timeWord(tok *core.Token) {
	v := tok.ParamOr(0)
	switch tok.Name {
	case "yr":
		s.time.yr = v
	case "mo":
		s.time.mo = v
	case "dy":
		s.time.dy = v
	case "hr":
		s.time.hr = v
	case "min":
		s.time.min = v
	case "sec":
		s.time.sec = v
	}
}

// value returns the timestamp in UTC. A missing year gives the zero time.
func (t timeState) value() time.Time {
	if t.yr <= 0 {
		return time.Time{}
	}
	mo, dy := t.mo, t.dy
	if mo < 1 || mo > 12 {
		mo = 1
	}
	if dy < 1 || dy > 31 {
		dy = 1
	}
	return time.Date(t.yr, time.Month(mo), dy, t.hr, t.min, t.sec, 0, time.UTC)
}

func (s *session) setInfoTime(field string) {
	v := s.time.value()
	switch field {
	case "creatim":
		s.doc.Metadata.Created = v
	case "revtim":
		s.doc.Metadata.Revised = v
	case "printim":
		s.doc.Metadata.Printed = v
	}
}

// setInfoField stores an info text field, bounded to its field size.
func (s *session) setInfoField(field, value string) {
	md := &s.doc.Metadata
	switch field {
	case "title":
		md.Title = normalizeField(value, model.MaxShortField)
	case "author":
		md.Author = normalizeField(value, model.MaxShortField)
	case "subject":
		md.Subject = normalizeField(value, model.MaxShortField)
	case "company":
		md.Company = normalizeField(value, model.MaxShortField)
	case "manager":
		md.Manager = normalizeField(value, model.MaxShortField)
	case "operator":
		md.Operator = normalizeField(value, model.MaxShortField)
	case "category":
		md.Category = normalizeField(value, model.MaxShortField)
	case "keywords":
		md.Keywords = normalizeField(value, model.MaxLongField)
	case "comment", "doccomm":
		md.Comment = normalizeField(value, model.MaxLongField)
	}
}

// normalizeField NFC-normalizes and trims s, then cuts it to at most limit
// bytes without splitting a UTF-8 sequence.
func normalizeField(s string, limit int) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}

// userPropWord handles the children of \userprops.
func (s *session) userPropWord(sc *scope, tok *core.Token) bool {
	switch tok.Name {
	case "propname":
		s.text.Reset()
		s.prop = ""
		s.setDest(sc, destPropName)
	case "staticval":
		s.text.Reset()
		s.setDest(sc, destStaticVal)
	case "proptype", "linkval":
	default:
		return false
	}
	return true
}
