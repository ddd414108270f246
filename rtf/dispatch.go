package rtf

import (
	"github.com/tsawler/rtfkit/codepage"
	"github.com/tsawler/rtfkit/core"
	"github.com/tsawler/rtfkit/model"
)

// setDest switches sc to d and marks sc as the group that owns it.
func (s *session) setDest(sc *scope, d destination) {
	sc.dest = d
	sc.owner = true
}

func (s *session) controlWord(tok *core.Token) error {
	sc := s.top()
	name := tok.Name
	s.hints.observe(name)

	if sc.starred {
		sc.starred = false
		if !starredKnown[name] && !infoTextFields[name] {
			s.setDest(sc, destSkip)
			return nil
		}
	}

	switch sc.dest {
	case destSkip:
		return nil
	case destFontTable, destFontAlt:
		if s.fontWord(sc, tok) {
			return nil
		}
	case destColorTable:
		if s.colorWord(tok) {
			return nil
		}
	case destStyleSheet:
		if s.styleWord(sc, tok) {
			return nil
		}
	case destInfo:
		if s.infoWord(sc, tok) {
			return nil
		}
	case destInfoTime:
		s.timeWord(tok)
		return nil
	case destUserProps:
		if s.userPropWord(sc, tok) {
			return nil
		}
	case destPict:
		s.pictWord(tok)
		return nil
	case destObject:
		if s.objectWord(sc, tok) {
			return nil
		}
	case destUpr:
		if name == "ud" {
			sc.dest = sc.uprParent
			return nil
		}
		// the ANSI branch of \upr is dropped
		s.setDest(sc, destSkip)
		return nil
	}

	// Character producing words work in every text destination.
	switch name {
	case "u":
		if tok.HasParam {
			return s.unicode(sc, tok)
		}
		return nil
	case "uc":
		sc.uc = max(tok.ParamOr(1), 0)
		return nil
	}
	if ch, ok := specialChars[name]; ok {
		return s.emitText(ch)
	}

	if sc.dest != destBody {
		if name == "upr" {
			s.openDestination(sc, destUpr, tok.Pos)
			return nil
		}
		if skippedDestinations[name] {
			s.setDest(sc, destSkip)
		}
		return nil
	}
	return s.bodyWord(sc, tok)
}

// bodyWord handles control words in document text.
func (s *session) bodyWord(sc *scope, tok *core.Token) error {
	name := tok.Name

	if d, ok := bodyDestinations[name]; ok {
		s.openDestination(sc, d, tok.Pos)
		return nil
	}
	if skippedDestinations[name] {
		s.setDest(sc, destSkip)
		return nil
	}
	if applyFormatting(&sc.style, name, tok.HasParam, tok.Param) {
		if name == "f" || name == "plain" {
			s.syncDecoder()
		}
		return nil
	}
	if s.tableWord(sc, tok) {
		return nil
	}

	switch name {
	case "rtf":
		s.doc.Metadata.RTFVersion = tok.ParamOr(1)
	case "ansi":
		s.setCodePage(codepage.ANSI)
	case "mac":
		s.setCodePage(10000)
	case "pc":
		s.setCodePage(437)
	case "pca":
		s.setCodePage(850)
	case "ansicpg":
		if tok.HasParam && tok.Param > 0 {
			s.setCodePage(tok.Param)
		}
	case "deff":
		s.doc.DefaultFont = tok.ParamOr(0)
		s.syncDecoder()
	case "fromhtml":
		s.doc.Metadata.FromHTML = true
	case "fromtext":
		s.doc.Metadata.FromText = true
	}
	return nil
}

func (s *session) setCodePage(cp int) {
	s.docCP = cp
	s.syncDecoder()
}

func (s *session) openDestination(sc *scope, d destination, pos int64) {
	switch d {
	case destFontTable:
		s.font = nil
	case destColorTable:
		s.color = colorState{}
	case destStyleSheet:
		s.style = nil
	case destGenerator:
		s.text.Reset()
	case destPict:
		s.pict = &pictState{img: model.Image{ScaleX: 100, ScaleY: 100, Offset: s.body.Len()}}
	case destObject:
		s.object = &objectState{obj: model.Object{Binary: model.BinaryObject, Offset: s.body.Len()}}
	case destUpr:
		sc.uprParent = sc.dest
	}
	s.setDest(sc, d)
	s.syncDecoder()
}

// closeDestination finishes the destination owned by a popped group.
func (s *session) closeDestination(sc *scope, pos int64) error {
	switch sc.dest {
	case destFontTable:
		s.flushFont()
	case destFontAlt:
		if s.font != nil {
			s.font.font.AltName = trimEntry(s.text.String())
		}
	case destColorTable:
		s.flushColor(true)
	case destStyleSheet:
		s.flushStyle(sc.style)
	case destInfoText:
		s.setInfoField(sc.field, s.text.String())
	case destInfoTime:
		s.setInfoTime(sc.field)
	case destGenerator:
		s.doc.Metadata.Generator = trimEntry(s.text.String())
	case destPropName:
		s.prop = trimEntry(s.text.String())
	case destStaticVal:
		if s.prop != "" {
			s.doc.Metadata.Custom[s.prop] = normalizeField(s.text.String(), model.MaxLongField)
		}
	case destPict:
		return s.finishPict(pos)
	case destObject:
		return s.finishObject()
	case destObjClass:
		if s.object != nil {
			s.object.obj.Class = trimEntry(s.text.String())
		}
	case destObjName:
		if s.object != nil {
			s.object.obj.Name = trimEntry(s.text.String())
		}
	case destObjData:
		return s.finishObjData(pos)
	}
	return nil
}

func (s *session) controlSymbol(tok *core.Token) error {
	sc := s.top()
	if sc.dest == destSkip {
		return nil
	}
	if tok.Symbol == '*' {
		sc.starred = true
		return nil
	}
	if ch, ok := specialSymbols[tok.Symbol]; ok {
		return s.emitText(ch)
	}
	return nil
}

func (s *session) textToken(tok *core.Token) error {
	sc := s.top()
	if sc.starred {
		// \* followed by text, as in {\*;}; nothing to skip
		sc.starred = false
	}
	switch sc.dest {
	case destSkip:
		return nil
	case destPict:
		return s.pictHex(tok.Raw, tok.Pos)
	case destObjData:
		return s.objectHex(tok.Raw, tok.Pos)
	}
	return s.emitText(tok.Text)
}

// emitText sends decoded text to the sink of the current destination.
func (s *session) emitText(text string) error {
	if text == "" {
		return nil
	}
	sc := s.top()
	switch sc.dest {
	case destBody:
		s.emitBody(sc, text)
	case destFontTable, destFontAlt:
		s.fontText(sc, text)
	case destColorTable:
		s.colorText(text)
	case destStyleSheet:
		s.styleText(sc, text)
	case destInfoText, destGenerator, destObjClass, destObjName, destPropName, destStaticVal:
		s.text.WriteString(text)
	}
	return nil
}

func (s *session) binary(tok *core.Token) error {
	sc := s.top()
	switch sc.dest {
	case destSkip:
		return nil
	case destPict:
		if s.pict != nil {
			s.pict.data = tok.Raw
			s.pict.binary = true
		}
	case destObjData, destObject:
		if s.object != nil {
			s.object.obj.Data = tok.Raw
			s.object.binary = true
		}
	case destFontTable:
		s.emit(BinaryEvent{Kind: model.BinaryFont, Data: tok.Raw})
	case destBody:
		if len(tok.Raw) == 0 {
			return nil
		}
		s.doc.Objects = append(s.doc.Objects, &model.Object{
			Binary: model.BinaryOther,
			Data:   tok.Raw,
			Offset: s.body.Len(),
		})
		s.emit(BinaryEvent{Kind: model.BinaryOther, Data: tok.Raw})
	}
	return nil
}

// unicode emits the character of \uN and arranges for its fallback text
// to be skipped.
func (s *session) unicode(sc *scope, tok *core.Token) error {
	r := codepage.FromUnicodeParam(tok.Param)
	s.lex.SkipFallback(sc.uc)

	switch {
	case codepage.IsHighSurrogate(r):
		if err := s.flushSurrogate(); err != nil {
			return err
		}
		s.pendingHigh = r
		s.pendingHighPos = tok.Pos
		return nil
	case codepage.IsLowSurrogate(r):
		if s.pendingHigh == 0 {
			if err := s.ctrl.recordf(KindInvalidEncoding, tok.Pos, "unpaired low surrogate U+%04X", r); err != nil {
				return err
			}
			return s.emitText(string(rune(0xFFFD)))
		}
		hi := s.pendingHigh
		s.pendingHigh = 0
		c, ok := codepage.Combine(hi, r)
		if !ok {
			if err := s.ctrl.recordf(KindInvalidEncoding, tok.Pos, "invalid surrogate pair"); err != nil {
				return err
			}
		}
		return s.emitText(string(c))
	}

	if err := s.flushSurrogate(); err != nil {
		return err
	}
	return s.emitText(string(r))
}

// flushSurrogate resolves a high surrogate that was not followed by a low
// one.
func (s *session) flushSurrogate() error {
	if s.pendingHigh == 0 {
		return nil
	}
	s.pendingHigh = 0
	if err := s.ctrl.recordf(KindInvalidEncoding, s.pendingHighPos, "unpaired high surrogate"); err != nil {
		return err
	}
	return s.emitText(string(rune(0xFFFD)))
}
