package rtf

import (
	"bytes"

	"github.com/tsawler/rtfkit/core"
	"github.com/tsawler/rtfkit/internal/filters"
	"github.com/tsawler/rtfkit/model"
	"github.com/tsawler/rtfkit/picture"
)

// pictState is the \pict group being read.
type pictState struct {
	img    model.Image
	hex    bytes.Buffer
	data   []byte
	binary bool
}

var blipFormats = map[string]model.ImageFormat{
	"pngblip":    model.ImageFormatPNG,
	"jpegblip":   model.ImageFormatJPEG,
	"emfblip":    model.ImageFormatEMF,
	"wmetafile":  model.ImageFormatWMF,
	"macpict":    model.ImageFormatPICT,
	"dibitmap":   model.ImageFormatBMP,
	"wbitmap":    model.ImageFormatOther,
	"pmmetafile": model.ImageFormatOther,
}

func (s *session) pictWord(tok *core.Token) {
	if s.pict == nil {
		return
	}
	img := &s.pict.img
	if f, ok := blipFormats[tok.Name]; ok {
		img.Format = f
		img.DIB = tok.Name == "dibitmap"
		return
	}

	v := tok.ParamOr(0)
	switch tok.Name {
	case "picw":
		img.Width = v
	case "pich":
		img.Height = v
	case "picwgoal":
		img.GoalWidth = v
	case "pichgoal":
		img.GoalHeight = v
	case "picscalex":
		img.ScaleX = v
	case "picscaley":
		img.ScaleY = v
	case "wbmbitspixel":
		img.BitsPerPixel = v
	}
}

// appendHex adds hex payload text to buf, failing when the decoded size
// would pass the binary limit.
func (s *session) appendHex(buf *bytes.Buffer, raw []byte, pos int64) error {
	if int64(buf.Len()+len(raw)) > 2*s.opts.MaxBinarySize {
		return s.ctrl.recordf(KindAllocationFailure, pos, "hex payload exceeds %d bytes", s.opts.MaxBinarySize)
	}
	buf.Write(raw)
	return nil
}

func (s *session) pictHex(raw []byte, pos int64) error {
	if s.pict == nil || s.pict.binary {
		return nil
	}
	return s.appendHex(&s.pict.hex, raw, pos)
}

// decodeHex decodes a hex payload, recording bad digits as an encoding
// error.
func (s *session) decodeHex(hex []byte, pos int64) ([]byte, error) {
	data, err := filters.HexDecode(hex)
	if err != nil {
		if rerr := s.ctrl.recordf(KindInvalidEncoding, pos, "%v", err); rerr != nil {
			return nil, rerr
		}
	}
	return data, nil
}

// finishPict adds the picture of a closed \pict group to the document.
func (s *session) finishPict(pos int64) error {
	p := s.pict
	s.pict = nil
	if p == nil {
		return nil
	}

	img := p.img
	if p.binary {
		img.Data = p.data
	} else {
		data, err := s.decodeHex(p.hex.Bytes(), pos)
		if err != nil {
			return err
		}
		img.Data = data
	}
	if len(img.Data) == 0 {
		s.logger.Debug("empty picture dropped", "pos", pos)
		return nil
	}
	if img.Format == model.ImageFormatUnknown || (img.Format == model.ImageFormatOther && !img.DIB) {
		if f := picture.Sniff(img.Data); f != model.ImageFormatUnknown {
			img.Format = f
		}
	}

	s.doc.Images = append(s.doc.Images, &img)
	s.doc.Metadata.HasPictures = true
	s.emit(BinaryEvent{Kind: model.BinaryImage, Data: img.Data})
	return nil
}

// objectState is the \object group being read.
type objectState struct {
	obj    model.Object
	hex    bytes.Buffer
	binary bool
}

var objectKinds = map[string]model.ObjectKind{
	"objemb":     model.ObjectEmbedded,
	"objlink":    model.ObjectLink,
	"objautlink": model.ObjectAutoLink,
	"objsub":     model.ObjectSubscriber,
	"objpub":     model.ObjectPublisher,
	"objicemb":   model.ObjectICEmbedded,
	"objhtml":    model.ObjectHTML,
	"objocx":     model.ObjectOCX,
}

func (s *session) objectWord(sc *scope, tok *core.Token) bool {
	if s.object == nil {
		return false
	}
	if k, ok := objectKinds[tok.Name]; ok {
		s.object.obj.Kind = k
		return true
	}

	switch tok.Name {
	case "objw":
		s.object.obj.Width = tok.ParamOr(0)
	case "objh":
		s.object.obj.Height = tok.ParamOr(0)
	case "objclass":
		s.text.Reset()
		s.setDest(sc, destObjClass)
	case "objname":
		s.text.Reset()
		s.setDest(sc, destObjName)
	case "objdata":
		s.object.hex.Reset()
		s.setDest(sc, destObjData)
	case "result":
		// the result group holds the rendered fallback as document content
		sc.dest = destBody
		sc.owner = false
	case "objsetsize", "objalign", "objtransy", "objcropl", "objcropr", "objcropt", "objcropb",
		"objscalex", "objscaley", "rsltrtf", "rslttxt", "rsltpict", "rsltbmp", "rslthtml", "rsltmerge":
	default:
		return false
	}
	return true
}

func (s *session) objectHex(raw []byte, pos int64) error {
	if s.object == nil || s.object.binary {
		return nil
	}
	return s.appendHex(&s.object.hex, raw, pos)
}

// finishObjData decodes the payload of a closed \objdata group.
func (s *session) finishObjData(pos int64) error {
	o := s.object
	if o == nil || o.binary {
		return nil
	}
	data, err := s.decodeHex(o.hex.Bytes(), pos)
	if err != nil {
		return err
	}
	o.obj.Data = data
	o.hex.Reset()
	return nil
}

// finishObject adds the object of a closed \object group to the document.
func (s *session) finishObject() error {
	o := s.object
	s.object = nil
	if o == nil {
		return nil
	}
	obj := o.obj
	s.doc.Objects = append(s.doc.Objects, &obj)
	s.doc.Metadata.HasObjects = true
	s.emit(BinaryEvent{Kind: model.BinaryObject, Data: obj.Data})
	return nil
}
