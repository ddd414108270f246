package model

// ImageFormat is the encoding of a \pict payload
type ImageFormat int

const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatJPEG
	ImageFormatPNG
	ImageFormatBMP
	ImageFormatWMF
	ImageFormatEMF
	ImageFormatPICT
	ImageFormatOther
)

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatJPEG:
		return "jpeg"
	case ImageFormatPNG:
		return "png"
	case ImageFormatBMP:
		return "bmp"
	case ImageFormatWMF:
		return "wmf"
	case ImageFormatEMF:
		return "emf"
	case ImageFormatPICT:
		return "pict"
	case ImageFormatOther:
		return "other"
	default:
		return "unknown"
	}
}

// MIMEType returns the media type of the format, or
// application/octet-stream when there is no registered one.
func (f ImageFormat) MIMEType() string {
	switch f {
	case ImageFormatJPEG:
		return "image/jpeg"
	case ImageFormatPNG:
		return "image/png"
	case ImageFormatBMP:
		return "image/bmp"
	case ImageFormatWMF:
		return "image/wmf"
	case ImageFormatEMF:
		return "image/emf"
	case ImageFormatPICT:
		return "image/x-pict"
	default:
		return "application/octet-stream"
	}
}

// Image represents an embedded \pict picture
type Image struct {
	Format ImageFormat
	Data   []byte

	// Width and Height are \picw and \pich: pixels for bitmaps, 0.01 mm
	// for metafiles.
	Width  int
	Height int
	// GoalWidth and GoalHeight are the desired display size in twips.
	GoalWidth  int
	GoalHeight int
	// ScaleX and ScaleY are percentages, 100 when unset.
	ScaleX int
	ScaleY int

	// BitsPerPixel is \wbmbitspixel for bitmaps.
	BitsPerPixel int
	// DIB is set for \dibitmap payloads, which lack a BMP file header.
	DIB bool

	// Offset is the position in Document.Text where the picture appears.
	Offset int
	// AltText is the \*\picprop description, if any.
	AltText string
}

// ObjectKind is how an OLE object is stored
type ObjectKind int

const (
	ObjectEmbedded ObjectKind = iota
	ObjectLink
	ObjectAutoLink
	ObjectSubscriber
	ObjectPublisher
	ObjectICEmbedded
	ObjectHTML
	ObjectOCX
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectLink:
		return "link"
	case ObjectAutoLink:
		return "autolink"
	case ObjectSubscriber:
		return "subscriber"
	case ObjectPublisher:
		return "publisher"
	case ObjectICEmbedded:
		return "icembedded"
	case ObjectHTML:
		return "html"
	case ObjectOCX:
		return "ocx"
	default:
		return "embedded"
	}
}

// Object represents an embedded \object or loose \bin data
type Object struct {
	Kind ObjectKind
	// Class is the \*\objclass name, for example "Excel.Sheet.8".
	Class string
	Name  string
	Data  []byte

	// Width and Height are \objw and \objh in twips.
	Width  int
	Height int

	// Binary classifies the payload for event handlers.
	Binary BinaryKind
	// Offset is the position in Document.Text where the object appears.
	Offset int
}

// BinaryKind classifies binary payloads reported to handlers
type BinaryKind int

const (
	BinaryUnknown BinaryKind = iota
	BinaryImage
	BinaryObject
	BinaryFont
	BinaryOther
)

func (k BinaryKind) String() string {
	switch k {
	case BinaryImage:
		return "image"
	case BinaryObject:
		return "object"
	case BinaryFont:
		return "font"
	case BinaryOther:
		return "other"
	default:
		return "unknown"
	}
}
