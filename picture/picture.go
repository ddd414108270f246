// Package picture inspects and converts the pictures embedded in RTF
// documents.
//
// RTF stores pictures as hex or \bin payloads tagged with a format control
// word (\pngblip, \jpegblip, \wmetafile, ...). Writers do not always tag
// them correctly, so Sniff classifies a payload by its leading bytes.
// DecodeConfig and ToPNG handle the raster formats. Metafiles (WMF, EMF and
// PICT) are vector formats and return ErrUnsupportedFormat.
package picture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"

	"github.com/tsawler/rtfkit/model"
)

// ErrUnsupportedFormat is returned for pictures that cannot be rasterized.
var ErrUnsupportedFormat = errors.New("unsupported picture format")

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	gifMagic  = []byte("GIF8")
	tiffLE    = []byte{'I', 'I', 0x2a, 0}
	tiffBE    = []byte{'M', 'M', 0, 0x2a}
	// Aldus placeable metafile key
	wmfPlaceable = []byte{0xd7, 0xcd, 0xc6, 0x9a}
)

const (
	fileHeaderLen = 14
	emfSignature  = 0x464d4520 // " EMF"
)

// Sniff classifies a picture payload by its leading bytes.
func Sniff(data []byte) model.ImageFormat {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return model.ImageFormatPNG
	case bytes.HasPrefix(data, jpegMagic):
		return model.ImageFormatJPEG
	case len(data) >= fileHeaderLen && data[0] == 'B' && data[1] == 'M':
		return model.ImageFormatBMP
	case bytes.HasPrefix(data, wmfPlaceable):
		return model.ImageFormatWMF
	case isEMF(data):
		return model.ImageFormatEMF
	case isWMF(data):
		return model.ImageFormatWMF
	case bytes.HasPrefix(data, gifMagic), bytes.HasPrefix(data, tiffLE), bytes.HasPrefix(data, tiffBE):
		return model.ImageFormatOther
	case isPICT(data):
		return model.ImageFormatPICT
	}
	return model.ImageFormatUnknown
}

// isEMF checks the EMR_HEADER record type and the " EMF" signature at
// offset 40.
func isEMF(data []byte) bool {
	if len(data) < 44 {
		return false
	}
	return binary.LittleEndian.Uint32(data[0:4]) == 1 &&
		binary.LittleEndian.Uint32(data[40:44]) == emfSignature
}

// isWMF checks a standard (non-placeable) METAHEADER.
func isWMF(data []byte) bool {
	if len(data) < 18 {
		return false
	}
	fileType := binary.LittleEndian.Uint16(data[0:2])
	headerSize := binary.LittleEndian.Uint16(data[2:4])
	version := binary.LittleEndian.Uint16(data[4:6])
	return (fileType == 1 || fileType == 2) && headerSize == 9 && (version == 0x0100 || version == 0x0300)
}

// isPICT recognizes the version 2 opcode that follows the picture frame.
// RTF stores PICT data without the 512-byte file header.
func isPICT(data []byte) bool {
	if len(data) < 14 {
		return false
	}
	return bytes.Equal(data[10:14], []byte{0x00, 0x11, 0x02, 0xff})
}

// WrapDIB prepends a BITMAPFILEHEADER to a device-independent bitmap so it
// can be decoded as a BMP file.
func WrapDIB(dib []byte) ([]byte, error) {
	if len(dib) < 16 {
		return nil, fmt.Errorf("DIB too short: %d bytes", len(dib))
	}
	headerSize := binary.LittleEndian.Uint32(dib[0:4])
	if headerSize < 12 || int(headerSize) > len(dib) {
		return nil, fmt.Errorf("invalid DIB header size %d", headerSize)
	}

	paletteSize := 0
	if headerSize >= 40 {
		bitCount := binary.LittleEndian.Uint16(dib[14:16])
		compression := binary.LittleEndian.Uint32(dib[16:20])
		colorsUsed := binary.LittleEndian.Uint32(dib[32:36])
		colors := int(colorsUsed)
		if colors == 0 && bitCount <= 8 {
			colors = 1 << bitCount
		}
		paletteSize = colors * 4
		if headerSize == 40 && compression == 3 {
			paletteSize += 12 // BI_BITFIELDS masks
		}
	}

	offset := fileHeaderLen + int(headerSize) + paletteSize
	out := make([]byte, fileHeaderLen, fileHeaderLen+len(dib))
	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:6], uint32(fileHeaderLen+len(dib)))
	binary.LittleEndian.PutUint32(out[10:14], uint32(offset))
	return append(out, dib...), nil
}

// Bytes returns the picture payload in a self-contained file format. DIB
// payloads get a BMP file header; everything else is returned as stored.
func Bytes(img *model.Image) ([]byte, error) {
	if img.DIB {
		return WrapDIB(img.Data)
	}
	return img.Data, nil
}

// format returns the declared format, sniffing when it is unknown.
func format(img *model.Image) model.ImageFormat {
	if img.DIB {
		return model.ImageFormatBMP
	}
	if img.Format == model.ImageFormatUnknown || img.Format == model.ImageFormatOther {
		return Sniff(img.Data)
	}
	return img.Format
}

// DecodeConfig returns the pixel dimensions of a raster picture.
func DecodeConfig(img *model.Image) (int, int, error) {
	data, err := Bytes(img)
	if err != nil {
		return 0, 0, err
	}

	var cfg image.Config
	switch format(img) {
	case model.ImageFormatPNG:
		cfg, err = png.DecodeConfig(bytes.NewReader(data))
	case model.ImageFormatJPEG:
		cfg, err = jpeg.DecodeConfig(bytes.NewReader(data))
	case model.ImageFormatBMP:
		cfg, err = bmp.DecodeConfig(bytes.NewReader(data))
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format(img))
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode picture header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Decode decodes a raster picture.
func Decode(img *model.Image) (image.Image, error) {
	data, err := Bytes(img)
	if err != nil {
		return nil, err
	}

	var goImg image.Image
	switch format(img) {
	case model.ImageFormatPNG:
		goImg, err = png.Decode(bytes.NewReader(data))
	case model.ImageFormatJPEG:
		goImg, err = jpeg.Decode(bytes.NewReader(data))
	case model.ImageFormatBMP:
		goImg, err = bmp.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format(img))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode picture: %w", err)
	}
	return goImg, nil
}

// ToPNG converts a raster picture to PNG. PNG payloads are returned
// unchanged.
func ToPNG(img *model.Image) ([]byte, error) {
	if !img.DIB && format(img) == model.ImageFormatPNG {
		return img.Data, nil
	}

	goImg, err := Decode(img)
	if err != nil {
		return nil, err
	}

	// Encode as PNG
	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return buf.Bytes(), nil
}
