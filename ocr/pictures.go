package ocr

import (
	"context"
	"errors"

	"github.com/tsawler/rtfkit/model"
	"github.com/tsawler/rtfkit/picture"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes, numbered as in Tesseract.
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// PictureText is the text recognized in one document picture.
type PictureText struct {
	// Index is the position of the picture in Document.Images.
	Index int
	Text  string
}

// RecognizePictures performs OCR on each raster picture in imgs.
// Metafiles are skipped. Pictures with no recognized text are left out of
// the result.
func (c *Client) RecognizePictures(ctx context.Context, imgs []*model.Image) ([]PictureText, error) {
	var out []PictureText
	for i, img := range imgs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		text, err := c.RecognizePicture(img)
		if errors.Is(err, picture.ErrUnsupportedFormat) {
			continue
		}
		if err != nil {
			return out, err
		}
		if text != "" {
			out = append(out, PictureText{Index: i, Text: text})
		}
	}
	return out, nil
}
