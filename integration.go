// integration.go connects parsed documents to the OCR engine and the RAG
// chunker
package rtfkit

import (
	"fmt"

	"github.com/tsawler/rtfkit/ocr"
	"github.com/tsawler/rtfkit/rag"
)

// ImageText runs OCR on the raster pictures of the document and returns
// the text found in each. Metafile pictures are skipped. Without the ocr
// build tag it returns ocr.ErrOCRNotEnabled.
//
// Example:
//
//	texts, _, err := rtfkit.Open("scan.rtf").ImageText()
//	for _, pt := range texts {
//	    fmt.Printf("picture %d: %s\n", pt.Index, pt.Text)
//	}
func (e *Extractor) ImageText() ([]ocr.PictureText, []Warning, error) {
	doc, warnings, err := e.document()
	if err != nil {
		return nil, warnings, err
	}
	if len(doc.Images) == 0 {
		return nil, warnings, nil
	}

	client, err := ocr.New()
	if err != nil {
		return nil, warnings, err
	}
	defer client.Close()

	texts, err := client.RecognizePictures(e.options.ctx, doc.Images)
	if err != nil {
		return texts, warnings, fmt.Errorf("failed to recognize pictures: %w", err)
	}
	return texts, warnings, nil
}

// Chunks splits the document into retrieval chunks with the default
// chunker configuration.
//
// Example:
//
//	result, _, err := rtfkit.Open("manual.rtf").Chunks()
//	jsonl, _ := result.ToJSONL()
func (e *Extractor) Chunks() (*rag.ChunkResult, []Warning, error) {
	return e.ChunksWithConfig(rag.DefaultChunkerConfig())
}

// ChunksWithConfig splits the document into retrieval chunks.
func (e *Extractor) ChunksWithConfig(config rag.ChunkerConfig) (*rag.ChunkResult, []Warning, error) {
	doc, warnings, err := e.document()
	if err != nil {
		return nil, warnings, err
	}
	result, err := rag.NewChunkerWithConfig(config).Chunk(doc)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to chunk document: %w", err)
	}
	return result, warnings, nil
}
