package rag

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ExportFormat defines the available export formats
type ExportFormat int

const (
	// ExportFormatJSONL exports as JSON Lines (one JSON object per line)
	ExportFormatJSONL ExportFormat = iota
	// ExportFormatJSON exports as an indented JSON array
	ExportFormatJSON
	// ExportFormatCSV exports as comma-separated values
	ExportFormatCSV
	// ExportFormatTSV exports as tab-separated values
	ExportFormatTSV
)

// String returns a human-readable representation of the export format
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatJSONL:
		return "jsonl"
	case ExportFormatJSON:
		return "json"
	case ExportFormatCSV:
		return "csv"
	case ExportFormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (ef ExportFormat) FileExtension() string {
	if ef.String() == "unknown" {
		return ".txt"
	}
	return "." + ef.String()
}

// csvColumns are the columns of CSV and TSV exports, in order.
var csvColumns = []string{
	"id", "text", "section_path", "section_title", "heading_level",
	"chunk_index", "level", "text_start", "text_end",
	"char_count", "word_count", "estimated_tokens",
}

// Export writes chunks to w in the given format.
func Export(chunks []*Chunk, format ExportFormat, w io.Writer) error {
	switch format {
	case ExportFormatJSONL:
		encoder := json.NewEncoder(w)
		for i, chunk := range chunks {
			if err := encoder.Encode(chunk); err != nil {
				return fmt.Errorf("encoding chunk %d: %w", i, err)
			}
		}
		return nil
	case ExportFormatJSON:
		if chunks == nil {
			chunks = []*Chunk{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(chunks)
	case ExportFormatCSV, ExportFormatTSV:
		return exportCSV(chunks, format, w)
	default:
		return fmt.Errorf("unsupported export format: %d", int(format))
	}
}

// exportCSV exports chunks as CSV or TSV
func exportCSV(chunks []*Chunk, format ExportFormat, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	if format == ExportFormatTSV {
		csvWriter.Comma = '\t'
	}

	if err := csvWriter.Write(csvColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, chunk := range chunks {
		m := chunk.Metadata
		row := []string{
			chunk.ID,
			chunk.Text,
			strings.Join(m.SectionPath, " > "),
			m.SectionTitle,
			strconv.Itoa(m.HeadingLevel),
			strconv.Itoa(m.ChunkIndex),
			m.Level.String(),
			strconv.Itoa(m.TextStart),
			strconv.Itoa(m.TextEnd),
			strconv.Itoa(m.CharCount),
			strconv.Itoa(m.WordCount),
			strconv.Itoa(m.EstimatedTokens),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func (r *ChunkResult) export(format ExportFormat) (string, error) {
	var buf bytes.Buffer
	if err := Export(r.Chunks, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToJSONL exports the chunks as JSON Lines
func (r *ChunkResult) ToJSONL() (string, error) {
	return r.export(ExportFormatJSONL)
}

// ToJSON exports the chunks as a JSON array
func (r *ChunkResult) ToJSON() (string, error) {
	return r.export(ExportFormatJSON)
}

// ToCSV exports the chunks as CSV
func (r *ChunkResult) ToCSV() (string, error) {
	return r.export(ExportFormatCSV)
}

// ToTSV exports the chunks as TSV
func (r *ChunkResult) ToTSV() (string, error) {
	return r.export(ExportFormatTSV)
}
