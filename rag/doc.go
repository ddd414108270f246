// Package rag provides chunking of RTF documents for RAG
// (Retrieval-Augmented Generation) workflows.
//
// The [Chunker] splits a document into chunks that follow its structure:
//
//	chunker := rag.NewChunker()
//	result, err := chunker.Chunk(doc)
//
// Headings are detected from font size and weight, and start new
// sections. Tables are kept whole and paragraphs are only split at
// sentence boundaries when they exceed the maximum chunk size.
//
// # Export Formats
//
//   - ToJSONL() - one JSON object per line
//   - ToJSON() - a JSON array
//   - ToCSV() - one row per chunk
package rag
