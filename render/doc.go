// Package render converts a parsed model.Document to other text formats.
//
// PlainText and Markdown are meant for indexing and LLM pipelines, HTML
// keeps character formatting and tables, and RTF writes a minimal document
// back out. None of them attempt page layout.
package render
