// Package model provides the document representation produced by the RTF
// parser.
//
// # Document Structure
//
// A [Document] holds a single UTF-8 text buffer and a list of [Run] values
// that partition it. Each run carries the resolved character [Style] for its
// span:
//
//	for i, run := range doc.Runs {
//	    fmt.Println(doc.RunText(i), run.Style.Bold)
//	}
//
// Runs are contiguous and in order, so the sum of run lengths always equals
// len(doc.Text).
//
// # Tables
//
// Table text stays in the main buffer (cells separated by tabs, rows ended
// by newlines) and is also captured per cell in [Table]:
//
//   - Rows of [Cell] values with widths in twips
//   - Export methods: ToMarkdown() and ToCSV()
//
// # Embedded Content
//
// Pictures become [Image] values and OLE objects become [Object] values.
// The font table, color table and stylesheet are available as [Font],
// [Color] and [StyleSheetEntry] slices, and the \info group is reported as
// [Metadata].
//
// A Document returned by the parser is complete and is never modified
// afterwards.
package model
