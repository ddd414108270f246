// Package rtf parses Rich Text Format documents.
//
// A Parser turns an RTF byte stream into a model.Document: plain text with
// the styled runs that partition it, font and color tables, the stylesheet,
// tables, pictures, OLE objects and the \info metadata. The same parse can
// also be observed as a stream of events through a Handler or Stream.
//
// Basic usage:
//
//	res, err := rtf.ParseBytes(ctx, data, rtf.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Document.Text)
//
// In the default tolerant mode malformed input is repaired and each problem
// is recorded in Result.Errors; the outcome is then
// SuccessWithRecoveredErrors. StrictOptions stops at the first error.
//
// Parsers are safe for concurrent use. Each call to Parse runs on its own
// session and the returned Document is never modified afterwards.
package rtf
