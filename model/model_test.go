package model

import (
	"strings"
	"testing"
)

// ============================================================================
// Document Tests
// ============================================================================

func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	if doc.Runs == nil {
		t.Error("NewDocument() should initialize Runs")
	}
	if doc.Metadata.Custom == nil {
		t.Error("NewDocument() should initialize Metadata.Custom")
	}
	if doc.DefaultFont != -1 {
		t.Errorf("DefaultFont = %d, want -1", doc.DefaultFont)
	}
	if doc.CodePage != 1252 {
		t.Errorf("CodePage = %d, want 1252", doc.CodePage)
	}
	if doc.Type != DocumentTypeUnknown {
		t.Errorf("Type = %v, want Unknown", doc.Type)
	}
}

func TestDocumentRunText(t *testing.T) {
	doc := NewDocument()
	doc.Text = "Hello bold"
	doc.Runs = []Run{
		{Start: 0, End: 6, Style: DefaultStyle()},
		{Start: 6, End: 10, Style: Style{Bold: true, FontIndex: -1, ForeColor: -1, BackColor: -1, Highlight: -1}},
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "Hello "},
		{1, "bold"},
		{2, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		if got := doc.RunText(tt.index); got != tt.want {
			t.Errorf("RunText(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestDocumentFont(t *testing.T) {
	doc := NewDocument()
	doc.Fonts = []Font{
		{Index: 0, Name: "Times New Roman", Family: FamilyRoman},
		{Index: 3, Name: "Arial", Family: FamilySwiss},
	}
	doc.DefaultFont = 0

	t.Run("by index", func(t *testing.T) {
		f, ok := doc.Font(3)
		if !ok || f.Name != "Arial" {
			t.Errorf("Font(3) = %+v, %v", f, ok)
		}
	})

	t.Run("missing", func(t *testing.T) {
		f, ok := doc.Font(1)
		if ok || f.Index != -1 {
			t.Errorf("Font(1) = %+v, %v; want default, false", f, ok)
		}
	})

	t.Run("style falls back to default font", func(t *testing.T) {
		f, ok := doc.FontFor(DefaultStyle())
		if !ok || f.Name != "Times New Roman" {
			t.Errorf("FontFor() = %+v, %v", f, ok)
		}
	})

	t.Run("style font", func(t *testing.T) {
		s := DefaultStyle()
		s.FontIndex = 3
		f, _ := doc.FontFor(s)
		if f.Name != "Arial" {
			t.Errorf("FontFor() = %q, want Arial", f.Name)
		}
	})
}

func TestDocumentColor(t *testing.T) {
	doc := NewDocument()
	doc.Colors = []Color{
		{Index: 0, Auto: true},
		{Index: 1, R: 255},
	}

	c, ok := doc.Color(1)
	if !ok || c.R != 255 || c.Auto {
		t.Errorf("Color(1) = %+v, %v", c, ok)
	}

	c, ok = doc.Color(5)
	if ok || !c.Auto {
		t.Errorf("Color(5) = %+v, %v; want auto, false", c, ok)
	}
}

func TestDocumentCounts(t *testing.T) {
	doc := NewDocument()
	doc.Tables = []*Table{NewTable(1, 1), NewTable(2, 2)}
	doc.Images = []*Image{{Format: ImageFormatPNG}}

	if doc.TableCount() != 2 {
		t.Errorf("TableCount() = %d, want 2", doc.TableCount())
	}
	if doc.ImageCount() != 1 {
		t.Errorf("ImageCount() = %d, want 1", doc.ImageCount())
	}
	if len(doc.ExtractTables()) != 2 {
		t.Error("ExtractTables() should return all tables")
	}
}

func TestDocumentParagraphs(t *testing.T) {
	doc := NewDocument()
	doc.Text = "First\n\n  \nSecond\nThird"

	paras := doc.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("Paragraphs() returned %d items, want 3: %q", len(paras), paras)
	}
	if paras[1] != "Second" {
		t.Errorf("paras[1] = %q, want Second", paras[1])
	}
}

func TestDocumentTypeString(t *testing.T) {
	tests := []struct {
		dt   DocumentType
		want string
	}{
		{DocumentTypeUnknown, "Unknown"},
		{DocumentTypeWord, "Microsoft Word"},
		{DocumentTypeWordPad, "WordPad"},
		{DocumentTypeApplePages, "Apple"},
		{DocumentTypeLibreOffice, "LibreOffice"},
		{DocumentType(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.dt.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Style Tests
// ============================================================================

func TestDefaultStyle(t *testing.T) {
	s := DefaultStyle()

	if s.FontIndex != -1 || s.ForeColor != -1 || s.BackColor != -1 || s.Highlight != -1 {
		t.Errorf("DefaultStyle() = %+v, want -1 indices", s)
	}
	if s.FontSize != 0 {
		t.Errorf("FontSize = %d, want 0", s.FontSize)
	}
	if !s.IsPlain() {
		t.Error("DefaultStyle() should be plain")
	}
}

func TestStyleComparable(t *testing.T) {
	a := DefaultStyle()
	b := DefaultStyle()
	if a != b {
		t.Error("equal styles should compare equal")
	}

	b.Bold = true
	if a == b {
		t.Error("styles differing in Bold should not compare equal")
	}
	if b.IsPlain() {
		t.Error("bold style should not be plain")
	}
}

func TestStylePointSize(t *testing.T) {
	s := DefaultStyle()
	s.FontSize = 24
	if s.PointSize() != 12 {
		t.Errorf("PointSize() = %v, want 12", s.PointSize())
	}
}

func TestRunLen(t *testing.T) {
	r := Run{Start: 4, End: 10}
	if r.Len() != 6 {
		t.Errorf("Len() = %d, want 6", r.Len())
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  string
	}{
		{"red", Color{R: 255}, "#ff0000"},
		{"mixed", Color{R: 0x12, G: 0xab, B: 0x0c}, "#12ab0c"},
		{"auto", Color{Auto: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.Hex(); got != tt.want {
				t.Errorf("Hex() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	if UnderlineDouble.String() != "double" {
		t.Errorf("UnderlineDouble = %q", UnderlineDouble.String())
	}
	if FamilySwiss.String() != "swiss" {
		t.Errorf("FamilySwiss = %q", FamilySwiss.String())
	}
	if ObjectLink.String() != "link" {
		t.Errorf("ObjectLink = %q", ObjectLink.String())
	}
	if BinaryImage.String() != "image" {
		t.Errorf("BinaryImage = %q", BinaryImage.String())
	}
}

// ============================================================================
// Image Tests
// ============================================================================

func TestImageFormat(t *testing.T) {
	tests := []struct {
		format ImageFormat
		name   string
		mime   string
	}{
		{ImageFormatPNG, "png", "image/png"},
		{ImageFormatJPEG, "jpeg", "image/jpeg"},
		{ImageFormatEMF, "emf", "image/emf"},
		{ImageFormatPICT, "pict", "image/x-pict"},
		{ImageFormatUnknown, "unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.format.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.format.String(), tt.name)
			}
			if tt.format.MIMEType() != tt.mime {
				t.Errorf("MIMEType() = %q, want %q", tt.format.MIMEType(), tt.mime)
			}
		})
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func TestNewTable(t *testing.T) {
	table := NewTable(3, 4)

	if table.RowCount() != 3 {
		t.Errorf("RowCount() = %d, want 3", table.RowCount())
	}
	if table.ColCount() != 4 {
		t.Errorf("ColCount() = %d, want 4", table.ColCount())
	}
}

func TestTableGetText(t *testing.T) {
	table := NewTable(2, 2)
	table.SetCell(0, 0, Cell{Text: "A1"})
	table.SetCell(0, 1, Cell{Text: "B1"})
	table.SetCell(1, 0, Cell{Text: "A2"})
	table.SetCell(1, 1, Cell{Text: "B2"})

	want := "A1\tB1\nA2\tB2\n"
	if got := table.GetText(); got != want {
		t.Errorf("GetText() = %q, want %q", got, want)
	}
}

func TestTableRowColCount(t *testing.T) {
	t.Run("ragged table", func(t *testing.T) {
		table := &Table{}
		table.AddRow([]Cell{{Text: "a"}})
		table.AddRow([]Cell{{Text: "b"}, {Text: "c"}, {Text: "d"}})
		if table.RowCount() != 2 {
			t.Errorf("RowCount() = %d, want 2", table.RowCount())
		}
		if table.ColCount() != 3 {
			t.Errorf("ColCount() = %d, want 3", table.ColCount())
		}
	})

	t.Run("empty table", func(t *testing.T) {
		table := &Table{}
		if table.RowCount() != 0 {
			t.Errorf("empty table RowCount() = %d, want 0", table.RowCount())
		}
		if table.ColCount() != 0 {
			t.Errorf("empty table ColCount() = %d, want 0", table.ColCount())
		}
	})
}

func TestTableGetCell(t *testing.T) {
	table := NewTable(2, 2)
	table.SetCell(0, 0, Cell{Text: "Test"})

	t.Run("valid cell", func(t *testing.T) {
		cell := table.GetCell(0, 0)
		if cell == nil || cell.Text != "Test" {
			t.Error("GetCell(0,0) should return the cell")
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		if table.GetCell(10, 0) != nil || table.GetCell(0, 10) != nil {
			t.Error("out of bounds GetCell should return nil")
		}
	})

	t.Run("negative indices", func(t *testing.T) {
		if table.GetCell(-1, 0) != nil || table.GetCell(0, -1) != nil {
			t.Error("negative indices should return nil")
		}
	})
}

func TestTableSetCell(t *testing.T) {
	table := NewTable(2, 2)

	if err := table.SetCell(0, 0, Cell{Text: "New"}); err != nil {
		t.Errorf("SetCell() error = %v", err)
	}
	if table.GetCell(0, 0).Text != "New" {
		t.Error("cell text not updated")
	}
	if err := table.SetCell(10, 0, Cell{}); err == nil {
		t.Error("SetCell() should return error for invalid row")
	}
	if err := table.SetCell(0, 10, Cell{}); err == nil {
		t.Error("SetCell() should return error for invalid col")
	}
}

func TestTableToMarkdown(t *testing.T) {
	table := NewTable(2, 2)
	table.SetCell(0, 0, Cell{Text: "Header1"})
	table.SetCell(0, 1, Cell{Text: "Header2"})
	table.SetCell(1, 0, Cell{Text: "a|b"})
	table.SetCell(1, 1, Cell{Text: "line1\nline2"})

	want := "| Header1 | Header2 |\n" +
		"|---|---|\n" +
		"| a\\|b | line1 line2 |\n"
	if got := table.ToMarkdown(); got != want {
		t.Errorf("ToMarkdown() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableToMarkdown_Ragged(t *testing.T) {
	table := &Table{}
	table.AddRow([]Cell{{Text: "A"}, {Text: "B"}})
	table.AddRow([]Cell{{Text: "C"}})

	md := table.ToMarkdown()
	if !strings.Contains(md, "| C |  |") {
		t.Errorf("short rows should be padded, got:\n%s", md)
	}
}

func TestTableToMarkdown_Empty(t *testing.T) {
	table := &Table{}
	if md := table.ToMarkdown(); md != "" {
		t.Error("empty table should produce empty markdown")
	}
}

func TestTableToCSV(t *testing.T) {
	table := NewTable(2, 2)
	table.SetCell(0, 0, Cell{Text: "A1"})
	table.SetCell(0, 1, Cell{Text: "B1"})
	table.SetCell(1, 0, Cell{Text: "A2"})
	table.SetCell(1, 1, Cell{Text: "B2"})

	csv := table.ToCSV()

	if !strings.Contains(csv, "A1,B1") {
		t.Error("CSV should contain first row")
	}
	if !strings.Contains(csv, "A2,B2") {
		t.Error("CSV should contain second row")
	}
}

func TestTableToCSV_SpecialChars(t *testing.T) {
	table := NewTable(1, 2)
	table.SetCell(0, 0, Cell{Text: "Hello, World"}) // Contains comma
	table.SetCell(0, 1, Cell{Text: `Say "Hi"`})     // Contains quotes

	csv := table.ToCSV()

	if !strings.Contains(csv, `"Hello, World"`) {
		t.Error("CSV should quote cells with commas")
	}
	if !strings.Contains(csv, `"Say ""Hi"""`) {
		t.Error("CSV should escape quotes")
	}
}

func TestCellWidthInches(t *testing.T) {
	c := Cell{Width: 2880}
	if c.WidthInches() != 2 {
		t.Errorf("WidthInches() = %v, want 2", c.WidthInches())
	}
}
