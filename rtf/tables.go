package rtf

import (
	"github.com/tsawler/rtfkit/core"
	"github.com/tsawler/rtfkit/model"
)

// tableState tracks the table being built from \trowd ... \row sequences.
// Cell text goes to the document text as well as to the cell.
type tableState struct {
	cellx []int
	left  int

	table *model.Table
	row   []model.Cell
	cell  builder

	// pendingSep is written before the next table text: tabs between cells
	// and, for nested rows, a newline.
	pendingSep    string
	pendingInCell bool
}

// open reports whether a table has been started and not sealed.
func (t *tableState) open() bool {
	return t.table != nil || len(t.row) > 0 || t.cell.Len() > 0
}

func (s *session) tableWord(sc *scope, tok *core.Token) bool {
	t := &s.tables
	switch tok.Name {
	case "pard":
		sc.inTable = false
		sc.nest = 0
	case "intbl":
		sc.inTable = true
		sc.nest = max(sc.nest, 1)
	case "itap":
		sc.nest = max(tok.ParamOr(1), 0)
		sc.inTable = sc.nest > 0
	case "trowd":
		t.cellx = t.cellx[:0]
		t.left = 0
		sc.inTable = true
		sc.nest = max(sc.nest, 1)
	case "trleft":
		t.left = tok.ParamOr(0)
	case "cellx":
		t.cellx = append(t.cellx, tok.ParamOr(0))
	case "cell":
		s.startTable()
		t.row = append(t.row, model.Cell{Text: t.cell.String(), Runs: t.cell.Runs()})
		t.cell = builder{}
		if t.pendingInCell {
			// a nested row left open by \nestcell
			t.pendingSep = ""
		}
		t.pendingSep += "\t"
		t.pendingInCell = false
	case "row":
		s.endRow()
		t.pendingSep = ""
		t.pendingInCell = false
		s.bodyText("\n", sc.style)
	case "nestcell":
		t.pendingSep += "\t"
		t.pendingInCell = true
	case "nestrow":
		t.pendingSep = "\n"
		t.pendingInCell = true
	case "rtlch", "ltrch", "trgaph", "trql", "trqr", "trqc", "trrh", "trkeep", "trhdr",
		"clvmgf", "clvmrg", "clmgf", "clmrg", "lastrow":
	default:
		return false
	}
	return true
}

func (s *session) startTable() {
	if s.tables.table == nil {
		s.tables.table = &model.Table{Start: s.body.Len()}
	}
}

// endRow seals the current row and computes the cell widths from the
// \cellx boundaries.
func (s *session) endRow() {
	t := &s.tables
	s.startTable()
	if t.cell.Len() > 0 {
		t.row = append(t.row, model.Cell{Text: t.cell.String(), Runs: t.cell.Runs()})
		t.cell = builder{}
	}
	if len(t.row) == 0 {
		return
	}

	prev := t.left
	for i := range t.row {
		if i >= len(t.cellx) {
			break
		}
		t.row[i].Right = t.cellx[i]
		t.row[i].Width = max(t.cellx[i]-prev, 0)
		prev = t.cellx[i]
	}
	t.table.AddRow(t.row)
	t.row = nil
}

// sealTable adds the open table to the document.
func (s *session) sealTable() {
	t := &s.tables
	if t.cell.Len() > 0 || len(t.row) > 0 {
		s.endRow()
	}
	tbl := t.table
	t.table = nil
	t.pendingSep = ""
	t.pendingInCell = false
	if tbl == nil || len(tbl.Rows) == 0 {
		return
	}
	tbl.End = s.body.Len()
	s.doc.Tables = append(s.doc.Tables, tbl)
	s.doc.Metadata.HasTables = true
}

// bodyText appends text to the document and reports it to the handler.
func (s *session) bodyText(text string, style model.Style) {
	s.body.emit(text, style)
	s.emit(TextEvent{Text: text, Style: style})
}

// emitBody sends document text through the table builder.
func (s *session) emitBody(sc *scope, text string) {
	t := &s.tables
	if !sc.inTable {
		if t.open() {
			s.sealTable()
		}
		s.bodyText(text, sc.style)
		return
	}

	s.startTable()
	if t.pendingSep != "" {
		s.bodyText(t.pendingSep, sc.style)
		if t.pendingInCell {
			t.cell.emit(t.pendingSep, sc.style)
		}
		t.pendingSep = ""
		t.pendingInCell = false
	}
	s.bodyText(text, sc.style)
	t.cell.emit(text, sc.style)
}
