package report

import (
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// sheetWriter issues cell writes against one sheet and keeps the first error;
// later calls become no-ops once an error is recorded.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	styles *StyleManager
	err    error
}

func newSheetWriter(f *excelize.File, sheet string, styles *StyleManager) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet, styles: styles}
}

func (w *sheetWriter) ref(col, row int) string {
	if w.err != nil {
		return ""
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
	}
	return name
}

// cell writes value with style. Empty strings leave the cell blank.
func (w *sheetWriter) cell(col, row int, value interface{}, st CellStyle) {
	ref := w.ref(col, row)
	if w.err != nil {
		return
	}
	if s, ok := value.(string); !ok || s != "" {
		if err := w.f.SetCellValue(w.sheet, ref, value); err != nil {
			w.err = err
			return
		}
	}
	w.style(col, row, st)
}

func (w *sheetWriter) style(col, row int, st CellStyle) {
	w.styleRange(col, row, col, row, st)
}

func (w *sheetWriter) styleRange(c1, r1, c2, r2 int, st CellStyle) {
	from, to := w.ref(c1, r1), w.ref(c2, r2)
	if w.err != nil {
		return
	}
	id, err := w.styles.ID(st)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(w.sheet, from, to, id); err != nil {
		w.err = err
	}
}

// merge joins a range; single cells are left alone
func (w *sheetWriter) merge(c1, r1, c2, r2 int) {
	if c1 == c2 && r1 == r2 {
		return
	}
	from, to := w.ref(c1, r1), w.ref(c2, r2)
	if w.err != nil {
		return
	}
	if err := w.f.MergeCell(w.sheet, from, to); err != nil {
		w.err = err
	}
}

func (w *sheetWriter) height(row int, h float64) {
	if w.err != nil {
		return
	}
	if err := w.f.SetRowHeight(w.sheet, row, h); err != nil {
		w.err = err
	}
}

func (w *sheetWriter) width(col int, wd float64) {
	if w.err != nil {
		return
	}
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetColWidth(w.sheet, name, name, wd); err != nil {
		w.err = err
	}
}

// amount converts a decimal to a cell value, keeping whole numbers integral
func amount(d decimal.Decimal) interface{} {
	if d.IsInteger() {
		return d.IntPart()
	}
	return d.InexactFloat64()
}
