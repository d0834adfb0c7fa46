package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"storereport/internal/cumulative"
	"storereport/pkg/contracts/domain"
)

// Input is everything one day sheet is rendered from
type Input struct {
	Table *domain.CanonicalTable
	Date  time.Time
	Prior domain.CumulativeSnapshot
}

// Summary describes a rendered sheet
type Summary struct {
	SheetName string
	Replaced  bool
	Stores    int
	Rows      int
	// Unassigned counts records whose region is neither Changhua nor Taichung.
	// They are included in the grand collected and variance totals only.
	Unassigned int
	Totals     domain.ReportTotals
}

// Builder renders the daily sheet into a month workbook
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a report builder
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logger.With(slog.String("component", "report_builder"))}
}

// Build replaces the sheet of in.Date in wb with a freshly rendered one and
// returns the same workbook. Either the whole sheet renders or an error is
// returned.
func (b *Builder) Build(ctx context.Context, wb *Workbook, in Input) (*Workbook, Summary, error) {
	var records []domain.ShiftRecord
	if in.Table != nil {
		records = in.Table.Records
	}

	sheet := cumulative.SheetName(in.Date)
	replaced, err := wb.resetSheet(sheet)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("prepare sheet %s: %w", sheet, err)
	}

	w := newSheetWriter(wb.file, sheet, NewStyleManager(wb.file))

	changhua := GroupStores(records, domain.RegionChanghua)
	taichung := GroupStores(records, domain.RegionTaichung)
	totals := ComputeTotals(records, in.Prior)

	writeFrame(w, in.Date)

	rowL := FirstDataRow
	for _, block := range changhua {
		rowL = writeStore(w, block, rowL, LeftBlockColumn)
	}
	rowR := FirstDataRow
	for _, block := range taichung {
		rowR = writeStore(w, block, rowR, RightBlockColumn)
	}

	rowL = writeRegionSum(w, rowL, LeftBlockColumn, leftSalesItemColumn, leftCollectedColumn, totals.Changhua)
	writeAnnotations(w, rowL)

	rowR = writeRegionSum(w, rowR, RightBlockColumn, rightSalesItemColumn, rightCollectedColumn, totals.Taichung)
	rowR = writeGrandTotal(w, rowR, totals)
	writePanel(w, rowR+1, in.Date, totals)

	writePageSetup(w)

	if w.err != nil {
		return nil, Summary{}, fmt.Errorf("render sheet %s: %w", sheet, w.err)
	}

	summary := Summary{
		SheetName: sheet,
		Replaced:  replaced,
		Stores:    len(changhua) + len(taichung),
		Rows:      totals.Changhua.Shifts + totals.Taichung.Shifts,
		Totals:    totals,
	}
	summary.Unassigned = len(records) - summary.Rows

	b.logger.InfoContext(ctx, "report sheet rendered",
		slog.String("sheet", sheet),
		slog.Bool("replaced", replaced),
		slog.Int("stores", summary.Stores),
		slog.Int("rows", summary.Rows),
		slog.Int("unassigned", summary.Unassigned),
		slog.Int("styles", w.styles.Len()))

	return wb, summary, nil
}

// writeFrame sets column widths, the two titles and the header row
func writeFrame(w *sheetWriter, date time.Time) {
	for i, width := range ColumnWidths {
		w.width(i+1, width)
	}

	titles := []struct {
		col   int
		label string
	}{
		{LeftBlockColumn, string(domain.RegionChanghua)},
		{RightBlockColumn, string(domain.RegionTaichung)},
	}
	for _, t := range titles {
		w.merge(t.col, TitleRow, t.col+BlockWidth-1, TitleRow)
		w.cell(t.col, TitleRow, Title(date, t.label), CellStyle{Font: FontTitle, Align: AlignCenter})
	}

	header := CellStyle{Font: FontHeader, Align: AlignCenter, Border: BorderThin, HeaderFill: true}
	for i, label := range HeaderLabels {
		w.cell(LeftBlockColumn+i, HeaderRow, label, header)
		w.cell(RightBlockColumn+i, HeaderRow, label, header)
	}
	w.height(HeaderRow, HeaderHeight)
}

// writeStore renders one store block from row and returns the next free row
func writeStore(w *sheetWriter, block StoreBlock, row, cs int) int {
	n := len(block.Records)
	if n == 0 {
		return row
	}
	last := row + n - 1

	w.merge(cs+colStore, row, cs+colStore, last)
	w.merge(cs+colSubtotal, row, cs+colSubtotal, last)
	w.merge(cs+colCash, row, cs+colCash, last)

	for i, rec := range block.Records {
		r := row + i
		border := BorderThin
		if r == last {
			border = BorderAccentBottom
		}
		w.height(r, RowHeight)

		if i == 0 {
			w.cell(cs+colStore, r, block.Name, CellStyle{Font: FontBold, Align: AlignCenter, Border: border})
			w.cell(cs+colSubtotal, r, amount(block.Collected), CellStyle{Font: FontBold, Align: AlignCenter, Border: border, Amount: true})
		} else {
			w.style(cs+colStore, r, CellStyle{Border: border})
			w.style(cs+colSubtotal, r, CellStyle{Border: border})
		}

		w.cell(cs+colShift, r, rec.Shift, CellStyle{Font: FontNormal, Align: AlignCenter, Border: border})
		w.cell(cs+colAttendant, r, rec.Attendant, CellStyle{Font: FontNormal, Align: AlignCenter, Border: border})
		w.cell(cs+colSalesItem, r, amount(rec.SalesItem), CellStyle{Font: FontNormal, Border: border, Amount: true})
		w.cell(cs+colCollected, r, amount(rec.Collected), CellStyle{Font: FontNormal, Border: border, Amount: true})
		w.cell(cs+colVariance, r, amount(rec.Variance), CellStyle{
			Font:   varianceFont(rec.Variance, FontNormal),
			Align:  AlignCenter,
			Border: border,
			Amount: true,
		})
		w.styleRange(cs+colReceived, r, cs+colCash, r, CellStyle{Border: border})
	}

	return last + 1
}

// writeRegionSum renders a region's sales-item and collected sums in green
func writeRegionSum(w *sheetWriter, row, cs, salesCol, collectedCol int, t domain.RegionTotals) int {
	w.height(row, RowHeight)
	w.styleRange(cs, row, cs+BlockWidth-1, row, CellStyle{Border: BorderThin})

	sum := CellStyle{Font: FontGreen, Align: AlignCenter, Border: BorderThin, Amount: true}
	w.cell(salesCol, row, amount(t.SalesItem), sum)
	w.cell(collectedCol, row, amount(t.Collected), sum)
	return row + 1
}

// writeAnnotations renders the manually filled row pairs under the left summary
func writeAnnotations(w *sheetWriter, row int) int {
	last := LeftBlockColumn + BlockWidth - 1
	for _, label := range AnnotationLabels {
		w.merge(LeftBlockColumn, row, last, row+1)
		w.styleRange(LeftBlockColumn, row, last, row+1, CellStyle{Border: BorderThin})
		w.cell(LeftBlockColumn, row, label, CellStyle{Font: FontNormal, Align: AlignLeftTop, Border: BorderThin})
		w.height(row, RowHeight)
		w.height(row+1, RowHeight)
		row += 2
	}
	return row
}

// writeGrandTotal renders the combined row under the Taichung summary
func writeGrandTotal(w *sheetWriter, row int, t domain.ReportTotals) int {
	w.height(row, RowHeight)
	w.styleRange(RightBlockColumn, row, RightBlockColumn+BlockWidth-1, row, CellStyle{Border: BorderThin})

	bold := CellStyle{Font: FontBold, Align: AlignCenter, Border: BorderThin, Amount: true}
	w.cell(rightSalesItemColumn, row, amount(t.SalesItem), bold)
	w.cell(grandCollectedColumn, row, amount(t.Collected), bold)
	w.cell(rightCollectedColumn, row, amount(t.Collected), bold)

	variance := bold
	variance.Font = varianceFont(t.Variance, FontBold)
	w.cell(grandVarianceColumn, row, amount(t.Variance), variance)
	return row + 1
}

// writePanel renders the carry-forward lines and the placeholder lines below them
func writePanel(w *sheetWriter, row int, date time.Time, t domain.ReportTotals) int {
	span := PanelRange(date)
	lines := []struct {
		label string
		value interface{}
	}{
		{span + " " + cumulative.LabelTotal + "：", amount(t.MonthTotal)},
		{span + " " + cumulative.LabelChanghua + "：", amount(t.MonthChanghuaSalesItem)},
		{span + " " + cumulative.LabelTaichung + "：", amount(t.MonthTaichungSalesItem)},
	}
	for _, line := range lines {
		writePanelLine(w, row, line.label)
		w.cell(panelValueFirst, row, line.value, CellStyle{Font: FontBold, Align: AlignCenter, Border: BorderThin, Amount: true})
		row += 2
	}

	for _, label := range PlaceholderLabels {
		if label == "" {
			row++
			continue
		}
		writePanelLine(w, row, label)
		row += 2
	}
	return row
}

// writePanelLine merges a two-row label and value pair and writes the label
func writePanelLine(w *sheetWriter, row int, label string) {
	w.merge(panelLabelFirst, row, panelLabelLast, row+1)
	w.merge(panelValueFirst, row, panelValueLast, row+1)
	w.styleRange(panelLabelFirst, row, panelValueLast, row+1, CellStyle{Border: BorderThin})
	w.cell(panelLabelFirst, row, label, CellStyle{Font: FontBold, Align: AlignRight, Border: BorderThin})
	w.height(row, RowHeight)
	w.height(row+1, RowHeight)
}

// writePageSetup prints on A4 portrait at 70% with narrow side margins
func writePageSetup(w *sheetWriter) {
	if w.err != nil {
		return
	}

	size := PaperSizeA4
	orientation := "portrait"
	scale := uint(PrintScale)
	if err := w.f.SetPageLayout(w.sheet, &excelize.PageLayoutOptions{
		Size:        &size,
		Orientation: &orientation,
		AdjustTo:    &scale,
	}); err != nil {
		w.err = err
		return
	}

	side, topBottom, headerFooter := MarginSide, MarginTopBot, MarginHeader
	if err := w.f.SetPageMargins(w.sheet, &excelize.PageLayoutMarginsOptions{
		Left:   &side,
		Right:  &side,
		Top:    &topBottom,
		Bottom: &topBottom,
		Header: &headerFooter,
		Footer: &headerFooter,
	}); err != nil {
		w.err = err
		return
	}

	fitToPage := false
	if err := w.f.SetSheetProps(w.sheet, &excelize.SheetPropsOptions{FitToPage: &fitToPage}); err != nil {
		w.err = err
	}
}
