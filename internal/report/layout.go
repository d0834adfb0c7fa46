package report

import (
	"fmt"
	"time"
)

// FontFamily is used for every styled cell of the report.
const FontFamily = "微軟正黑體"

// Block geometry. Changhua is rendered in columns A-J, Taichung in L-U, with
// column K as a narrow gutter.
const (
	LeftBlockColumn  = 1
	RightBlockColumn = 12
	BlockWidth       = 10

	TitleRow     = 1
	HeaderRow    = 2
	FirstDataRow = 3

	HeaderHeight = 30
	RowHeight    = 22
)

// Column offsets inside a block
const (
	colStore = iota
	colShift
	colAttendant
	colSalesItem
	colCollected
	colVariance
	colSubtotal
	colReceived
	colDiff
	colCash
)

// Carry-forward panel columns, right block only
const (
	panelLabelFirst = 12
	panelLabelLast  = 15
	panelValueFirst = 16
	panelValueLast  = 19
)

// Left summary row columns, and the matching right-block columns for the
// region and grand-total rows.
const (
	leftSalesItemColumn  = LeftBlockColumn + colSalesItem
	leftCollectedColumn  = LeftBlockColumn + colSubtotal
	rightSalesItemColumn = RightBlockColumn + colSalesItem
	rightCollectedColumn = RightBlockColumn + colSubtotal
	grandCollectedColumn = RightBlockColumn + colCollected
	grandVarianceColumn  = RightBlockColumn + colVariance
)

// ColumnWidths for A through U
var ColumnWidths = []float64{12, 6, 8, 9, 9, 6, 9, 6, 6, 6, 2, 12, 6, 8, 9, 9, 6, 9, 6, 6, 6}

// HeaderLabels is written in row 2 of both blocks
var HeaderLabels = []string{"店名", "班別", "值班者", "檳榔\n金額", "實收\n金額", "帳差", "合計", "收款", "實差", "現金\n合計"}

// AnnotationLabels are the manually filled row pairs under the Changhua summary
var AnnotationLabels = []string{"班別入帳：", "轉入轉出：", "調入調出："}

// PlaceholderLabels follow the carry-forward panel. An empty label leaves a
// single blank row.
var PlaceholderLabels = []string{"彰化區未收款：", "台中區未收款：", "", "現金正負差：", "實收總金額："}

// Page setup
const (
	PaperSizeA4  = 9
	PrintScale   = 70
	MarginSide   = 0.25
	MarginTopBot = 0.75
	MarginHeader = 0.3
)

// ROCDate renders a date in the Republic of China era, e.g. " 113年5月2日"
func ROCDate(t time.Time) string {
	return fmt.Sprintf(" %d年%d月%d日", t.Year()-1911, int(t.Month()), t.Day())
}

// Title is the merged heading of one block
func Title(t time.Time, regionLabel string) string {
	return fmt.Sprintf("%s 直營店營收報表 (%s區)", ROCDate(t), regionLabel)
}

// PanelRange is the month-to-date span prefixed to carry-forward labels, e.g. "5/1-5/2"
func PanelRange(t time.Time) string {
	return fmt.Sprintf("%d/1-%d/%d", int(t.Month()), int(t.Month()), t.Day())
}

// FileName is the download name of the report for date
func FileName(t time.Time) string {
	return "日報表_" + t.Format("20060102") + ".xlsx"
}
