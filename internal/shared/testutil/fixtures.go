package testutil

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
)

// POSHeader is the header row written by the store terminals' shift export.
var POSHeader = []string{
	"店別",
	"班別營業|店名",
	"班別營業|班別",
	"班別營業|日期",
	"班別營業|值班者",
	"檳榔銷售|金額",
	"營業金額|實收金額",
	"營業金額|結帳差額",
}

// POSRow is one line of a POS shift export, as text.
type POSRow struct {
	Region    string
	Store     string
	Shift     string
	Date      string
	Attendant string
	SalesItem string
	Collected string
	Variance  string
}

// Cells returns the row in POSHeader order
func (r POSRow) Cells() []string {
	return []string{r.Region, r.Store, r.Shift, r.Date, r.Attendant, r.SalesItem, r.Collected, r.Variance}
}

// SampleRows is a small 2024-05-02 export: a sub-brand store, a two-shift
// Changhua store, one Taichung store and the terminal's grand-total line.
func SampleRows() []POSRow {
	return []POSRow{
		{Region: "日紅", Store: "A店", Shift: "早", Date: "2024-05-02", Attendant: "王", SalesItem: "100", Collected: "500", Variance: "10"},
		{Region: "彰化", Store: "B店", Shift: "早", Date: "2024-05-02", Attendant: "李", SalesItem: "1,200", Collected: "3,000", Variance: "-5"},
		{Region: "彰化", Store: "B店", Shift: "晚", Date: "2024-05-02", Attendant: "陳", SalesItem: "800", Collected: "2,500", Variance: "0"},
		{Region: " 台中市 ", Store: "C店", Shift: "早", Date: "2024-05-02", Attendant: "張", SalesItem: "300", Collected: "1,500", Variance: ""},
		{Region: "", Store: "", Shift: "", Date: "", Attendant: "", SalesItem: "2,400", Collected: "7,500", Variance: "5"},
	}
}

// BuildCSV renders rows under POSHeader as UTF-8 CSV
func BuildCSV(rows []POSRow) []byte {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, r.Cells())
	}
	return BuildCSVTable(POSHeader, table)
}

// BuildCSVTable renders an arbitrary header and rows as UTF-8 CSV
func BuildCSVTable(header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(header)
	w.WriteAll(rows)
	return buf.Bytes()
}

// EncodeBig5 re-encodes UTF-8 text the way legacy terminals write it
func EncodeBig5(t *testing.T, data []byte) []byte {
	t.Helper()

	out, err := traditionalchinese.Big5.NewEncoder().Bytes(data)
	require.NoError(t, err)
	return out
}

// BuildXLSX writes rows under POSHeader into the first sheet of a new workbook
func BuildXLSX(t *testing.T, rows []POSRow) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := POSHeader
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		cells := r.Cells()
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// PanelSheet describes one day sheet of a prior workbook holding a cumulative panel
type PanelSheet struct {
	Name     string
	Total    float64
	Changhua float64
	Taichung float64
}

// Panel layout used by PriorWorkbook: labels in column 12, values in column 16.
const (
	PanelLabelColumn = 12
	PanelValueColumn = 16
	PanelFirstRow    = 30
)

// PriorWorkbook builds a month workbook with one sheet per PanelSheet, in order
func PriorWorkbook(t *testing.T, sheets ...PanelSheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), s.Name))
		} else {
			_, err := f.NewSheet(s.Name)
			require.NoError(t, err)
		}

		lines := []struct {
			label string
			value float64
		}{
			{"5/1-5/1 營業總金額：", s.Total},
			{"彰化檳榔金額：", s.Changhua},
			{"台中檳榔金額：", s.Taichung},
		}
		for j, line := range lines {
			row := PanelFirstRow + j*2
			labelCell, _ := excelize.CoordinatesToCellName(PanelLabelColumn, row)
			valueCell, _ := excelize.CoordinatesToCellName(PanelValueColumn, row)
			require.NoError(t, f.SetCellValue(s.Name, labelCell, line.label))
			require.NoError(t, f.SetCellValue(s.Name, valueCell, line.value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
