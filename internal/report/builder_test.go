package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"storereport/internal/cumulative"
	"storereport/internal/shared/testutil"
	"storereport/pkg/contracts/domain"
)

var reportDay = time.Date(2024, time.May, 2, 0, 0, 0, 0, time.Local)

func shift(region domain.Region, store, name string, sales, collected, variance int64) domain.ShiftRecord {
	return domain.ShiftRecord{
		Region:    region,
		Store:     store,
		Shift:     name,
		Attendant: "員工",
		Date:      reportDay,
		SalesItem: decimal.NewFromInt(sales),
		Collected: decimal.NewFromInt(collected),
		Variance:  decimal.NewFromInt(variance),
	}
}

func sampleTable() *domain.CanonicalTable {
	subBrand := shift(domain.RegionChanghua, "A店", "早", 100, 500, -10)
	subBrand.SubBrand = true
	return &domain.CanonicalTable{
		Records: []domain.ShiftRecord{
			subBrand,
			shift(domain.RegionChanghua, "B店", "早", 1200, 3000, 5),
			shift(domain.RegionChanghua, "B店", "晚", 800, 2500, 0),
			shift(domain.RegionTaichung, "C店", "早", 300, 1500, 0),
		},
	}
}

func samplePrior() domain.CumulativeSnapshot {
	return domain.CumulativeSnapshot{
		Total:             decimal.NewFromInt(12345),
		ChanghuaSalesItem: decimal.NewFromInt(800),
		TaichungSalesItem: decimal.NewFromInt(300),
	}
}

func raw(t *testing.T, wb *Workbook, sheet, cell string) string {
	t.Helper()
	v, err := wb.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func fontColor(t *testing.T, wb *Workbook, sheet, cell string) string {
	t.Helper()
	id, err := wb.file.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	style, err := wb.file.GetStyle(id)
	require.NoError(t, err)
	if style.Font == nil {
		return ""
	}
	return style.Font.Color
}

func mergedRanges(t *testing.T, wb *Workbook, sheet string) []string {
	t.Helper()
	cells, err := wb.file.GetMergeCells(sheet)
	require.NoError(t, err)
	var out []string
	for _, m := range cells {
		out = append(out, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	return out
}

func buildSample(t *testing.T) (*Workbook, Summary) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	wb, summary, err := NewBuilder(logger).Build(context.Background(), NewWorkbook(), Input{
		Table: sampleTable(),
		Date:  reportDay,
		Prior: samplePrior(),
	})
	require.NoError(t, err)
	return wb, summary
}

func TestBuilder_Build_Layout(t *testing.T) {
	wb, summary := buildSample(t)
	const sheet = "05-02"

	assert.Equal(t, []string{sheet}, wb.SheetNames())
	assert.Equal(t, sheet, summary.SheetName)
	assert.False(t, summary.Replaced)
	assert.Equal(t, 3, summary.Stores)
	assert.Equal(t, 4, summary.Rows)
	assert.Equal(t, 0, summary.Unassigned)

	t.Run("titles and header", func(t *testing.T) {
		assert.Equal(t, " 113年5月2日 直營店營收報表 (彰化區)", raw(t, wb, sheet, "A1"))
		assert.Equal(t, " 113年5月2日 直營店營收報表 (台中區)", raw(t, wb, sheet, "L1"))
		assert.Equal(t, "店名", raw(t, wb, sheet, "A2"))
		assert.Equal(t, "檳榔\n金額", raw(t, wb, sheet, "D2"))
		assert.Equal(t, "現金\n合計", raw(t, wb, sheet, "U2"))

		height, err := wb.file.GetRowHeight(sheet, HeaderRow)
		require.NoError(t, err)
		assert.Equal(t, float64(HeaderHeight), height)

		width, err := wb.file.GetColWidth(sheet, "K")
		require.NoError(t, err)
		assert.Equal(t, 2.0, width)
	})

	t.Run("sub-brand store is listed last", func(t *testing.T) {
		assert.Equal(t, "B店", raw(t, wb, sheet, "A3"))
		assert.Equal(t, "早", raw(t, wb, sheet, "B3"))
		assert.Equal(t, "晚", raw(t, wb, sheet, "B4"))
		assert.Equal(t, "A店", raw(t, wb, sheet, "A5"))
	})

	t.Run("store subtotal is merged over the block", func(t *testing.T) {
		assert.Equal(t, "5500", raw(t, wb, sheet, "G3"))
		assert.Equal(t, "500", raw(t, wb, sheet, "G5"))

		merged := mergedRanges(t, wb, sheet)
		assert.Contains(t, merged, "A3:A4")
		assert.Contains(t, merged, "G3:G4")
		assert.Contains(t, merged, "J3:J4")
		assert.NotContains(t, merged, "A5:A5")
	})

	t.Run("variance colors", func(t *testing.T) {
		assert.Equal(t, ColorPositive, fontColor(t, wb, sheet, "F3"))
		assert.Equal(t, "", fontColor(t, wb, sheet, "F4"))
		assert.Equal(t, ColorNegative, fontColor(t, wb, sheet, "F5"))
	})

	t.Run("region summaries", func(t *testing.T) {
		assert.Equal(t, "2100", raw(t, wb, sheet, "D6"))
		assert.Equal(t, "6000", raw(t, wb, sheet, "G6"))
		assert.Equal(t, ColorRegionSum, fontColor(t, wb, sheet, "G6"))

		assert.Equal(t, "C店", raw(t, wb, sheet, "L3"))
		assert.Equal(t, "1500", raw(t, wb, sheet, "R3"))
		assert.Equal(t, "300", raw(t, wb, sheet, "O4"))
		assert.Equal(t, "1500", raw(t, wb, sheet, "R4"))
	})

	t.Run("annotation pairs", func(t *testing.T) {
		assert.Equal(t, "班別入帳：", raw(t, wb, sheet, "A7"))
		assert.Equal(t, "轉入轉出：", raw(t, wb, sheet, "A9"))
		assert.Equal(t, "調入調出：", raw(t, wb, sheet, "A11"))
		assert.Contains(t, mergedRanges(t, wb, sheet), "A7:J8")
	})

	t.Run("grand total", func(t *testing.T) {
		assert.Equal(t, "2400", raw(t, wb, sheet, "O5"))
		assert.Equal(t, "7500", raw(t, wb, sheet, "P5"))
		assert.Equal(t, "-5", raw(t, wb, sheet, "Q5"))
		assert.Equal(t, "7500", raw(t, wb, sheet, "R5"))
		assert.Equal(t, ColorNegative, fontColor(t, wb, sheet, "Q5"))
	})

	t.Run("carry-forward panel", func(t *testing.T) {
		assert.Equal(t, "5/1-5/2 營業總金額：", raw(t, wb, sheet, "L7"))
		assert.Equal(t, "19845", raw(t, wb, sheet, "P7"))
		assert.Equal(t, "5/1-5/2 彰化檳榔金額：", raw(t, wb, sheet, "L9"))
		assert.Equal(t, "2900", raw(t, wb, sheet, "P9"))
		assert.Equal(t, "5/1-5/2 台中檳榔金額：", raw(t, wb, sheet, "L11"))
		assert.Equal(t, "600", raw(t, wb, sheet, "P11"))

		merged := mergedRanges(t, wb, sheet)
		assert.Contains(t, merged, "L7:O8")
		assert.Contains(t, merged, "P7:S8")
	})

	t.Run("placeholder lines", func(t *testing.T) {
		assert.Equal(t, "彰化區未收款：", raw(t, wb, sheet, "L13"))
		assert.Equal(t, "台中區未收款：", raw(t, wb, sheet, "L15"))
		assert.Equal(t, "", raw(t, wb, sheet, "L17"))
		assert.Equal(t, "現金正負差：", raw(t, wb, sheet, "L18"))
		assert.Equal(t, "實收總金額：", raw(t, wb, sheet, "L20"))
	})

	t.Run("page setup", func(t *testing.T) {
		layout, err := wb.file.GetPageLayout(sheet)
		require.NoError(t, err)
		require.NotNil(t, layout.Size)
		assert.Equal(t, PaperSizeA4, *layout.Size)
		require.NotNil(t, layout.AdjustTo)
		assert.Equal(t, uint(PrintScale), *layout.AdjustTo)
		require.NotNil(t, layout.Orientation)
		assert.Equal(t, "portrait", *layout.Orientation)

		margins, err := wb.file.GetPageMargins(sheet)
		require.NoError(t, err)
		require.NotNil(t, margins.Left)
		assert.Equal(t, 0.25, *margins.Left)
		require.NotNil(t, margins.Top)
		assert.Equal(t, 0.75, *margins.Top)
	})
}

func TestBuilder_Build_ReplacesSameDaySheet(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	b := NewBuilder(logger)
	ctx := context.Background()

	prior := testutil.PriorWorkbook(t,
		testutil.PanelSheet{Name: "05-01", Total: 100},
		testutil.PanelSheet{Name: "05-02", Total: 200},
	)
	wb, err := OpenWorkbook(prior)
	require.NoError(t, err)

	wb, summary, err := b.Build(ctx, wb, Input{Table: sampleTable(), Date: reportDay})
	require.NoError(t, err)
	assert.True(t, summary.Replaced)

	table := sampleTable()
	table.Records[1].Store = "B2店"
	table.Records[2].Store = "B2店"
	wb, _, err = b.Build(ctx, wb, Input{Table: table, Date: reportDay})
	require.NoError(t, err)

	names := wb.SheetNames()
	assert.Equal(t, []string{"05-01", "05-02"}, names)
	assert.Equal(t, "B2店", raw(t, wb, "05-02", "A3"))
	assert.Equal(t, "", raw(t, wb, "05-02", "P30"), "old panel content is gone")
}

func TestBuilder_Build_RebuildOnSingleSheetWorkbook(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	b := NewBuilder(logger)

	wb := NewWorkbook()
	for i := 0; i < 3; i++ {
		var err error
		wb, _, err = b.Build(context.Background(), wb, Input{Table: sampleTable(), Date: reportDay})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"05-02"}, wb.SheetNames())
}

func TestBuilder_Build_PanelFeedsNextDay(t *testing.T) {
	wb, _ := buildSample(t)

	data, err := wb.Bytes()
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	next := cumulative.NewLabelScanner(logger).Extract(context.Background(), data, reportDay.AddDate(0, 0, 1))

	assert.Equal(t, "19845", next.Total.String())
	assert.Equal(t, "2900", next.ChanghuaSalesItem.String())
	assert.Equal(t, "600", next.TaichungSalesItem.String())
}

func TestBuilder_Build_EmptyRegionAndUnassigned(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	table := &domain.CanonicalTable{Records: []domain.ShiftRecord{
		shift(domain.RegionChanghua, "B店", "早", 10, 20, 0),
		shift(domain.Region("嘉義"), "D店", "早", 1, 5, -1),
	}}

	wb, summary, err := NewBuilder(logger).Build(context.Background(), NewWorkbook(), Input{Table: table, Date: reportDay})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Unassigned)
	assert.Equal(t, 1, summary.Stores)
	// Right block: summary on row 3, grand total on row 4, panel from row 6.
	assert.Equal(t, "0", raw(t, wb, "05-02", "O3"))
	assert.Equal(t, "25", raw(t, wb, "05-02", "P4"))
	assert.Equal(t, "10", raw(t, wb, "05-02", "O4"))
	assert.Equal(t, "5/1-5/2 營業總金額：", raw(t, wb, "05-02", "L6"))
}

func TestOpenWorkbook(t *testing.T) {
	wb, err := OpenWorkbook(nil)
	require.NoError(t, err)
	assert.Len(t, wb.SheetNames(), 1)

	_, err = OpenWorkbook([]byte("garbage"))
	assert.Error(t, err)

	wb, err = OpenWorkbook(testutil.PriorWorkbook(t, testutil.PanelSheet{Name: "04-30"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"04-30"}, wb.SheetNames())
	require.NoError(t, wb.Close())
}
