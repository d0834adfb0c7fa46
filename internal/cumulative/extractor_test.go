package cumulative

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"storereport/internal/shared/testutil"
	"storereport/pkg/contracts/domain"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.Local)
}

func TestLabelScanner_Extract(t *testing.T) {
	tests := []struct {
		name     string
		workbook func(t *testing.T) []byte
		date     time.Time
		want     [3]int64
	}{
		{
			name: "previous day sheet",
			workbook: func(t *testing.T) []byte {
				return testutil.PriorWorkbook(t, testutil.PanelSheet{Name: "05-01", Total: 12345, Changhua: 800, Taichung: 300})
			},
			date: day(time.May, 2),
			want: [3]int64{12345, 800, 300},
		},
		{
			name: "previous day preferred over last sheet",
			workbook: func(t *testing.T) []byte {
				return testutil.PriorWorkbook(t,
					testutil.PanelSheet{Name: "05-02", Total: 2000, Changhua: 20, Taichung: 2},
					testutil.PanelSheet{Name: "05-03", Total: 3000, Changhua: 30, Taichung: 3},
				)
			},
			date: day(time.May, 3),
			want: [3]int64{2000, 20, 2},
		},
		{
			name: "falls back to last sheet",
			workbook: func(t *testing.T) []byte {
				return testutil.PriorWorkbook(t,
					testutil.PanelSheet{Name: "05-02", Total: 2000, Changhua: 20, Taichung: 2},
					testutil.PanelSheet{Name: "05-05", Total: 5000, Changhua: 50, Taichung: 5},
				)
			},
			date: day(time.May, 9),
			want: [3]int64{5000, 50, 5},
		},
		{
			name: "first of month ignores a valid workbook",
			workbook: func(t *testing.T) []byte {
				return testutil.PriorWorkbook(t, testutil.PanelSheet{Name: "04-30", Total: 99999, Changhua: 1, Taichung: 1})
			},
			date: day(time.May, 1),
			want: [3]int64{0, 0, 0},
		},
		{
			name:     "no workbook",
			workbook: func(t *testing.T) []byte { return nil },
			date:     day(time.May, 2),
			want:     [3]int64{0, 0, 0},
		},
		{
			name:     "corrupt workbook",
			workbook: func(t *testing.T) []byte { return []byte("PK not really") },
			date:     day(time.May, 2),
			want:     [3]int64{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			s := NewLabelScanner(logger)

			got := s.Extract(context.Background(), tt.workbook(t), tt.date)

			assert.True(t, got.Total.Equal(decimal.NewFromInt(tt.want[0])), "total = %s", got.Total)
			assert.True(t, got.ChanghuaSalesItem.Equal(decimal.NewFromInt(tt.want[1])), "changhua = %s", got.ChanghuaSalesItem)
			assert.True(t, got.TaichungSalesItem.Equal(decimal.NewFromInt(tt.want[2])), "taichung = %s", got.TaichungSalesItem)
		})
	}
}

func TestLabelScanner_LabelOutsideBandIgnored(t *testing.T) {
	f := excelize.NewFile()
	sheet := "05-01"
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	// Column K (11) is outside the label band.
	require.NoError(t, f.SetCellValue(sheet, "K5", "營業總金額："))
	require.NoError(t, f.SetCellValue(sheet, "P5", 777))
	// Column O (15) is the last column of the band.
	require.NoError(t, f.SetCellValue(sheet, "O7", "台中檳榔金額："))
	require.NoError(t, f.SetCellValue(sheet, "P7", 42))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	got := NewLabelScanner(logger).Extract(context.Background(), buf.Bytes(), day(time.May, 2))

	assert.True(t, got.Total.IsZero())
	assert.True(t, got.TaichungSalesItem.Equal(decimal.NewFromInt(42)))
}

func TestLabelScanner_NonNumericValueZeroesSnapshot(t *testing.T) {
	f := excelize.NewFile()
	sheet := "05-01"
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	require.NoError(t, f.SetCellValue(sheet, "L3", "營業總金額："))
	require.NoError(t, f.SetCellValue(sheet, "P3", 500))
	require.NoError(t, f.SetCellValue(sheet, "L5", "彰化檳榔金額："))
	require.NoError(t, f.SetCellValue(sheet, "P5", "待補"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	logger, logs := testutil.NewTestLogger(t)
	got := NewLabelScanner(logger).Extract(context.Background(), buf.Bytes(), day(time.May, 2))

	assert.True(t, got.IsZero())
	assert.True(t, logs.ContainsMessage("cumulative lookup failed"))
}

func TestFixed_Extract(t *testing.T) {
	snap := domain.CumulativeSnapshot{
		Total:             decimal.NewFromInt(10),
		ChanghuaSalesItem: decimal.NewFromInt(2),
		TaichungSalesItem: decimal.NewFromInt(3),
	}
	f := Fixed{Snapshot: snap}

	assert.Equal(t, snap, f.Extract(context.Background(), nil, day(time.May, 2)))
	assert.True(t, f.Extract(context.Background(), nil, day(time.May, 1)).IsZero())
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "05-02", SheetName(day(time.May, 2)))
	assert.Equal(t, "12-31", SheetName(day(time.December, 31)))
}
