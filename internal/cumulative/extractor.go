// Package cumulative recovers the month-to-date totals carried forward from the
// previous day's sheet of the month workbook.
package cumulative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"storereport/pkg/contracts/domain"
)

// Extractor reads a prior cumulative snapshot from a month workbook.
// Implementations never fail: anything unreadable yields a zero snapshot.
type Extractor interface {
	Extract(ctx context.Context, workbook []byte, date time.Time) domain.CumulativeSnapshot
}

// Panel labels written by the report builder and read back here.
const (
	LabelTotal    = "營業總金額"
	LabelChanghua = "彰化檳榔金額"
	LabelTaichung = "台中檳榔金額"
)

// SheetName is the day sheet name of date, e.g. "05-02"
func SheetName(date time.Time) string {
	return date.Format("01-02")
}

var errNoWorkbook = errors.New("no workbook supplied")

// LabelScanner finds the panel by label text in a fixed column band and reads
// the value column of the same row.
type LabelScanner struct {
	logger *slog.Logger

	// 1-based column range holding labels, inclusive.
	FirstLabelColumn int
	LastLabelColumn  int
	// 1-based column holding values.
	ValueColumn int
}

// NewLabelScanner scans columns 12-15 for labels and reads column 16
func NewLabelScanner(logger *slog.Logger) *LabelScanner {
	return &LabelScanner{
		logger:           logger.With(slog.String("component", "cumulative_extractor")),
		FirstLabelColumn: 12,
		LastLabelColumn:  15,
		ValueColumn:      16,
	}
}

// Extract returns zeros on the first of the month, and whenever the workbook,
// the sheet or a value cannot be read.
func (s *LabelScanner) Extract(ctx context.Context, workbook []byte, date time.Time) domain.CumulativeSnapshot {
	if date.Day() == 1 {
		s.logger.DebugContext(ctx, "first day of month, nothing carried forward",
			slog.String("date", date.Format("2006-01-02")))
		return zeroSnapshot()
	}

	snapshot, sheet, err := s.scan(workbook, date)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, errNoWorkbook) {
			level = slog.LevelInfo
		}
		s.logger.Log(ctx, level, "cumulative lookup failed, carrying forward zero",
			slog.String("date", date.Format("2006-01-02")),
			slog.String("sheet", sheet),
			slog.String("error", err.Error()))
		return zeroSnapshot()
	}

	s.logger.InfoContext(ctx, "cumulative totals recovered",
		slog.String("sheet", sheet),
		slog.String("total", snapshot.Total.String()),
		slog.String("changhua_sales_item", snapshot.ChanghuaSalesItem.String()),
		slog.String("taichung_sales_item", snapshot.TaichungSalesItem.String()))

	return snapshot
}

// scan picks the previous day's sheet, or the last sheet, and reads the panel.
// Labels that never appear stay zero; a later match of a label overrides an
// earlier one.
func (s *LabelScanner) scan(workbook []byte, date time.Time) (domain.CumulativeSnapshot, string, error) {
	snapshot := zeroSnapshot()
	if len(workbook) == 0 {
		return snapshot, "", errNoWorkbook
	}

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		return snapshot, "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), date)
	if err != nil {
		return snapshot, "", err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return snapshot, sheet, fmt.Errorf("read sheet: %w", err)
	}

	for r, row := range rows {
		for c := s.FirstLabelColumn; c <= s.LastLabelColumn && c <= len(row); c++ {
			label := row[c-1]
			if label == "" {
				continue
			}

			var target *decimal.Decimal
			switch {
			case strings.Contains(label, LabelTotal):
				target = &snapshot.Total
			case strings.Contains(label, LabelChanghua):
				target = &snapshot.ChanghuaSalesItem
			case strings.Contains(label, LabelTaichung):
				target = &snapshot.TaichungSalesItem
			default:
				continue
			}

			value, err := parseValue(row, s.ValueColumn)
			if err != nil {
				return zeroSnapshot(), sheet, fmt.Errorf("row %d: %w", r+1, err)
			}
			*target = value
		}
	}

	return snapshot, sheet, nil
}

func pickSheet(sheets []string, date time.Time) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	prev := SheetName(date.AddDate(0, 0, -1))
	for _, name := range sheets {
		if name == prev {
			return name, nil
		}
	}
	return sheets[len(sheets)-1], nil
}

// parseValue reads the 1-based value column; an empty cell is zero
func parseValue(row []string, column int) (decimal.Decimal, error) {
	if column > len(row) {
		return decimal.Zero, nil
	}
	raw := strings.TrimSpace(strings.ReplaceAll(row[column-1], ",", ""))
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("value %q is not numeric", row[column-1])
	}
	return d, nil
}

func zeroSnapshot() domain.CumulativeSnapshot {
	return domain.CumulativeSnapshot{
		Total:             decimal.Zero,
		ChanghuaSalesItem: decimal.Zero,
		TaichungSalesItem: decimal.Zero,
	}
}

// Fixed is an Extractor returning a known snapshot, used when the operator
// types the carry-forward figures instead of supplying a workbook. The first
// of the month still yields zeros.
type Fixed struct {
	Snapshot domain.CumulativeSnapshot
}

// Extract implements Extractor
func (f Fixed) Extract(_ context.Context, _ []byte, date time.Time) domain.CumulativeSnapshot {
	if date.Day() == 1 {
		return zeroSnapshot()
	}
	return f.Snapshot
}
