package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"storereport/pkg/contracts/domain"
)

// ParseAmount strips thousands separators and parses the rest. Anything that
// does not parse, including an empty cell, is zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ClassifyRegion folds a raw region label onto a reported region. Labels
// containing the sub-brand marker or 彰化 become 彰化; otherwise labels
// containing 台中 become 台中. Anything else is returned trimmed.
func ClassifyRegion(raw string) domain.Region {
	label := strings.TrimSpace(raw)
	switch {
	case strings.Contains(label, domain.SubBrandMarker), strings.Contains(label, string(domain.RegionChanghua)):
		return domain.RegionChanghua
	case strings.Contains(label, string(domain.RegionTaichung)):
		return domain.RegionTaichung
	default:
		return domain.Region(label)
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"20060102",
	"01-02-06",
}

// maxExcelSerial is 9999-12-31
const maxExcelSerial = 2958465

// ParseDate accepts the date renderings seen in POS exports, including Excel
// serial day numbers. The result is midnight local time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return dateOnly(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
