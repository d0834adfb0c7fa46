package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CumulativeSnapshot holds the month-to-date totals carried forward from a prior sheet.
type CumulativeSnapshot struct {
	Total             decimal.Decimal `json:"total"`
	ChanghuaSalesItem decimal.Decimal `json:"changhua_sales_item"`
	TaichungSalesItem decimal.Decimal `json:"taichung_sales_item"`
}

// IsZero reports whether nothing was carried forward.
func (s CumulativeSnapshot) IsZero() bool {
	return s.Total.IsZero() && s.ChanghuaSalesItem.IsZero() && s.TaichungSalesItem.IsZero()
}

// RegionTotals are the region-level sums shown in the region summary row.
type RegionTotals struct {
	Region    Region          `json:"region"`
	Stores    int             `json:"stores"`
	Shifts    int             `json:"shifts"`
	SalesItem decimal.Decimal `json:"sales_item"`
	Collected decimal.Decimal `json:"collected"`
	Variance  decimal.Decimal `json:"variance"`
}

// ReportTotals are the sums rendered in the grand-total row and carry-forward panel.
type ReportTotals struct {
	Changhua  RegionTotals    `json:"changhua"`
	Taichung  RegionTotals    `json:"taichung"`
	SalesItem decimal.Decimal `json:"sales_item"`
	Collected decimal.Decimal `json:"collected"`
	Variance  decimal.Decimal `json:"variance"`

	// Month-to-date figures: prior snapshot plus today.
	MonthTotal             decimal.Decimal `json:"month_total"`
	MonthChanghuaSalesItem decimal.Decimal `json:"month_changhua_sales_item"`
	MonthTaichungSalesItem decimal.Decimal `json:"month_taichung_sales_item"`
}

// ReportResult is the outcome of one generation run.
type ReportResult struct {
	Date       time.Time          `json:"date"`
	SheetName  string             `json:"sheet_name"`
	FileName   string             `json:"file_name"`
	Content    []byte             `json:"-"`
	Table      *CanonicalTable    `json:"-"`
	Rows       int                `json:"rows"`
	Stores     int                `json:"stores"`
	Totals     ReportTotals       `json:"totals"`
	Cumulative CumulativeSnapshot `json:"cumulative"`
	Notices    []string           `json:"notices,omitempty"`
}
