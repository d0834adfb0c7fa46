package normalize

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apierrors "storereport/internal/errors"
	"storereport/pkg/contracts/domain"
)

// Normalizer converts POS exports into canonical tables
type Normalizer struct {
	logger  *slog.Logger
	markers []Marker
	now     func() time.Time
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithMarkers replaces the header marker list
func WithMarkers(markers []Marker) Option {
	return func(n *Normalizer) {
		n.markers = markers
	}
}

// WithClock sets the clock used for the report date of an empty export
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

// New creates a Normalizer using DefaultMarkers
func New(logger *slog.Logger, opts ...Option) *Normalizer {
	n := &Normalizer{
		logger:  logger.With(slog.String("component", "normalizer")),
		markers: DefaultMarkers,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Load parses an upload and returns its canonical table and report date.
// The report date is the first kept row's date, or today when no row is kept.
// Every failure is an *errors.AppError of type PARSING.
func (n *Normalizer) Load(ctx context.Context, name string, data []byte) (*domain.CanonicalTable, time.Time, error) {
	header, rows, err := ReadTable(name, data)
	if err != nil {
		return nil, time.Time{}, apierrors.NewParsingError("無法讀取檔案", err).
			WithContext("file", name)
	}

	columns, warnings := MatchColumns(header, n.markers)
	for _, w := range warnings {
		n.logger.WarnContext(ctx, "ambiguous column match", slog.String("file", name), slog.String("warning", w))
	}
	if columns.Len() == 0 {
		return nil, time.Time{}, apierrors.NewParsingError("找不到任何可辨識的欄位", nil).
			WithContext("file", name).
			WithContext("header", header)
	}

	table := &domain.CanonicalTable{
		Fields:     columns.Fields(),
		Warnings:   warnings,
		SourceRows: len(rows),
	}

	for _, row := range rows {
		rec, ok := n.record(row, columns)
		if !ok {
			continue
		}
		table.Records = append(table.Records, rec)
	}

	reportDate, err := n.reportDate(rows, table, columns)
	if err != nil {
		return nil, time.Time{}, apierrors.NewParsingError("無法判讀報表日期", err).
			WithContext("file", name)
	}

	// Rows whose own date cell is unreadable take the report date.
	for i := range table.Records {
		if table.Records[i].Date.IsZero() {
			table.Records[i].Date = reportDate
		}
	}

	n.logger.InfoContext(ctx, "normalized POS export",
		slog.String("file", name),
		slog.String("format", string(DetectFormat(name))),
		slog.Int("source_rows", table.SourceRows),
		slog.Int("kept_rows", len(table.Records)),
		slog.Int("dropped_rows", table.SourceRows-len(table.Records)),
		slog.Any("fields", table.Fields),
		slog.String("report_date", reportDate.Format("2006-01-02")))

	return table, reportDate, nil
}

// record builds one shift record, reporting false for rows without a store name
func (n *Normalizer) record(row []string, columns ColumnMap) (domain.ShiftRecord, bool) {
	store := strings.TrimSpace(field(row, columns, domain.FieldStore))
	if store == "" {
		return domain.ShiftRecord{}, false
	}

	rawRegion := field(row, columns, domain.FieldRegion)
	rec := domain.ShiftRecord{
		Region:    ClassifyRegion(rawRegion),
		Store:     store,
		Shift:     strings.TrimSpace(field(row, columns, domain.FieldShift)),
		Attendant: strings.TrimSpace(field(row, columns, domain.FieldAttendant)),
		SalesItem: ParseAmount(field(row, columns, domain.FieldSalesItem)),
		Collected: ParseAmount(field(row, columns, domain.FieldCollected)),
		Variance:  ParseAmount(field(row, columns, domain.FieldVariance)).Neg(),
		SubBrand:  strings.Contains(rawRegion, domain.SubBrandMarker),
	}

	if d, err := ParseDate(field(row, columns, domain.FieldDate)); err == nil {
		rec.Date = d
	}

	return rec, true
}

// reportDate reads the date cell of the first kept row
func (n *Normalizer) reportDate(rows [][]string, table *domain.CanonicalTable, columns ColumnMap) (time.Time, error) {
	if table.Empty() {
		now := n.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}

	for _, row := range rows {
		if strings.TrimSpace(field(row, columns, domain.FieldStore)) == "" {
			continue
		}
		return ParseDate(field(row, columns, domain.FieldDate))
	}
	return time.Time{}, nil
}

// field returns the cell of a canonical field, or "" when the field is
// unmatched or the row is short
func field(row []string, columns ColumnMap, name string) string {
	i, ok := columns.Index(name)
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
