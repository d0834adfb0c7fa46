package exporter

import (
	"time"

	"storereport/internal/config"
	"storereport/pkg/contracts/domain"
)

// CanonicalHeaders is the column order of a canonical table export
var CanonicalHeaders = []string{
	domain.FieldRegion,
	domain.FieldStore,
	domain.FieldShift,
	domain.FieldAttendant,
	domain.FieldDate,
	domain.FieldSalesItem,
	domain.FieldCollected,
	domain.FieldVariance,
}

// RecordsToRows formats canonical records as CSV rows in source order
func RecordsToRows(records []domain.ShiftRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			string(r.Region),
			r.Store,
			r.Shift,
			r.Attendant,
			formatDate(r.Date),
			r.SalesItem.String(),
			r.Collected.String(),
			r.Variance.String(),
		})
	}
	return rows
}

// TableExporter dumps the canonical table of a run for auditing
type TableExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewTableExporter creates a new canonical table exporter
func NewTableExporter(paths *config.Paths, writer *CSVWriter) *TableExporter {
	return &TableExporter{csvWriter: writer, paths: paths}
}

// Export writes table to path, or to the dated default under the exports
// directory when path is empty. It returns the written path.
func (e *TableExporter) Export(table *domain.CanonicalTable, date time.Time, path string) (string, error) {
	if path == "" {
		path = e.paths.GetExportPathForDate(date)
	}

	var records []domain.ShiftRecord
	if table != nil {
		records = table.Records
	}

	return e.csvWriter.WriteCSV(path, WriteOptions{
		Headers:   CanonicalHeaders,
		Records:   RecordsToRows(records),
		BOMPrefix: true,
	})
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
