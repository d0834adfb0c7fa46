// Package exporter writes the canonical shift table of a run to CSV.
//
// CSVWriter is the low-level writer with optional UTF-8 BOM for Excel.
// TableExporter lays a CanonicalTable out in CanonicalHeaders order and
// places the file under the exports directory unless a path is given.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths, logger)
//	path, err := exporter.NewTableExporter(paths, writer).Export(table, date, "")
package exporter
