package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"storereport/internal/config"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	return &CSVWriter{
		paths:  paths,
		logger: logger.With(slog.String("component", "csv_writer")),
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM so Excel detects the encoding
}

// WriteCSV writes data to a CSV file and returns the resolved path
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if err := Write(file, options); err != nil {
		return "", err
	}
	return fullPath, nil
}

// Write encodes options to out. Headers and the BOM are skipped when appending.
func Write(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix && !options.Append {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// resolvePath places relative paths under the exports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetExportPath(filePath)
}
