package normalize

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// Format is the tabular container of an upload
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoHeader is returned when the upload has no header row
var ErrNoHeader = errors.New("file has no header row")

// DetectFormat branches on the file extension only. Anything that is not
// .xlsx/.xlsm is read as CSV.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// ReadTable parses an upload into its header and data rows
func ReadTable(name string, data []byte) ([]string, [][]string, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%s: file is empty", name)
	}

	var (
		records [][]string
		err     error
	)
	switch DetectFormat(name) {
	case FormatXLSX:
		records, err = readXLSX(data)
	default:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return nil, nil, ErrNoHeader
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header, records[1:], nil
}

// readCSV tries UTF-8 and falls back to Big5 when the bytes are not valid
// UTF-8 or do not parse as CSV.
func readCSV(data []byte) ([][]string, error) {
	if utf8.Valid(data) {
		records, err := parseCSV(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
		if err == nil {
			return records, nil
		}
	}

	decoded := transform.NewReader(bytes.NewReader(data), traditionalchinese.Big5.NewDecoder())
	records, err := parseCSV(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV as UTF-8 or Big5: %w", err)
	}
	return records, nil
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// readXLSX returns the raw cell values of the first sheet. Raw values keep
// dates as serial numbers, which ParseDate understands.
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
