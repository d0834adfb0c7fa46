package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook is the month workbook owned by one run. It is loaded from the
// caller's bytes, mutated in memory and serialized back; nothing is shared
// between runs.
type Workbook struct {
	file *excelize.File
	// fresh is set until the placeholder sheet of a new workbook is replaced.
	fresh bool
}

// NewWorkbook creates an empty workbook
func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile(), fresh: true}
}

// OpenWorkbook reads an existing month workbook. Empty input yields a new one.
func OpenWorkbook(data []byte) (*Workbook, error) {
	if len(data) == 0 {
		return NewWorkbook(), nil
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// SheetNames lists sheets in workbook order
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Bytes serializes the workbook
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the workbook's temporary resources
func (w *Workbook) Close() error {
	return w.file.Close()
}

// resetSheet leaves an empty sheet called name at the end of the workbook and
// makes it active. It reports whether a sheet of that name was replaced.
func (w *Workbook) resetSheet(name string) (bool, error) {
	f := w.file

	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return false, err
	}

	replaced := idx != -1

	switch {
	case idx == -1 && w.fresh:
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return false, err
		}
	case idx == -1:
		if _, err := f.NewSheet(name); err != nil {
			return false, err
		}
	default:
		// DeleteSheet refuses to remove the only sheet, so the replacement
		// is created under a temporary name first.
		tmp := "~" + name
		if _, err := f.NewSheet(tmp); err != nil {
			return false, err
		}
		if err := f.DeleteSheet(name); err != nil {
			return false, err
		}
		if err := f.SetSheetName(tmp, name); err != nil {
			return false, err
		}
	}
	w.fresh = false

	idx, err = f.GetSheetIndex(name)
	if err != nil {
		return false, err
	}
	f.SetActiveSheet(idx)

	return replaced, nil
}
