package analysis

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

var (
	zipMagic           = []byte("PK\x03\x04")
	workbookExtensions = map[string]bool{".xlsx": true, ".xlsm": true, ".xltx": true, ".xltm": true}
)

// IsWorkbook reports whether the upload should be decoded as an OOXML workbook
func IsWorkbook(fileName string, data []byte) bool {
	return workbookExtensions[strings.ToLower(filepath.Ext(fileName))] || bytes.HasPrefix(data, zipMagic)
}

// Workbook wraps an excelize file opened from memory
type Workbook struct {
	file *excelize.File
}

// OpenWorkbook opens workbook bytes
func OpenWorkbook(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Workbook{file: f}, nil
}

// Sheets lists sheet names in workbook order
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// ResolveSheet returns requested when it exists, otherwise Sheet1 when
// nothing was requested, otherwise the first sheet.
func (w *Workbook) ResolveSheet(requested string) (string, error) {
	sheets := w.Sheets()
	if len(sheets) == 0 {
		return "", ErrEmptyInput
	}

	if requested != "" {
		for _, s := range sheets {
			if s == requested {
				return s, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrSheetNotFound, requested)
	}

	for _, s := range sheets {
		if s == defaultSheet {
			return s, nil
		}
	}
	return sheets[0], nil
}

// Rows returns the cell text of a sheet
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// Close releases the workbook
func (w *Workbook) Close() error {
	return w.file.Close()
}
