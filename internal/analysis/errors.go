package analysis

import "errors"

var (
	// ErrEmptyInput is returned when there is nothing to parse
	ErrEmptyInput = errors.New("cannot parse empty file")
	// ErrNoHeaderFound is returned when no line looks like a header row
	ErrNoHeaderFound = errors.New("could not detect a table structure")
	// ErrUnsupportedFormat is returned for binary formats no decoder handles
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrSheetNotFound is returned when a requested sheet is not in the workbook
	ErrSheetNotFound = errors.New("sheet not found")
)
