package models

// Record is one parsed data row keyed by header name
type Record map[string]string

// Warning kinds recorded while building a Table
const (
	WarningHeaderRecovered   = "header_recovered"
	WarningPlaceholderHeader = "placeholder_header"
	WarningRowPadded         = "row_padded"
	WarningRowTruncated      = "row_truncated"
	WarningBinaryContent     = "binary_content"
)

// ParseWarning describes an anomaly that was repaired instead of failing the parse.
// Line is 1-based in the original input, 0 when not tied to a line.
type ParseWarning struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line,omitempty"`
	Detail string `json:"detail"`
}

// Table holds ordered headers and the rows built from them
type Table struct {
	Headers   []string       `json:"headers"`
	Rows      []Record       `json:"rows"`
	Delimiter string         `json:"delimiter,omitempty"`
	Warnings  []ParseWarning `json:"warnings,omitempty"`
}

// NumRows returns the number of records
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumColumns returns the number of headers
func (t *Table) NumColumns() int {
	if t == nil {
		return 0
	}
	return len(t.Headers)
}

// HasHeader reports whether name is one of the table headers
func (t *Table) HasHeader(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order
func (t *Table) Column(name string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// Warn appends a warning
func (t *Table) Warn(kind string, line int, detail string) {
	t.Warnings = append(t.Warnings, ParseWarning{Kind: kind, Line: line, Detail: detail})
}
