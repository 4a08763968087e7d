package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

// Row repairs past this count are summarised in a single warning
const maxRowWarnings = 100

// TableFromRows builds a Table from already split rows, such as the cells of a
// workbook sheet. The first row is the header; row repair follows ParseDelimited.
func TableFromRows(rows [][]string) (*models.Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	if len(rows[0]) == 0 {
		return nil, ErrNoHeaderFound
	}

	table := &models.Table{}
	table.Headers = assignHeaders(rows[0], strings.TrimSpace, table, 1)

	rb := newRowBuilder(table)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		fields := make([]string, len(row))
		for j, cell := range row {
			fields[j] = strings.TrimSpace(cell)
		}
		rb.add(fields, i+2)
	}
	rb.finish()

	return table, nil
}

// cleanHeader trims a raw header, drops one pair of wrapping quotes and keeps
// only letters, digits, underscore, hyphen and whitespace.
func cleanHeader(raw string) string {
	h := stripWrappingQuotes(strings.TrimSpace(raw))
	h = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' || r == '-' {
			return r
		}
		return -1
	}, h)
	return strings.TrimSpace(h)
}

// assignHeaders cleans every raw header and names empty ones with a unique
// Column_xxxxx placeholder. Duplicate non-empty names are kept as they are.
func assignHeaders(raw []string, clean func(string) string, table *models.Table, line int) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, r := range raw {
		headers[i] = clean(r)
		used[headers[i]] = true
	}

	for i, h := range headers {
		if h != "" {
			continue
		}
		name := placeholderHeader(used)
		used[name] = true
		headers[i] = name
		table.Warn(models.WarningPlaceholderHeader, line,
			fmt.Sprintf("column %d has no usable name, using %q", i+1, name))
	}
	return headers
}

func placeholderHeader(used map[string]bool) string {
	for {
		name := "Column_" + uuid.NewString()[:5]
		if !used[name] {
			return name
		}
	}
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowBuilder reconciles field counts with the header and appends records
type rowBuilder struct {
	table    *models.Table
	repaired int
}

func newRowBuilder(table *models.Table) *rowBuilder {
	return &rowBuilder{table: table}
}

func (b *rowBuilder) add(fields []string, line int) {
	width := len(b.table.Headers)

	switch {
	case len(fields) < width:
		b.note(models.WarningRowPadded, line,
			fmt.Sprintf("expected %d fields, got %d; padded with empty values", width, len(fields)))
		fields = append(fields, make([]string, width-len(fields))...)
	case len(fields) > width:
		b.note(models.WarningRowTruncated, line,
			fmt.Sprintf("expected %d fields, got %d; extra fields dropped", width, len(fields)))
		fields = fields[:width]
	}

	record := make(models.Record, width)
	for i, h := range b.table.Headers {
		record[h] = fields[i]
	}
	b.table.Rows = append(b.table.Rows, record)
}

func (b *rowBuilder) note(kind string, line int, detail string) {
	b.repaired++
	if b.repaired <= maxRowWarnings {
		b.table.Warn(kind, line, detail)
	}
}

// finish adds the overflow summary and guarantees at least one record
func (b *rowBuilder) finish() {
	if extra := b.repaired - maxRowWarnings; extra > 0 {
		b.table.Warn(models.WarningRowPadded, 0,
			fmt.Sprintf("%d more rows were padded or truncated", extra))
	}

	if len(b.table.Rows) == 0 {
		record := make(models.Record, len(b.table.Headers))
		for _, h := range b.table.Headers {
			record[h] = ""
		}
		b.table.Rows = append(b.table.Rows, record)
	}
}
