package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

const (
	// A first line longer than this is treated as junk (binary preamble, notes)
	maxHeaderLineLength = 500
	// Header recovery looks no further than this many lines
	headerScanLines = 20
)

var sniffCandidates = []rune{',', ';', '\t', '|'}

var binaryMarkers = []string{"PK", "Workbook", "Microsoft Excel"}

// ParseDelimited builds a Table from delimited text. The delimiter and the
// header row are detected from the content. Malformed rows are padded or
// truncated and reported in Table.Warnings; only empty input or a missing
// header row is an error.
func ParseDelimited(raw string) (*models.Table, error) {
	if raw == "" {
		return nil, ErrEmptyInput
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	table := &models.Table{}

	delim, fallback := sniffDelimiter(lines[0])
	if fallback && containsAny(raw, binaryMarkers) {
		table.Warn(models.WarningBinaryContent, 0,
			"content looks like a spreadsheet saved with a text extension; export it as CSV")
	}
	table.Delimiter = string(delim)

	headerIdx, err := locateHeader(lines, delim)
	if err != nil {
		return nil, err
	}
	if headerIdx > 0 {
		table.Warn(models.WarningHeaderRecovered, headerIdx+1,
			fmt.Sprintf("skipped %d line(s) before the header row", headerIdx))
	}

	table.Headers = assignHeaders(strings.Split(lines[headerIdx], string(delim)), cleanHeader, table, headerIdx+1)
	if len(table.Headers) == 0 {
		return nil, ErrNoHeaderFound
	}

	rb := newRowBuilder(table)
	for i := headerIdx + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		rb.add(tokenizeLine(line, delim), i+1)
	}
	rb.finish()

	return table, nil
}

// sniffDelimiter picks the column separator from the first line. Tab wins
// over semicolon, semicolon over comma. Without any of those the most
// frequent of , ; tab | is used; fallback is true when nothing occurred more
// than once and comma was assumed.
func sniffDelimiter(first string) (rune, bool) {
	switch {
	case strings.ContainsRune(first, '\t'):
		return '\t', false
	case strings.ContainsRune(first, ';'):
		return ';', false
	case strings.ContainsRune(first, ','):
		return ',', false
	}

	best, bestCount := ',', 0
	for _, d := range sniffCandidates {
		if n := strings.Count(first, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	if bestCount <= 1 {
		return ',', true
	}
	return best, false
}

// locateHeader returns the index of the header line. A first line that is
// too long or lacks the delimiter is replaced by the first of the next lines
// that splits into more than one field.
func locateHeader(lines []string, delim rune) (int, error) {
	first := lines[0]
	tooLong := utf8.RuneCountInString(first) > maxHeaderLineLength
	if !tooLong && strings.ContainsRune(first, delim) {
		return 0, nil
	}

	for i := 1; i < min(headerScanLines, len(lines)); i++ {
		if strings.ContainsRune(lines[i], delim) {
			return i, nil
		}
	}

	// single-column text is still a table
	if tooLong || strings.TrimSpace(first) == "" {
		return 0, ErrNoHeaderFound
	}
	return 0, nil
}

// tokenizeLine splits one data line. A quote opens a quoted section anywhere
// but only closes it when followed by the delimiter or the end of the line;
// the delimiter is literal inside a quoted section.
func tokenizeLine(line string, delim rune) []string {
	runes := []rune(line)
	fields := make([]string, 0, 8)
	var cur strings.Builder
	inQuote := false

	for i, ch := range runes {
		if ch == '"' || ch == '\'' {
			last := i+1 == len(runes)
			if !inQuote || last || runes[i+1] == delim {
				inQuote = !inQuote
				continue
			}
		}
		if ch == delim && !inQuote {
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(ch)
	}
	fields = append(fields, strings.TrimSpace(cur.String()))

	for i, f := range fields {
		fields[i] = stripWrappingQuotes(f)
	}
	return fields
}

// stripWrappingQuotes removes one matching pair of surrounding quotes
func stripWrappingQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
