package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

// Number of non-empty values inspected per column when inferring its type
const typeSampleSize = 20

var (
	keywordColumnNames = []string{"keyword", "kw", "key word", "keywords", "term", "query"}
	volumeColumnNames  = []string{"volume", "volumn", "vol", "search volume", "monthly volume", "search_volume"}
	volumeColumnHints  = []string{"volume", "volumn"}
	valueColumnNames   = []string{"kd", "value", "keyword difficulty", "difficulty"}
)

// AnalyzeTable infers column types and locates the keyword, volume and value columns
func AnalyzeTable(table *models.Table) models.DataAnalysisResult {
	result := models.DataAnalysisResult{
		NumRows:        table.NumRows(),
		NumColumns:     table.NumColumns(),
		ColumnNames:    table.Headers,
		ColumnTypes:    make(map[string]string, table.NumColumns()),
		NumericColumns: []string{},
	}

	for _, col := range table.Headers {
		colType := inferColumnType(table, col)
		result.ColumnTypes[col] = colType

		switch colType {
		case models.ColumnTypeInt, models.ColumnTypeFloat, models.ColumnTypeVolume:
			result.HasNumeric = true
			result.NumericColumns = append(result.NumericColumns, col)
		case models.ColumnTypeDate:
			result.HasDates = true
		default:
			result.HasText = true
			// Check if name implies date even if data didn't parse easily
			if containsAny(strings.ToLower(col), []string{"date", "time", "timestamp"}) {
				result.HasDates = true
			}
		}
	}

	detectColumns(table.Headers, []columnRole{
		{target: &result.KeywordColumn, names: keywordColumnNames, hints: keywordColumnNames, fallback: 0},
		{target: &result.VolumeColumn, names: volumeColumnNames, hints: volumeColumnHints, fallback: 1},
		{target: &result.ValueColumn, names: valueColumnNames, fallback: 2},
	})

	return result
}

// columnRole is one column to locate: by exact name, then by substring hint,
// then by position
type columnRole struct {
	target   *string
	names    []string
	hints    []string
	fallback int
}

// detectColumns assigns each role a distinct header. Every role gets a chance
// at an exact name before any role falls back to hints, and positions come
// last, so a named column is never claimed by another role's fallback.
func detectColumns(headers []string, roles []columnRole) {
	taken := map[string]bool{}
	claim := func(r columnRole, h string) {
		*r.target = h
		taken[h] = true
	}

	exact := func(h, name string) bool { return strings.EqualFold(strings.TrimSpace(h), name) }
	contains := func(h, hint string) bool { return strings.Contains(strings.ToLower(h), hint) }

	for _, r := range roles {
		if h := findHeader(headers, r.names, taken, exact); h != "" {
			claim(r, h)
		}
	}
	for _, r := range roles {
		if *r.target != "" {
			continue
		}
		if h := findHeader(headers, r.hints, taken, contains); h != "" {
			claim(r, h)
		}
	}
	for _, r := range roles {
		if *r.target == "" && r.fallback < len(headers) && !taken[headers[r.fallback]] {
			claim(r, headers[r.fallback])
		}
	}
}

// findHeader returns the first free header matching a candidate, trying
// candidates in order
func findHeader(headers, candidates []string, taken map[string]bool, match func(h, candidate string) bool) string {
	for _, c := range candidates {
		for _, h := range headers {
			if !taken[h] && match(h, c) {
				return h
			}
		}
	}
	return ""
}

// inferColumnType checks a sample of non-empty values. A column is int when
// every sampled value is an integer, float when every value is a number,
// volume when every value is a number with an optional K/M/B suffix.
func inferColumnType(table *models.Table, col string) string {
	isInt, isFloat, isVolume, isDate := true, true, true, true
	seen := 0

	for _, row := range table.Rows {
		if seen == typeSampleSize {
			break
		}
		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		seen++

		switch inferTypeFromValue(val) {
		case models.ColumnTypeInt:
			isDate = false
		case models.ColumnTypeFloat:
			isInt, isDate = false, false
		case models.ColumnTypeVolume:
			isInt, isFloat, isDate = false, false, false
		case models.ColumnTypeDate:
			isInt, isFloat, isVolume = false, false, false
		default:
			return models.ColumnTypeString
		}
	}

	switch {
	case seen == 0:
		return models.ColumnTypeString
	case isInt:
		return models.ColumnTypeInt
	case isFloat:
		return models.ColumnTypeFloat
	case isVolume:
		return models.ColumnTypeVolume
	case isDate:
		return models.ColumnTypeDate
	}
	return models.ColumnTypeString
}

func inferTypeFromValue(val string) string {
	if _, err := strconv.Atoi(val); err == nil {
		return models.ColumnTypeInt
	}
	if _, err := strconv.ParseFloat(val, 64); err == nil {
		return models.ColumnTypeFloat
	}
	if _, ok := ParseVolume(val); ok {
		return models.ColumnTypeVolume
	}
	if isDateString(val) {
		return models.ColumnTypeDate
	}
	return models.ColumnTypeString
}

func isDateString(val string) bool {
	formats := []string{
		time.RFC3339,
		"2006-01-02",
		"02/01/2006",
		"01/02/2006",
		"2006/01/02",
	}
	for _, f := range formats {
		if _, err := time.Parse(f, val); err == nil {
			return true
		}
	}
	return false
}

// ColumnStats computes basic stats for a numeric column. Volume figures with
// K/M/B suffixes are expanded; unparseable cells are skipped.
func ColumnStats(table *models.Table, col string) (models.ColumnStat, error) {
	if !table.HasHeader(col) {
		return models.ColumnStat{}, fmt.Errorf("unknown column %q", col)
	}

	var values stats.Float64Data
	for _, raw := range table.Column(col) {
		if v, ok := ParseVolume(raw); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return models.ColumnStat{}, fmt.Errorf("column %q has no numeric values", col)
	}

	out := models.ColumnStat{Column: col, Count: len(values)}
	var err error
	if out.Min, err = values.Min(); err != nil {
		return models.ColumnStat{}, err
	}
	if out.Max, err = values.Max(); err != nil {
		return models.ColumnStat{}, err
	}
	if out.Mean, err = values.Mean(); err != nil {
		return models.ColumnStat{}, err
	}
	if out.Median, err = values.Median(); err != nil {
		return models.ColumnStat{}, err
	}
	if out.Sum, err = values.Sum(); err != nil {
		return models.ColumnStat{}, err
	}
	return out, nil
}

// NumericStats returns ColumnStats for every numeric column of an analysed table
func NumericStats(table *models.Table, result models.DataAnalysisResult) []models.ColumnStat {
	out := make([]models.ColumnStat, 0, len(result.NumericColumns))
	for _, col := range result.NumericColumns {
		st, err := ColumnStats(table, col)
		if err != nil {
			continue
		}
		out = append(out, st)
	}
	return out
}
