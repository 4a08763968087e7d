package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

func TestTableFromRows(t *testing.T) {
	rows := [][]string{
		{" KW ", "Volumn", "KD"},
		{"seo", "10K", "35"},
		{"", " ", ""},
		{"ppc", "1K"},
		{"sem", "100", "12", "extra"},
	}
	table, err := TableFromRows(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"KW", "Volumn", "KD"}, table.Headers)
	assert.Equal(t, []models.Record{
		{"KW": "seo", "Volumn": "10K", "KD": "35"},
		{"KW": "ppc", "Volumn": "1K", "KD": ""},
		{"KW": "sem", "Volumn": "100", "KD": "12"},
	}, table.Rows)

	require.Len(t, table.Warnings, 2)
	assert.Equal(t, models.WarningRowPadded, table.Warnings[0].Kind)
	assert.Equal(t, 4, table.Warnings[0].Line)
	assert.Equal(t, models.WarningRowTruncated, table.Warnings[1].Kind)
	assert.Equal(t, 5, table.Warnings[1].Line)
}

func TestTableFromRowsPlaceholderHeader(t *testing.T) {
	table, err := TableFromRows([][]string{{"keyword", "  "}, {"seo", "1"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(table.Headers[1], "Column_"))
	assert.Equal(t, "1", table.Rows[0][table.Headers[1]])
}

func TestTableFromRowsHeaderOnly(t *testing.T) {
	table, err := TableFromRows([][]string{{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []models.Record{{"a": "", "b": ""}}, table.Rows)
}

func TestTableFromRowsErrors(t *testing.T) {
	_, err := TableFromRows(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = TableFromRows([][]string{{}, {"x"}})
	assert.ErrorIs(t, err, ErrNoHeaderFound)
}
