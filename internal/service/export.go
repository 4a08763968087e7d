package service

import (
	"encoding/csv"
	"io"
	"mime"
	"regexp"
	"strings"

	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

// Export headers keep the column names of the planner's original export format
var (
	selectedHeader = []string{"KW", "Volumn", "KD"}
	listHeader     = []string{"Keyword", "Volume", "Value"}
)

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]`)

// ExportService writes keyword selections as CSV
type ExportService struct{}

// NewExportService creates an export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// SelectedCSV writes the table rows whose keyword is among keywords, in table
// order. Selections and table keywords are compared both raw and cleaned. It
// returns the number of rows written.
func (s *ExportService) SelectedCSV(w io.Writer, table *models.Table, info models.DataAnalysisResult, keywords []string) (int, error) {
	wanted := make(map[string]bool, len(keywords)*2)
	for _, kw := range keywords {
		wanted[kw] = true
		wanted[CleanKeyword(kw)] = true
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(selectedHeader); err != nil {
		return 0, err
	}

	n := 0
	for _, row := range table.Rows {
		kw := row[info.KeywordColumn]
		if !wanted[kw] && !wanted[CleanKeyword(kw)] {
			continue
		}
		if err := cw.Write([]string{CleanKeyword(kw), row[info.VolumeColumn], row[info.ValueColumn]}); err != nil {
			return n, err
		}
		n++
	}

	cw.Flush()
	return n, cw.Error()
}

// ListCSV writes a saved list
func (s *ExportService) ListCSV(w io.Writer, list *models.SavedList) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(listHeader); err != nil {
		return err
	}
	for _, kw := range list.Keywords {
		if err := cw.Write([]string{kw.Keyword, kw.Volume, kw.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName names the download for a selection taken from sheet
func ExportFileName(sheet string) string {
	if sheet == "" {
		return "selected_keywords.csv"
	}
	return "selected_keywords_" + sheet + ".csv"
}

// ListFileName names the download for a saved list
func ListFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(strings.ToLower(name), "_") + "_keywords.csv"
}

// ContentDisposition builds an attachment header value for fileName. Non-ASCII
// names are carried in the RFC 2231 filename* form.
func ContentDisposition(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}
