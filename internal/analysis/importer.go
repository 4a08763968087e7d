package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

// Upload formats
const (
	FormatDelimited = "delimited"
	FormatWorkbook  = "workbook"
)

// ImportResult is a decoded upload together with its analysis
type ImportResult struct {
	FileName     string
	Format       string
	Sheets       []string
	CurrentSheet string
	Table        *models.Table
	Analysis     models.DataAnalysisResult
}

// Importer turns uploaded bytes into an analysed Table
type Importer struct {
	logger *zap.Logger
}

// NewImporter creates an importer; a nil logger discards output
func NewImporter(logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{logger: logger.Named("importer")}
}

// Import decodes a workbook or delimited text file. sheet selects a workbook
// sheet and is ignored for text.
func (im *Importer) Import(ctx context.Context, fileName string, data []byte, sheet string) (*ImportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fileName == "" || len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if strings.EqualFold(filepath.Ext(fileName), ".xls") {
		return nil, fmt.Errorf("%w: legacy .xls workbooks must be saved as .xlsx or CSV", ErrUnsupportedFormat)
	}

	var (
		res *ImportResult
		err error
	)
	if IsWorkbook(fileName, data) {
		res, err = im.importWorkbook(data, sheet)
	} else {
		res, err = im.importText(fileName, data)
	}
	if err != nil {
		im.logger.Warn("import failed", zap.String("file", fileName), zap.Error(err))
		return nil, err
	}

	res.FileName = fileName
	res.Analysis = AnalyzeTable(res.Table)

	for _, w := range res.Table.Warnings {
		im.logger.Warn("parse warning",
			zap.String("file", fileName),
			zap.String("kind", w.Kind),
			zap.Int("line", w.Line),
			zap.String("detail", w.Detail))
	}
	im.logger.Info("imported file",
		zap.String("file", fileName),
		zap.String("format", res.Format),
		zap.String("sheet", res.CurrentSheet),
		zap.Int("rows", res.Table.NumRows()),
		zap.Int("columns", res.Table.NumColumns()),
		zap.String("keyword_column", res.Analysis.KeywordColumn))

	return res, nil
}

func (im *Importer) importWorkbook(data []byte, requested string) (*ImportResult, error) {
	wb, err := OpenWorkbook(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer wb.Close()

	sheet, err := wb.ResolveSheet(requested)
	if err != nil {
		return nil, err
	}
	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, err
	}
	table, err := TableFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	return &ImportResult{
		Format:       FormatWorkbook,
		Sheets:       wb.Sheets(),
		CurrentSheet: sheet,
		Table:        table,
	}, nil
}

func (im *Importer) importText(fileName string, data []byte) (*ImportResult, error) {
	text, err := DecodeText(data)
	if err != nil {
		return nil, err
	}
	table, err := ParseDelimited(text)
	if err != nil {
		return nil, err
	}

	// a text file is a single sheet named after the file
	name := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	return &ImportResult{
		Format:       FormatDelimited,
		Sheets:       []string{name},
		CurrentSheet: name,
		Table:        table,
	}, nil
}
