package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/beingshakil/keyword-planner-tool/internal/analysis"
	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

var (
	parseSheet string
	parseRows  int
)

// parseCmd prints the structure of an import
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a keyword export and print its table as JSON",
	Long: `Imports a delimited text file or an Excel workbook and prints the detected
headers, the repair warnings, the column analysis and the first rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseSheet, "sheet", "", "Workbook sheet to read (default: Sheet1 or the first sheet)")
	parseCmd.Flags().IntVarP(&parseRows, "rows", "n", 10, "Number of rows to print")
}

type parseOutput struct {
	FileName     string                    `json:"file_name"`
	Format       string                    `json:"format"`
	Sheets       []string                  `json:"sheets"`
	CurrentSheet string                    `json:"current_sheet"`
	Delimiter    string                    `json:"delimiter,omitempty"`
	Headers      []string                  `json:"headers"`
	RowCount     int                       `json:"row_count"`
	Warnings     []models.ParseWarning     `json:"warnings,omitempty"`
	Analysis     models.DataAnalysisResult `json:"analysis"`
	Profiles     []models.ColumnProfile    `json:"profiles"`
	Rows         []models.Record           `json:"rows"`
}

func runParse(cmd *cobra.Command, args []string) error {
	res, err := importFile(commandContext(cmd), args[0], parseSheet)
	if err != nil {
		return err
	}

	n := min(max(parseRows, 0), res.Table.NumRows())
	out := parseOutput{
		FileName:     res.FileName,
		Format:       res.Format,
		Sheets:       res.Sheets,
		CurrentSheet: res.CurrentSheet,
		Delimiter:    res.Table.Delimiter,
		Headers:      res.Table.Headers,
		RowCount:     res.Table.NumRows(),
		Warnings:     res.Table.Warnings,
		Analysis:     res.Analysis,
		Profiles:     analysis.ProfileTable(res.Table),
		Rows:         res.Table.Rows[:n],
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
