package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beingshakil/keyword-planner-tool/internal/service"
)

var (
	searchSheet     string
	searchThreshold float64
	searchExact     bool
	searchVolume    string
	searchSort      string
	searchDesc      bool
	searchPage      int
	searchPageSize  int
)

// searchCmd runs a keyword search over a file
var searchCmd = &cobra.Command{
	Use:   "search [file] [query]",
	Short: "Search a keyword export with fuzzy matching",
	Long: `Imports the file, keeps the rows where any cell matches the query and prints
one page of results ranked by match percentage.

Volume filters: blank, 10K-100K, 100K-1M, 1M-10M`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchSheet, "sheet", "", "Workbook sheet to search")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", service.DefaultThreshold, "Minimum match percentage for partial search")
	searchCmd.Flags().BoolVar(&searchExact, "exact", false, "Only keep exact matches")
	searchCmd.Flags().StringVar(&searchVolume, "volume", "", "Volume filter")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Column to sort by (default: the keyword column)")
	searchCmd.Flags().BoolVar(&searchDesc, "desc", false, "Sort descending")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "Result page")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "Results per page (default from config)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	res, err := importFile(ctx, args[0], searchSheet)
	if err != nil {
		return err
	}

	threshold := searchThreshold
	if !cmd.Flags().Changed("threshold") {
		threshold = cfg.Search.DefaultThreshold
	}
	mode := service.SearchPartial
	if searchExact {
		mode = service.SearchExact
	}
	var term string
	if len(args) > 1 {
		term = args[1]
	}

	searcher := service.NewKeywordSearch(service.SearchLimits{
		BatchSize:       cfg.Search.BatchSize,
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	}, logger)
	found, err := searcher.Search(ctx, res.Table, res.Analysis, service.SearchQuery{
		Term:         term,
		Mode:         mode,
		Threshold:    threshold,
		VolumeFilter: searchVolume,
		SortBy:       searchSort,
		Descending:   searchDesc,
		Page:         searchPage,
		PageSize:     searchPageSize,
	})
	if err != nil {
		return err
	}
	logger.Debug("search finished", zap.String("file", res.FileName), zap.Int("results", found.Pagination.TotalResults))

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCH\tKEYWORD\tVOLUME\tVALUE")
	for _, r := range found.Results {
		fmt.Fprintf(tw, "%.2f\t%s\t%s\t%s\n", r.MatchPercentage, r.Keyword, r.Volume, r.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := found.Pagination
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d results)\n", p.Page, p.TotalPages, p.TotalResults)
	return err
}
