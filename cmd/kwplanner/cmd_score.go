package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beingshakil/keyword-planner-tool/internal/service"
)

var scoreThreshold float64

// scoreCmd scores candidates against a query
var scoreCmd = &cobra.Command{
	Use:   "score [query] [candidate...]",
	Short: "Print the similarity score of each candidate against a query",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().Float64VarP(&scoreThreshold, "threshold", "t", service.DefaultThreshold, "Score a candidate needs to count as a match")
}

func runScore(cmd *cobra.Command, args []string) error {
	query := args[0]

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tMATCH\tCANDIDATE")
	for _, candidate := range args[1:] {
		score := service.Score(query, candidate)
		match := "no"
		if score >= scoreThreshold {
			match = "yes"
		}
		fmt.Fprintf(tw, "%.2f\t%s\t%s\n", score, match, candidate)
	}
	return tw.Flush()
}
