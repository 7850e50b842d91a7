// Command cmapstat builds a fixture combinatorial map, embeds its cells and
// prints cell counts, degrees and consistency information.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/cellmap/testutil"
)

var (
	threads int
	quick   bool
	output  string
	verbose bool

	rows  int
	cols  int
	sides int

	rootCmd = &cobra.Command{
		Use:   "cmapstat",
		Short: "Inspect the embedding of fixture combinatorial maps",
		Long: `cmapstat builds a closed 2-map fixture, gives every vertex, edge,
face and volume its own record and reports cell counts, degrees, cache
statistics and the result of the consistency check.`,
		SilenceUsage: true,
	}

	gridCmd = &cobra.Command{
		Use:   "grid",
		Short: "Report on a closed rows x cols quad grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rows < 1 || cols < 1 {
				return fmt.Errorf("grid needs at least one row and column, got %dx%d", rows, cols)
			}
			return run(cmd.OutOrStdout(), config{
				fixture: fmt.Sprintf("grid %dx%d", rows, cols),
				build:   func(t *testutil.Map2) { t.Grid(rows, cols) },
				threads: threads,
				quick:   quick,
				output:  output,
				verbose: verbose,
			})
		},
	}

	polygonCmd = &cobra.Command{
		Use:   "polygon",
		Short: "Report on a closed polygon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sides < 1 {
				return fmt.Errorf("polygon needs at least one side, got %d", sides)
			}
			return run(cmd.OutOrStdout(), config{
				fixture: fmt.Sprintf("polygon %d", sides),
				build:   func(t *testutil.Map2) { t.NewFace(sides) },
				threads: threads,
				quick:   quick,
				output:  output,
				verbose: verbose,
			})
		},
	}
)

func init() {
	rootCmd.PersistentFlags().IntVar(&threads, "threads", 4, "marker threads used for the degree sweep")
	rootCmd.PersistentFlags().BoolVar(&quick, "quick", false, "enable quick traversal caches before reporting")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table|yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	gridCmd.Flags().IntVar(&rows, "rows", 4, "number of quad rows")
	gridCmd.Flags().IntVar(&cols, "cols", 4, "number of quad columns")
	polygonCmd.Flags().IntVar(&sides, "sides", 6, "number of polygon sides")

	rootCmd.AddCommand(gridCmd, polygonCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
