package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

var (
	recommendTop      bool
	recommendOccasion string
	recommendFormat   string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend beverages for your taste",
	Long:  "Scores the in-stock catalog against your stated or learned preferences and prints the best matches with reasons.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := loadSnapshot(ctx, st)
		if err != nil {
			return err
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}

		var results []model.ScoredResult
		switch {
		case recommendOccasion != "":
			results, err = eng.ForOccasion(snap, recommendOccasion)
		case recommendTop:
			results, err = eng.TopPicks(snap)
		default:
			results, err = eng.Recommend(snap)
		}
		if err != nil {
			return eris.Wrap(err, "recommend")
		}

		if recommendFormat == "json" {
			return printJSON(results)
		}
		if len(results) == 0 {
			fmt.Fprintln(os.Stderr, "No recommendations above the score threshold. Try rating a few beverages or marking favorites.")
			return nil
		}
		formatScored(os.Stdout, results)
		return nil
	},
}

var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "List the staff-picked beverages currently in stock",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := loadSnapshot(ctx, st)
		if err != nil {
			return err
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}

		featured := eng.Featured(snap)
		if len(featured) == 0 {
			fmt.Fprintln(os.Stderr, "No featured beverages.")
			return nil
		}
		formatCatalog(os.Stdout, featured)
		return nil
	},
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendTop, "top", false, "show only the top picks")
	recommendCmd.Flags().StringVar(&recommendOccasion, "occasion", "", "recommend for an occasion (dinner-party, celebration, casual, gift)")
	recommendCmd.Flags().StringVar(&recommendFormat, "format", "table", "output format (table, json)")
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(featuredCmd)
}
