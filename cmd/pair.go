package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var pairFormat string

var pairCmd = &cobra.Command{
	Use:   "pair <dish> [dish...]",
	Short: "Suggest beverages for the dishes you are serving",
	Long:  "Matches dishes against each beverage's food pairings and flavor profile, and ranks the in-stock catalog by pairing confidence.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		results, err := eng.PairDishes(snap, args)
		if err != nil {
			return eris.Wrap(err, "pair")
		}

		if pairFormat == "json" {
			return printJSON(results)
		}
		if len(results) == 0 {
			fmt.Fprintln(os.Stderr, "No pairings found for those dishes.")
			return nil
		}
		formatPairings(os.Stdout, results)
		return nil
	},
}

func init() {
	pairCmd.Flags().StringVar(&pairFormat, "format", "table", "output format (table, json)")
	rootCmd.AddCommand(pairCmd)
}
