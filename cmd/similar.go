package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var similarFormat string

var similarCmd = &cobra.Command{
	Use:   "similar <beverage-id>",
	Short: "Find beverages similar to one you know",
	Args:  cobra.ExactArgs(1),
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

		results, err := eng.Similar(snap, args[0])
		if err != nil {
			return eris.Wrap(err, "similar")
		}

		if similarFormat == "json" {
			return printJSON(results)
		}
		if len(results) == 0 {
			fmt.Fprintln(os.Stderr, "Nothing similar enough in stock.")
			return nil
		}
		formatScored(os.Stdout, results)
		return nil
	},
}

func init() {
	similarCmd.Flags().StringVar(&similarFormat, "format", "table", "output format (table, json)")
	rootCmd.AddCommand(similarCmd)
}
