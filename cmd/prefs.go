package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage your stated preference profile",
	Long:  "A stated profile overrides preference learning. Clear it to go back to recommendations learned from your favorites and journal.",
}

// -- prefs set --

var (
	prefsTypes       []string
	prefsMinPrice    float64
	prefsMaxPrice    float64
	prefsBody        int
	prefsSweetness   int
	prefsTannins     int
	prefsAcidity     int
	prefsAvoidTannin bool
)

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set an explicit preference profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		profile := model.PreferenceProfile{
			PreferredTypes: prefsTypes,
			Flavor: model.FlavorProfile{
				Body:      prefsBody,
				Sweetness: prefsSweetness,
				Tannins:   prefsTannins,
				Acidity:   prefsAcidity,
			},
			AvoidHighTannins: prefsAvoidTannin,
		}
		if cmd.Flags().Changed("min-price") || cmd.Flags().Changed("max-price") {
			profile.PriceRange = &model.PriceRange{Min: prefsMinPrice, Max: prefsMaxPrice}
		}
		if err := profile.Validate(); err != nil {
			return eris.Wrap(err, "prefs set")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return st.SavePreferences(ctx, profile)
	},
}

// -- prefs show --

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored preference profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		profile, err := st.GetPreferences(ctx)
		if err != nil {
			return eris.Wrap(err, "prefs show")
		}
		if profile == nil {
			fmt.Fprintln(os.Stderr, "No stated preferences. Recommendations use learned preferences.")
			return nil
		}
		return printJSON(profile)
	},
}

// -- prefs clear --

var prefsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stated profile and return to learned preferences",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return st.ClearPreferences(ctx)
	},
}

func init() {
	def := model.DefaultFlavorProfile()
	prefsSetCmd.Flags().StringSliceVar(&prefsTypes, "types", nil, "preferred beverage types (e.g. red,stout)")
	prefsSetCmd.Flags().Float64Var(&prefsMinPrice, "min-price", 0, "minimum price")
	prefsSetCmd.Flags().Float64Var(&prefsMaxPrice, "max-price", 0, "maximum price")
	prefsSetCmd.Flags().IntVar(&prefsBody, "body", def.Body, "preferred body (1-5)")
	prefsSetCmd.Flags().IntVar(&prefsSweetness, "sweetness", def.Sweetness, "preferred sweetness (1-5)")
	prefsSetCmd.Flags().IntVar(&prefsTannins, "tannins", def.Tannins, "preferred tannins (1-5)")
	prefsSetCmd.Flags().IntVar(&prefsAcidity, "acidity", def.Acidity, "preferred acidity (1-5)")
	prefsSetCmd.Flags().BoolVar(&prefsAvoidTannin, "avoid-high-tannins", false, "penalize tannic beverages")

	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsClearCmd)
	rootCmd.AddCommand(prefsCmd)
}
