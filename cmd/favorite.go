package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cellarkeep/cellar-cli/internal/store"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite",
	Short: "Manage your favorite beverages",
}

var favoriteAddCmd = &cobra.Command{
	Use:   "add <beverage-id>",
	Short: "Mark a beverage as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		// Reject ids that are not in the catalog.
		if _, err := st.GetBeverage(ctx, args[0]); err != nil {
			return eris.Wrap(err, "favorite add")
		}
		return st.AddFavorite(ctx, args[0])
	},
}

var favoriteRemoveCmd = &cobra.Command{
	Use:   "remove <beverage-id>",
	Short: "Remove a beverage from your favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return st.RemoveFavorite(ctx, args[0])
	},
}

var favoriteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your favorite beverages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		ids, err := st.ListFavorites(ctx)
		if err != nil {
			return eris.Wrap(err, "favorite list")
		}
		if len(ids) == 0 {
			fmt.Fprintln(os.Stderr, "No favorites yet.")
			return nil
		}

		catalog, err := st.ListBeverages(ctx, store.CatalogFilter{})
		if err != nil {
			return eris.Wrap(err, "favorite list")
		}
		byID := make(map[string]int, len(catalog))
		for i, b := range catalog {
			byID[b.ID] = i
		}

		for _, id := range ids {
			if i, ok := byID[id]; ok {
				fmt.Printf("%s\t%s\n", id, displayName(catalog[i]))
			} else {
				fmt.Printf("%s\t(no longer in catalog)\n", id)
			}
		}
		return nil
	},
}

func init() {
	favoriteCmd.AddCommand(favoriteAddCmd)
	favoriteCmd.AddCommand(favoriteRemoveCmd)
	favoriteCmd.AddCommand(favoriteListCmd)
	rootCmd.AddCommand(favoriteCmd)
}
