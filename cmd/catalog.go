package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cellarkeep/cellar-cli/internal/model"
	"github.com/cellarkeep/cellar-cli/internal/store"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the beverage catalog",
}

// -- catalog import --

var catalogImportFile string

// catalogFile is the YAML shape accepted by catalog import.
type catalogFile struct {
	Beverages []model.Beverage `yaml:"beverages"`
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import beverages from a YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(catalogImportFile)
		if err != nil {
			return eris.Wrap(err, "catalog import: read file")
		}

		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return eris.Wrap(err, "catalog import: parse yaml")
		}
		if len(file.Beverages) == 0 {
			return eris.New("catalog import: no beverages in file")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		for i, b := range file.Beverages {
			if err := st.UpsertBeverage(ctx, b); err != nil {
				return eris.Wrapf(err, "catalog import: beverage %d (%s)", i, b.ID)
			}
		}

		zap.L().Info("catalog import complete",
			zap.Int("beverages", len(file.Beverages)),
			zap.String("file", catalogImportFile),
		)
		return nil
	},
}

// -- catalog list --

var (
	catalogListCategory string
	catalogListInStock  bool
)

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List beverages in the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		beverages, err := st.ListBeverages(ctx, store.CatalogFilter{
			Category:    model.Category(catalogListCategory),
			OnlyInStock: catalogListInStock,
		})
		if err != nil {
			return eris.Wrap(err, "catalog list")
		}

		if len(beverages) == 0 {
			fmt.Fprintln(os.Stderr, "Catalog is empty.")
			return nil
		}
		formatCatalog(os.Stdout, beverages)
		return nil
	},
}

// -- catalog show --

var catalogShowCmd = &cobra.Command{
	Use:   "show <beverage-id>",
	Short: "Show full details of a beverage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		b, err := st.GetBeverage(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "catalog show")
		}
		return printJSON(b)
	},
}

func init() {
	catalogImportCmd.Flags().StringVar(&catalogImportFile, "file", "", "path to YAML catalog file (required)")
	_ = catalogImportCmd.MarkFlagRequired("file")

	catalogListCmd.Flags().StringVar(&catalogListCategory, "category", "", "filter by category (wine, beer, spirit, cocktail, non-alcoholic)")
	catalogListCmd.Flags().BoolVar(&catalogListInStock, "in-stock", false, "show only in-stock beverages")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}
