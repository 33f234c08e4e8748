package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record and review tastings",
}

// -- journal add --

var (
	journalRating int
	journalNotes  string
)

var journalAddCmd = &cobra.Command{
	Use:   "add <beverage-id>",
	Short: "Record a tasting with a 1-5 rating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		// Denormalize type and category so the entry stays meaningful even
		// if the beverage later leaves the catalog.
		b, err := st.GetBeverage(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "journal add")
		}

		entry, err := st.AddJournalEntry(ctx, model.JournalEntry{
			BeverageID:   b.ID,
			BeverageType: b.Type,
			Category:     b.Category,
			Rating:       journalRating,
			Notes:        journalNotes,
		})
		if err != nil {
			return eris.Wrap(err, "journal add")
		}

		zap.L().Info("tasting recorded",
			zap.String("entry", entry.ID),
			zap.String("beverage", b.ID),
			zap.Int("rating", entry.Rating),
		)
		return nil
	},
}

// -- journal list --

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasting history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		entries, err := st.ListJournal(ctx)
		if err != nil {
			return eris.Wrap(err, "journal list")
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No tastings recorded yet.")
			return nil
		}
		formatJournal(os.Stdout, entries)
		return nil
	},
}

// formatJournal writes a tabular tasting history to w.
func formatJournal(out io.Writer, entries []model.JournalEntry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tBEVERAGE\tTYPE\tRATING\tNOTES")
	_, _ = fmt.Fprintln(w, "----\t--------\t----\t------\t-----")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d/5\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.BeverageID,
			e.BeverageType,
			e.Rating,
			e.Notes,
		)
	}
	_ = w.Flush()
}

func init() {
	journalAddCmd.Flags().IntVar(&journalRating, "rating", 0, "rating from 1 to 5 (required)")
	journalAddCmd.Flags().StringVar(&journalNotes, "notes", "", "tasting notes")
	_ = journalAddCmd.MarkFlagRequired("rating")

	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalListCmd)
	rootCmd.AddCommand(journalCmd)
}
