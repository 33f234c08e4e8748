package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cellarkeep/cellar-cli/internal/model"
)

var titleCaser = cases.Title(language.English)

// displayName renders a beverage name with its type, e.g. "Barolo (Red Wine)".
func displayName(b model.Beverage) string {
	if b.Type == "" {
		return b.Name
	}
	kind := titleCaser.String(b.Type + " " + string(b.Category))
	return fmt.Sprintf("%s (%s)", b.Name, kind)
}

func formatPrice(p float64) string {
	if p <= 0 {
		return "-"
	}
	return fmt.Sprintf("$%.2f", p)
}

// formatScored writes a tabular list of scored results to w.
func formatScored(out io.Writer, results []model.ScoredResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCORE\tBEVERAGE\tPRICE\tWHY")
	_, _ = fmt.Fprintln(w, "-----\t--------\t-----\t---")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			r.Score,
			displayName(r.Beverage),
			formatPrice(r.Beverage.Price),
			strings.Join(r.Reasons, "; "),
		)
	}
	_ = w.Flush()
}

// formatPairings writes a tabular list of pairing results to w.
func formatPairings(out io.Writer, results []model.PairingResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CONFIDENCE\tBEVERAGE\tPRICE\tWHY")
	_, _ = fmt.Fprintln(w, "----------\t--------\t-----\t---")
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			r.Score,
			displayName(r.Beverage),
			formatPrice(r.Beverage.Price),
			strings.Join(r.Reasons, "; "),
		)
	}
	_ = w.Flush()
}

// formatCatalog writes a tabular beverage list to w.
func formatCatalog(out io.Writer, beverages []model.Beverage) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTYPE\tPRICE\tSTOCK\tFEATURED")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t----\t-----\t-----\t--------")
	for _, b := range beverages {
		stock := "in"
		if !b.InStock {
			stock = "out"
		}
		featured := ""
		if b.Featured {
			featured = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Name, b.Category, b.Type, formatPrice(b.Price), stock, featured)
	}
	_ = w.Flush()
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
