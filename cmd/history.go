package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fives-metrics/internal/report"
	"github.com/pable/go-fives-metrics/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored predictions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum rows to print (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printHistory(db, historyLimit)
}

func printHistory(db *storage.DB, limit int) error {
	recs, err := db.ListPredictions(limit)
	if err != nil {
		return fmt.Errorf("list predictions: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, "No predictions stored yet.")
		return nil
	}
	report.PrintHistory(os.Stdout, recs)
	return nil
}
