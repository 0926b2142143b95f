package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fives-metrics/internal/aggregator"
	"github.com/pable/go-fives-metrics/internal/model"
	"github.com/pable/go-fives-metrics/internal/report"
	"github.com/pable/go-fives-metrics/internal/storage"
)

var playersMinMatches int

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Win rate and goal averages for every player",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func init() {
	playersCmd.Flags().IntVar(&playersMinMatches, "min-matches", 1, "hide players with fewer matches")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printPlayers(db, playersMinMatches)
}

func printPlayers(db *storage.DB, minMatches int) error {
	l, err := loadLeague(db)
	if err != nil {
		return err
	}
	table := aggregator.BuildPlayerStats(l.matches)
	rows := playerSummaries(table, l.names, minMatches)
	if len(rows) == 0 {
		fmt.Fprintf(os.Stdout, "No players with at least %d matches.\n", minMatches)
		return nil
	}
	report.PrintPlayerTable(os.Stdout, rows, model.Empty)
	fmt.Fprintf(os.Stdout, "\n(%d players, %d matches)\n", len(rows), len(l.matches))
	return nil
}
