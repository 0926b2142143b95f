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

var (
	playerPartners int
	playerRecent   int
)

// playerCmd is the cobra command for one or more players' records, partners and recent matches.
var playerCmd = &cobra.Command{
	Use:   "player <name> [<name>...]",
	Short: "Record, best partners and recent matches for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerPartners, "partners", 5, "number of duo partners to show")
	playerCmd.Flags().IntVar(&playerRecent, "recent", 10, "number of recent matches to show")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	if playerPartners < 0 || playerRecent < 0 {
		return fmt.Errorf("--partners and --recent must not be negative")
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printPlayer(db, args)
}

// printPlayer prints the player table with each named player highlighted in
// turn, followed by their duo partners and recent matches.
func printPlayer(db *storage.DB, names []string) error {
	l, err := loadLeague(db)
	if err != nil {
		return err
	}
	ids, err := l.resolve(names)
	if err != nil {
		return err
	}
	players := aggregator.BuildPlayerStats(l.matches)
	duos := aggregator.BuildDuoStats(l.matches)

	for i, id := range ids {
		stat := players.Lookup(id)
		cHeader.Fprintf(os.Stdout, "\n--- %s ---\n", names[i])
		if stat.MatchesPlayed == 0 {
			fmt.Fprintln(os.Stdout, "No matches played.")
			continue
		}
		report.PrintPlayerTable(os.Stdout, []model.PlayerSummary{{Name: names[i], PlayerStat: stat}}, id)

		partners := truncate(duos.Partners(id), playerPartners)
		if len(partners) > 0 {
			fmt.Fprintln(os.Stdout, "\nPartners:")
			report.PrintDuoTable(os.Stdout, partners, l.names)
		}

		recent, err := db.PlayerMatches(id, playerRecent)
		if err != nil {
			return fmt.Errorf("recent matches for %s: %w", names[i], err)
		}
		if len(recent) > 0 {
			fmt.Fprintln(os.Stdout, "\nRecent matches:")
			report.PrintMatchList(os.Stdout, recent, l.names)
		}
	}
	return nil
}

// truncate returns at most n leading elements of s. A negative n keeps s whole.
func truncate[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
