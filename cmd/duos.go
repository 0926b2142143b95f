package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pable/go-fives-metrics/internal/aggregator"
	"github.com/pable/go-fives-metrics/internal/model"
	"github.com/pable/go-fives-metrics/internal/report"
	"github.com/pable/go-fives-metrics/internal/storage"
)

var (
	duosMinMatches int
	duosLimit      int
	duosByWinRate  bool
)

var duosCmd = &cobra.Command{
	Use:   "duos",
	Short: "Record of every pair of players who shared a team",
	Args:  cobra.NoArgs,
	RunE:  runDuos,
}

func init() {
	duosCmd.Flags().IntVar(&duosMinMatches, "min-matches", 1, "hide duos with fewer shared matches")
	duosCmd.Flags().IntVar(&duosLimit, "limit", 25, "maximum rows to print (0 = all)")
	duosCmd.Flags().BoolVar(&duosByWinRate, "by-winrate", false, "order by win rate instead of shared matches")
}

func runDuos(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printDuos(db, duosMinMatches, duosLimit, duosByWinRate)
}

func printDuos(db *storage.DB, minMatches, limit int, byWinRate bool) error {
	l, err := loadLeague(db)
	if err != nil {
		return err
	}
	var rows []model.DuoStat
	for _, d := range aggregator.BuildDuoStats(l.matches).All() {
		if d.SharedMatches >= minMatches {
			rows = append(rows, d)
		}
	}
	if byWinRate {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].WinRate() > rows[j].WinRate() })
	}
	total := len(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stdout, "No duos with at least %d shared matches.\n", minMatches)
		return nil
	}
	report.PrintDuoTable(os.Stdout, rows, l.names)
	fmt.Fprintf(os.Stdout, "\n(%d of %d duos)\n", len(rows), total)
	return nil
}
