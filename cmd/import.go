package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-fives-metrics/internal/corpus"
	"github.com/pable/go-fives-metrics/internal/model"
)

var importCmd = &cobra.Command{
	Use:   "import [matches.csv] [players.csv]",
	Short: "Import match history and the player key into the database",
	Long: `Load the match corpus and the player name/ID key into the database.

Both paths default to the 'corpus' and 'players' config keys. Re-importing a
match ID replaces the stored row and roster.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	matchesPath, playersPath := cfg.Corpus, cfg.Players
	if len(args) > 0 {
		matchesPath = args[0]
	}
	if len(args) > 1 {
		playersPath = args[1]
	}
	if matchesPath == "" || playersPath == "" {
		return fmt.Errorf("need both a matches CSV and a players CSV (args or config)")
	}

	names, err := corpus.LoadPlayerKeys(playersPath)
	if err != nil {
		return err
	}
	matches, err := corpus.LoadMatches(matchesPath)
	if err != nil {
		return err
	}

	unknown := map[model.PlayerID]bool{}
	for i := range matches {
		for _, s := range model.Sides {
			for _, id := range matches[i].Roster(s).Players() {
				if !names.Has(id) {
					unknown[id] = true
				}
			}
		}
	}
	if len(unknown) > 0 {
		logger.WithField("count", len(unknown)).Warn("match rosters reference player IDs missing from the player key")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InsertPlayers(names.Entries()); err != nil {
		return fmt.Errorf("insert players: %w", err)
	}
	if err := db.InsertMatches(matches); err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"matches": len(matches),
		"players": names.Len(),
	}).Info("import complete")

	total, err := db.CountMatches()
	if err != nil {
		return fmt.Errorf("count matches: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d matches and %d players (%d matches stored).\n",
		len(matches), names.Len(), total)
	return nil
}
