package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pable/go-fives-metrics/internal/aggregator"
	"github.com/pable/go-fives-metrics/internal/model"
	"github.com/pable/go-fives-metrics/internal/roster"
	"github.com/pable/go-fives-metrics/internal/storage"
)

// openDB opens the database, creating its directory on first use.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// league is the stored corpus plus the player key.
type league struct {
	matches []model.Match
	names   *roster.Directory
}

func loadLeague(db *storage.DB) (*league, error) {
	matches, err := db.ListMatches()
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	names, err := db.Directory()
	if err != nil {
		return nil, fmt.Errorf("load player key: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no matches stored yet; run 'fives import <matches.csv> <players.csv>' first")
	}
	return &league{matches: matches, names: names}, nil
}

// resolve looks up each name, reporting the first unknown one.
func (l *league) resolve(names []string) ([]model.PlayerID, error) {
	ids := make([]model.PlayerID, 0, len(names))
	for _, n := range names {
		id, ok := l.names.Resolve(n)
		if !ok {
			return nil, fmt.Errorf("unknown player %q", n)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// playerSummaries names every player in the table with at least minMatches,
// ordered by win% then matches played.
func playerSummaries(t *aggregator.PlayerTable, names *roster.Directory, minMatches int) []model.PlayerSummary {
	var out []model.PlayerSummary
	for _, s := range t.All() {
		if s.MatchesPlayed < minMatches {
			continue
		}
		out = append(out, model.PlayerSummary{Name: names.Name(s.PlayerID), PlayerStat: s})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WinPct() != out[j].WinPct() {
			return out[i].WinPct() > out[j].WinPct()
		}
		return out[i].MatchesPlayed > out[j].MatchesPlayed
	})
	return out
}
