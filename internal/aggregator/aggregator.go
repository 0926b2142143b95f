package aggregator

import (
	"sort"

	"github.com/pable/go-fives-metrics/internal/model"
)

// PlayerTable maps player identifiers to lifetime stats. It is built once per
// corpus and never modified afterwards.
type PlayerTable struct {
	stats map[model.PlayerID]model.PlayerStat
}

// BuildPlayerStats scans the corpus once and returns per-player lifetime stats.
// Empty slots are skipped.
func BuildPlayerStats(corpus []model.Match) *PlayerTable {
	stats := make(map[model.PlayerID]model.PlayerStat)
	for i := range corpus {
		m := &corpus[i]
		for _, side := range model.Sides {
			for _, id := range m.Roster(side).Players() {
				s := stats[id]
				s.PlayerID = id
				s.MatchesPlayed++
				s.TotalGoalsFor += m.GoalsFor(side)
				s.TotalGoalsAgainst += m.GoalsAgainst(side)
				if m.Won(side) {
					s.MatchesWon++
				}
				stats[id] = s
			}
		}
	}
	return &PlayerTable{stats: stats}
}

// Lookup returns the stats for id, or the zero stat when the player never
// appeared in the corpus. A miss is not an error: an unknown player is a
// replacement-level player with 0 for every derived value.
func (t *PlayerTable) Lookup(id model.PlayerID) model.PlayerStat {
	if s, ok := t.stats[id]; ok {
		return s
	}
	return model.PlayerStat{PlayerID: id}
}

// Get returns the stats for id and whether the player is in the table.
func (t *PlayerTable) Get(id model.PlayerID) (model.PlayerStat, bool) {
	s, ok := t.stats[id]
	return s, ok
}

// Len returns the number of distinct players.
func (t *PlayerTable) Len() int { return len(t.stats) }

// All returns a copy of every stat, ordered by player id.
func (t *PlayerTable) All() []model.PlayerStat {
	out := make([]model.PlayerStat, 0, len(t.stats))
	for _, s := range t.stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// DuoTable maps ordered (player, teammate) pairs to shared-match stats. Every
// pair is stored in both directions with identical counts.
type DuoTable struct {
	stats map[model.DuoKey]model.DuoStat
}

// BuildDuoStats scans the corpus and returns stats for every ordered pair of
// distinct players who appeared on the same team in the same match. Opponents
// are never paired.
func BuildDuoStats(corpus []model.Match) *DuoTable {
	stats := make(map[model.DuoKey]model.DuoStat)
	for i := range corpus {
		m := &corpus[i]
		for _, side := range model.Sides {
			players := m.Roster(side).Players()
			won := m.Won(side)
			for _, p := range players {
				for _, q := range players {
					if p == q {
						continue
					}
					k := model.DuoKey{Player: p, Teammate: q}
					s := stats[k]
					s.DuoKey = k
					s.SharedMatches++
					if won {
						s.SharedWins++
					}
					s.GoalsFor += m.GoalsFor(side)
					s.GoalsAgainst += m.GoalsAgainst(side)
					stats[k] = s
				}
			}
		}
	}
	return &DuoTable{stats: stats}
}

// Lookup returns the stats for the (player, teammate) pair, or the zero stat
// when the two never shared a team. As with PlayerTable.Lookup, a miss means
// "no shared history" and contributes 0.
func (t *DuoTable) Lookup(player, teammate model.PlayerID) model.DuoStat {
	k := model.DuoKey{Player: player, Teammate: teammate}
	if s, ok := t.stats[k]; ok {
		return s
	}
	return model.DuoStat{DuoKey: k}
}

// Get returns the stats for the pair and whether it exists.
func (t *DuoTable) Get(player, teammate model.PlayerID) (model.DuoStat, bool) {
	s, ok := t.stats[model.DuoKey{Player: player, Teammate: teammate}]
	return s, ok
}

// Len returns the number of ordered pairs (twice the number of duos).
func (t *DuoTable) Len() int { return len(t.stats) }

// Partners returns every duo with id as the first player, most shared matches first.
func (t *DuoTable) Partners(id model.PlayerID) []model.DuoStat {
	var out []model.DuoStat
	for k, s := range t.stats {
		if k.Player == id {
			out = append(out, s)
		}
	}
	sortDuos(out)
	return out
}

// All returns one entry per unordered duo (Player < Teammate), most shared
// matches first.
func (t *DuoTable) All() []model.DuoStat {
	out := make([]model.DuoStat, 0, len(t.stats)/2)
	for k, s := range t.stats {
		if k.Player < k.Teammate {
			out = append(out, s)
		}
	}
	sortDuos(out)
	return out
}

func sortDuos(duos []model.DuoStat) {
	sort.Slice(duos, func(i, j int) bool {
		if duos[i].SharedMatches != duos[j].SharedMatches {
			return duos[i].SharedMatches > duos[j].SharedMatches
		}
		if duos[i].Player != duos[j].Player {
			return duos[i].Player < duos[j].Player
		}
		return duos[i].Teammate < duos[j].Teammate
	})
}
