package model

import (
	"errors"
	"fmt"
	"slices"
)

// SlotsPerTeam is the fixed number of player columns per team in a match row.
const SlotsPerTeam = 8

// PlayerID is a stable numeric player identifier. Zero is the empty-slot sentinel.
type PlayerID int64

// Empty marks an unfilled roster slot or an unresolved player.
const Empty PlayerID = 0

// ErrInvalidMatch is returned by Validate for rows that break the fixed schema.
var ErrInvalidMatch = errors.New("invalid match row")

// Side selects one of the two teams in a match.
type Side int

const (
	Team1 Side = 1
	Team2 Side = 2
)

// Sides lists both teams in column order.
var Sides = [2]Side{Team1, Team2}

func (s Side) String() string {
	switch s {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	default:
		return "?"
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Team1 {
		return Team2
	}
	return Team1
}

// Roster is one team's player slots in a match.
type Roster [SlotsPerTeam]PlayerID

// Players returns the distinct non-sentinel identifiers in slot order. A player
// listed twice on the same team counts once, so team averages weight each
// person equally rather than each occupied slot.
func (r Roster) Players() []PlayerID {
	out := make([]PlayerID, 0, SlotsPerTeam)
	for i, id := range r {
		if id == Empty || slices.Contains(r[:i], id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// ---- Raw rows read from the corpus ----

// Match is one row of the historical corpus, or a synthetic row built for a
// matchup that has not been played yet (goals and results left at 0).
type Match struct {
	ID           int64
	Team1, Team2 Roster
	Team1Goals   int
	Team2Goals   int
	Team1Result  int // 1 = team 1 won
	Team2Result  int // 1 = team 2 won; both 0 = draw
}

// Roster returns the slots of the given side.
func (m *Match) Roster(s Side) Roster {
	if s == Team2 {
		return m.Team2
	}
	return m.Team1
}

// GoalsFor returns the goals scored by the given side.
func (m *Match) GoalsFor(s Side) int {
	if s == Team2 {
		return m.Team2Goals
	}
	return m.Team1Goals
}

// GoalsAgainst returns the goals conceded by the given side.
func (m *Match) GoalsAgainst(s Side) int {
	return m.GoalsFor(s.Opponent())
}

// Won reports whether the given side's result flag is set.
func (m *Match) Won(s Side) bool {
	if s == Team2 {
		return m.Team2Result == 1
	}
	return m.Team1Result == 1
}

// IsDraw reports whether neither result flag is set.
func (m *Match) IsDraw() bool {
	return m.Team1Result == 0 && m.Team2Result == 0
}

// Validate checks the row against the fixed corpus schema.
func (m *Match) Validate() error {
	for _, s := range Sides {
		for slot, id := range m.Roster(s) {
			if id < 0 {
				return fmt.Errorf("%w: match %d %s slot %d has negative player id %d",
					ErrInvalidMatch, m.ID, s, slot+1, id)
			}
		}
		if m.GoalsFor(s) < 0 {
			return fmt.Errorf("%w: match %d %s goals %d is negative", ErrInvalidMatch, m.ID, s, m.GoalsFor(s))
		}
	}
	if !isFlag(m.Team1Result) || !isFlag(m.Team2Result) {
		return fmt.Errorf("%w: match %d results must be 0 or 1, got %d/%d",
			ErrInvalidMatch, m.ID, m.Team1Result, m.Team2Result)
	}
	if m.Team1Result == 1 && m.Team2Result == 1 {
		return fmt.Errorf("%w: match %d has both result flags set", ErrInvalidMatch, m.ID)
	}
	return nil
}

func isFlag(v int) bool { return v == 0 || v == 1 }

// ---- Aggregated statistics ----

// PlayerStat holds one player's lifetime totals across the corpus.
type PlayerStat struct {
	PlayerID          PlayerID
	MatchesPlayed     int
	MatchesWon        int
	TotalGoalsFor     int // goals scored by the player's team
	TotalGoalsAgainst int // goals conceded by the player's team
}

func (s PlayerStat) WinPct() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return float64(s.MatchesWon) / float64(s.MatchesPlayed) * 100
}

func (s PlayerStat) AvgGoalsFor() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return float64(s.TotalGoalsFor) / float64(s.MatchesPlayed)
}

func (s PlayerStat) AvgGoalsAgainst() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return float64(s.TotalGoalsAgainst) / float64(s.MatchesPlayed)
}

// DuoKey identifies an ordered (player, teammate) pair.
type DuoKey struct {
	Player, Teammate PlayerID
}

// Reverse returns the (teammate, player) key.
func (k DuoKey) Reverse() DuoKey {
	return DuoKey{Player: k.Teammate, Teammate: k.Player}
}

// DuoStat holds totals for matches two players shared on the same team.
type DuoStat struct {
	DuoKey
	SharedMatches int
	SharedWins    int
	GoalsFor      int
	GoalsAgainst  int
}

func (s DuoStat) WinRate() float64 {
	if s.SharedMatches == 0 {
		return 0
	}
	return float64(s.SharedWins) / float64(s.SharedMatches) * 100
}

func (s DuoStat) AvgGoalsFor() float64 {
	if s.SharedMatches == 0 {
		return 0
	}
	return float64(s.GoalsFor) / float64(s.SharedMatches)
}

func (s DuoStat) AvgGoalsAgainst() float64 {
	if s.SharedMatches == 0 {
		return 0
	}
	return float64(s.GoalsAgainst) / float64(s.SharedMatches)
}

// ---- Prediction output ----

// Prediction is the predicted outcome of one match row.
type Prediction struct {
	MatchID      int64
	Team1Goals   float64
	Team2Goals   float64
	Team1Win     bool
	Team1WinProb float64
	Team2WinProb float64 // 1 - Team1WinProb
	Draw         bool
	DrawProb     float64
}

// Winner returns the side predicted to win.
func (p Prediction) Winner() Side {
	if p.Team1Win {
		return Team1
	}
	return Team2
}

// PlayerSummary is a lightweight name/stat record for list and report commands.
type PlayerSummary struct {
	Name string
	PlayerStat
}

// PredictionRecord is a stored prediction with the rosters it was made for.
type PredictionRecord struct {
	ID        int64
	CreatedAt string
	Team1     []string
	Team2     []string
	Prediction
}
