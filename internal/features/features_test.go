package features

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-fives-metrics/internal/aggregator"
	"github.com/pable/go-fives-metrics/internal/model"
)

func roster(ids ...model.PlayerID) model.Roster {
	var r model.Roster
	copy(r[:], ids)
	return r
}

// oneRowTables builds tables from the corpus where [1,2] beat [3,4] 2-1.
func oneRowTables() (*aggregator.PlayerTable, *aggregator.DuoTable) {
	corpus := []model.Match{{
		ID:    1,
		Team1: roster(1, 2), Team2: roster(3, 4),
		Team1Goals: 2, Team2Goals: 1,
		Team1Result: 1,
	}}
	return aggregator.BuildPlayerStats(corpus), aggregator.BuildDuoStats(corpus)
}

func TestColumns(t *testing.T) {
	cols := Columns()
	require.Len(t, cols, 12)
	assert.Equal(t, "team1_win_percentage", cols[0])
	assert.Equal(t, "team1_avg_goals", cols[1])
	assert.Equal(t, "team1_avg_goalsconceded", cols[2])
	assert.Equal(t, "team1_avg_duo_winrate", cols[3])
	assert.Equal(t, "team2_win_percentage", cols[6])
	assert.Equal(t, "team2_avg_duo_goalsconceded", cols[11])
}

func TestApply_KnownPair(t *testing.T) {
	players, duos := oneRowTables()
	row := model.Match{ID: 7, Team1: roster(1, 2)}

	ds := Apply(players, duos, []model.Match{row})
	require.Equal(t, 1, ds.Len())

	f := ds.Rows[0].Team1Features
	assert.Equal(t, 100.0, f.WinPercentage)
	assert.Equal(t, 2.0, f.AvgGoals)
	assert.Equal(t, 1.0, f.AvgGoalsConceded)
	assert.Equal(t, 100.0, f.AvgDuoWinRate)
	assert.Equal(t, 2.0, f.AvgDuoGoals)
	assert.Equal(t, 1.0, f.AvgDuoConceded)
	assert.Equal(t, int64(7), ds.Rows[0].ID, "original columns carried through")
}

func TestApply_EmptyRosterIsZero(t *testing.T) {
	players, duos := oneRowTables()
	ds := Apply(players, duos, []model.Match{{Team1: roster(1, 2)}})

	assert.Equal(t, TeamFeatures{}, ds.Rows[0].Team2Features)
	for i, v := range ds.Rows[0].Vector()[6:] {
		assert.Zerof(t, v, "team2 column %d", i)
	}
}

func TestApply_SentinelSlotsExcluded(t *testing.T) {
	players, duos := oneRowTables()
	// Player 1 with seven empty slots averages over a roster of one.
	ds := Apply(players, duos, []model.Match{{Team1: roster(1)}, {Team1: roster(0, 0, 1, 0, 0)}})

	for _, r := range ds.Rows {
		assert.Equal(t, 100.0, r.Team1Features.WinPercentage)
		assert.Equal(t, 2.0, r.Team1Features.AvgGoals)
		assert.Zero(t, r.Team1Features.AvgDuoWinRate, "a single player has no pairs")
	}
}

func TestApply_UnknownPlayersPullTowardZero(t *testing.T) {
	players, duos := oneRowTables()
	// 1 is known (100%), 99 is unknown (0%): mean is 50, not 100.
	ds := Apply(players, duos, []model.Match{{Team1: roster(1, 99)}})
	f := ds.Rows[0].Team1Features
	assert.Equal(t, 50.0, f.WinPercentage)
	assert.Equal(t, 1.0, f.AvgGoals)
	assert.Zero(t, f.AvgDuoWinRate)
}

func TestApply_UnknownPairsStayInDenominator(t *testing.T) {
	players, duos := oneRowTables()
	// Pairs (1,2)=100, (1,3)=0 (opponents), (2,3)=0 → mean 33.33.
	ds := Apply(players, duos, []model.Match{{Team1: roster(1, 2, 3)}})
	assert.InDelta(t, 100.0/3, ds.Rows[0].Team1Features.AvgDuoWinRate, 1e-9)
}

func TestApply_DoesNotMutateTables(t *testing.T) {
	players, duos := oneRowTables()
	beforeP := players.All()
	beforeD := duos.All()

	Apply(players, duos, []model.Match{{Team1: roster(1, 2, 5), Team2: roster(3, 6)}})

	assert.True(t, reflect.DeepEqual(beforeP, players.All()))
	assert.True(t, reflect.DeepEqual(beforeD, duos.All()))
	assert.Equal(t, 4, players.Len(), "unknown players must not be inserted on lookup")
}

func TestApply_FeatureParity(t *testing.T) {
	players, duos := oneRowTables()
	train := Apply(players, duos, []model.Match{
		{Team1: roster(1, 2), Team2: roster(3, 4), Team1Goals: 2, Team2Goals: 1, Team1Result: 1},
	})
	test := Apply(players, duos, []model.Match{{Team1: roster(1, 3), Team2: roster(2, 8)}})

	require.NoError(t, CheckParity(train, test))
	assert.Equal(t, len(train.Matrix()[0]), len(test.Matrix()[0]))
	assert.Len(t, test.Matrix()[0], len(test.Columns))
}

func TestCheckParity_Mismatch(t *testing.T) {
	a := Dataset{Columns: Columns()}
	b := Dataset{Columns: Columns()[:6]}
	assert.ErrorIs(t, CheckParity(a, b), ErrColumnMismatch)
}

func TestApply_Deterministic(t *testing.T) {
	players, duos := oneRowTables()
	rows := []model.Match{{Team1: roster(4, 3, 1), Team2: roster(2)}}
	first := Apply(players, duos, rows)
	second := Apply(players, duos, rows)
	assert.Equal(t, first.Matrix(), second.Matrix())
}
