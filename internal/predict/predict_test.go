package predict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-fives-metrics/internal/aggregator"
	"github.com/pable/go-fives-metrics/internal/features"
	"github.com/pable/go-fives-metrics/internal/model"
)

func roster(ids ...model.PlayerID) model.Roster {
	var r model.Roster
	copy(r[:], ids)
	return r
}

// dominantCorpus has players 1-3 beating players 4-6 4-1 every time, on
// alternating sides, plus a few drawn mixed-team games.
func dominantCorpus() []model.Match {
	strong := roster(1, 2, 3)
	weak := roster(4, 5, 6)
	var corpus []model.Match
	for i := 0; i < 30; i++ {
		m := model.Match{ID: int64(i + 1)}
		if i%2 == 0 {
			m.Team1, m.Team2 = strong, weak
			m.Team1Goals, m.Team2Goals, m.Team1Result = 4, 1, 1
		} else {
			m.Team1, m.Team2 = weak, strong
			m.Team1Goals, m.Team2Goals, m.Team2Result = 1, 4, 1
		}
		corpus = append(corpus, m)
	}
	for i := 0; i < 4; i++ {
		corpus = append(corpus, model.Match{
			ID:    int64(100 + i),
			Team1: roster(1, 4), Team2: roster(2, 5),
			Team1Goals: 2, Team2Goals: 2,
		})
	}
	return corpus
}

func featurize(corpus, rows []model.Match) (features.Dataset, features.Dataset) {
	players := aggregator.BuildPlayerStats(corpus)
	duos := aggregator.BuildDuoStats(corpus)
	return features.Apply(players, duos, corpus), features.Apply(players, duos, rows)
}

func TestModel_PredictsStrongerTeam(t *testing.T) {
	train, test := featurize(dominantCorpus(), []model.Match{
		{ID: 1000, Team1: roster(1, 2, 3), Team2: roster(4, 5, 6)},
		{ID: 1001, Team1: roster(4, 5, 6), Team2: roster(1, 2, 3)},
	})

	m := New(DefaultOptions())
	require.NoError(t, m.Fit(train))
	preds, err := m.Predict(test)
	require.NoError(t, err)
	require.Len(t, preds, 2)

	first := preds[0]
	assert.Equal(t, int64(1000), first.MatchID)
	assert.True(t, first.Team1Win, "team 1 holds the strong players")
	assert.Greater(t, first.Team1WinProb, 0.5)
	assert.Greater(t, first.Team1Goals, first.Team2Goals)
	assert.Equal(t, model.Team1, first.Winner())

	second := preds[1]
	assert.False(t, second.Team1Win)
	assert.Less(t, second.Team1WinProb, 0.5)
	assert.Greater(t, second.Team2Goals, second.Team1Goals)
}

func TestModel_ProbabilitiesAreComplementary(t *testing.T) {
	train, test := featurize(dominantCorpus(), []model.Match{
		{Team1: roster(1, 5), Team2: roster(2, 4)},
		{Team1: roster(9), Team2: roster(0)},
	})
	m := New(DefaultOptions())
	require.NoError(t, m.Fit(train))
	preds, err := m.Predict(test)
	require.NoError(t, err)

	for _, p := range preds {
		assert.InDelta(t, 1.0, p.Team1WinProb+p.Team2WinProb, 1e-12)
		assert.GreaterOrEqual(t, p.Team1WinProb, 0.0)
		assert.LessOrEqual(t, p.Team1WinProb, 1.0)
		assert.GreaterOrEqual(t, p.DrawProb, 0.0)
		assert.LessOrEqual(t, p.DrawProb, 1.0)
		assert.GreaterOrEqual(t, p.Team1Goals, 0.0)
		assert.GreaterOrEqual(t, p.Team2Goals, 0.0)
	}
}

func TestModel_SingleClassLabels(t *testing.T) {
	// Team 1 wins every match and nobody draws.
	corpus := []model.Match{
		{ID: 1, Team1: roster(1, 2), Team2: roster(3, 4), Team1Goals: 3, Team2Goals: 0, Team1Result: 1},
		{ID: 2, Team1: roster(3, 4), Team2: roster(1, 2), Team1Goals: 2, Team2Goals: 1, Team1Result: 1},
	}
	train, test := featurize(corpus, []model.Match{{Team1: roster(1, 3), Team2: roster(2, 4)}})

	m := New(DefaultOptions())
	require.NoError(t, m.Fit(train))
	preds, err := m.Predict(test)
	require.NoError(t, err)

	p := preds[0]
	assert.False(t, math.IsNaN(p.Team1WinProb))
	assert.InDelta(t, 2.5/3, p.Team1WinProb, 1e-9, "smoothed empirical win rate")
	assert.True(t, p.Team1Win)
	assert.False(t, p.Draw)
}

func TestModel_EmptyTrainingSet(t *testing.T) {
	m := New(DefaultOptions())
	err := m.Fit(features.Dataset{Columns: features.Columns()})
	assert.ErrorIs(t, err, ErrEmptyTrainingSet)
}

func TestModel_FailedRefitKeepsPreviousFit(t *testing.T) {
	train, test := featurize(dominantCorpus(), []model.Match{
		{ID: 1000, Team1: roster(1, 2, 3), Team2: roster(4, 5, 6)},
	})
	m := New(DefaultOptions())
	require.NoError(t, m.Fit(train))
	before, err := m.Predict(test)
	require.NoError(t, err)

	require.ErrorIs(t, m.Fit(features.Dataset{Columns: train.Columns[:6]}), ErrEmptyTrainingSet)
	m.opts.L2 = -1
	require.Error(t, m.Fit(train))

	after, err := m.Predict(test)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestModel_PredictBeforeFit(t *testing.T) {
	m := New(DefaultOptions())
	_, err := m.Predict(features.Dataset{Columns: features.Columns()})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestModel_ColumnMismatch(t *testing.T) {
	train, test := featurize(dominantCorpus(), []model.Match{{Team1: roster(1)}})
	m := New(DefaultOptions())
	require.NoError(t, m.Fit(train))

	test.Columns = test.Columns[:6]
	_, err := m.Predict(test)
	assert.ErrorIs(t, err, features.ErrColumnMismatch)
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.RidgeLambda = 0
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.DrawThreshold = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.MaxIterations = 0
	m := New(bad)
	train, _ := featurize(dominantCorpus(), nil)
	assert.Error(t, m.Fit(train))
}

func TestLogLossAndSigmoid(t *testing.T) {
	assert.InDelta(t, 0.5, sigmoid(0), 1e-12)
	assert.InDelta(t, math.Log(2), logLoss(0, 1), 1e-12)
	assert.False(t, math.IsInf(logLoss(1000, 0), 0))
	assert.InDelta(t, 1.0, sigmoid(800), 1e-12)
	assert.InDelta(t, 0.0, sigmoid(-800), 1e-12)
}
