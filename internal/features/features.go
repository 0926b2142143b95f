// Package features derives per-match team features from the player and duo
// tables and exposes them as a fixed-shape numeric matrix.
package features

import (
	"errors"
	"fmt"
	"slices"

	"github.com/pable/go-fives-metrics/internal/aggregator"
	"github.com/pable/go-fives-metrics/internal/model"
)

// ErrColumnMismatch is returned when two datasets disagree on their feature columns.
var ErrColumnMismatch = errors.New("feature columns do not match")

// Per-team feature names; the exported column is "<side>_<name>".
const (
	WinPercentage     = "win_percentage"
	AvgGoals          = "avg_goals"
	AvgGoalsConceded  = "avg_goalsconceded"
	AvgDuoWinRate     = "avg_duo_winrate"
	AvgDuoGoals       = "avg_duo_goals"
	AvgDuoGoalsConced = "avg_duo_goalsconceded"
)

var teamFeatureNames = []string{
	WinPercentage, AvgGoals, AvgGoalsConceded,
	AvgDuoWinRate, AvgDuoGoals, AvgDuoGoalsConced,
}

// Columns returns the engineered column names in matrix order: all team 1
// features followed by all team 2 features.
func Columns() []string {
	out := make([]string, 0, 2*len(teamFeatureNames))
	for _, side := range model.Sides {
		for _, name := range teamFeatureNames {
			out = append(out, side.String()+"_"+name)
		}
	}
	return out
}

// TeamFeatures are the engineered values for one side of one match.
type TeamFeatures struct {
	WinPercentage    float64
	AvgGoals         float64
	AvgGoalsConceded float64
	AvgDuoWinRate    float64
	AvgDuoGoals      float64
	AvgDuoConceded   float64
}

func (f TeamFeatures) values() []float64 {
	return []float64{
		f.WinPercentage, f.AvgGoals, f.AvgGoalsConceded,
		f.AvgDuoWinRate, f.AvgDuoGoals, f.AvgDuoConceded,
	}
}

// FeaturedMatch is a match row with its engineered columns appended.
type FeaturedMatch struct {
	model.Match
	Team1Features TeamFeatures
	Team2Features TeamFeatures
}

// Side returns the features for one team.
func (f *FeaturedMatch) Side(s model.Side) TeamFeatures {
	if s == model.Team2 {
		return f.Team2Features
	}
	return f.Team1Features
}

// Vector returns the engineered values in Columns() order.
func (f *FeaturedMatch) Vector() []float64 {
	return append(f.Team1Features.values(), f.Team2Features.values()...)
}

// Dataset is a featured set of match rows.
type Dataset struct {
	Columns []string
	Rows    []FeaturedMatch
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// Matrix returns the row-major feature matrix, one Vector per row.
func (d *Dataset) Matrix() [][]float64 {
	out := make([][]float64, len(d.Rows))
	for i := range d.Rows {
		out[i] = d.Rows[i].Vector()
	}
	return out
}

// CheckParity returns ErrColumnMismatch unless both datasets carry the same
// engineered columns in the same order.
func CheckParity(a, b Dataset) error {
	if !slices.Equal(a.Columns, b.Columns) {
		return fmt.Errorf("%w: %v vs %v", ErrColumnMismatch, a.Columns, b.Columns)
	}
	return nil
}

// Apply derives the engineered columns for every row. The same tables must be
// used for the training rows and the rows being predicted; the tables are only
// read. The input rows are copied, never modified.
func Apply(players *aggregator.PlayerTable, duos *aggregator.DuoTable, rows []model.Match) Dataset {
	ds := Dataset{
		Columns: Columns(),
		Rows:    make([]FeaturedMatch, len(rows)),
	}
	for i := range rows {
		m := rows[i]
		ds.Rows[i] = FeaturedMatch{
			Match:         m,
			Team1Features: teamFeatures(players, duos, m.Team1),
			Team2Features: teamFeatures(players, duos, m.Team2),
		}
	}
	return ds
}

// teamFeatures averages player and duo stats over the non-empty roster.
// Unknown players and pairs are looked up as zero and still count in the
// denominator, so a roster of strangers is pulled toward 0.
func teamFeatures(players *aggregator.PlayerTable, duos *aggregator.DuoTable, r model.Roster) TeamFeatures {
	var f TeamFeatures
	ids := r.Players()
	if len(ids) == 0 {
		return f
	}

	for _, id := range ids {
		s := players.Lookup(id) // zero stat on miss
		f.WinPercentage += s.WinPct()
		f.AvgGoals += s.AvgGoalsFor()
		f.AvgGoalsConceded += s.AvgGoalsAgainst()
	}
	n := float64(len(ids))
	f.WinPercentage /= n
	f.AvgGoals /= n
	f.AvgGoalsConceded /= n

	pairs := 0
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			d := duos.Lookup(ids[i], ids[j]) // zero stat on miss
			f.AvgDuoWinRate += d.WinRate()
			f.AvgDuoGoals += d.AvgGoalsFor()
			f.AvgDuoConceded += d.AvgGoalsAgainst()
			pairs++
		}
	}
	if pairs > 0 {
		f.AvgDuoWinRate /= float64(pairs)
		f.AvgDuoGoals /= float64(pairs)
		f.AvgDuoConceded /= float64(pairs)
	}
	return f
}

// Predictor fits on a featured training set and predicts outcomes for another
// featured set with the same columns.
type Predictor interface {
	Fit(train Dataset) error
	Predict(ds Dataset) ([]model.Prediction, error)
}
