package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-fives-metrics/internal/features"
	"github.com/pable/go-fives-metrics/internal/model"
)

// BacktestOptions controls a walk-forward evaluation.
type BacktestOptions struct {
	MinTrain int // matches in the first training window
	Step     int // matches predicted per refit
}

// BacktestRecord is one held-out match with what the model said about it.
type BacktestRecord struct {
	MatchID      int64   `json:"match_id"`
	TrainSize    int     `json:"train_size"`
	Team1Goals   int     `json:"team1_goals"`
	Team2Goals   int     `json:"team2_goals"`
	Team1Won     bool    `json:"team1_won"`
	PredGoals1   float64 `json:"pred_team1_goals"`
	PredGoals2   float64 `json:"pred_team2_goals"`
	Team1WinProb float64 `json:"team1_win_prob"`
	DrawProb     float64 `json:"draw_prob"`
	PredDraw     bool    `json:"pred_draw"`
}

// BacktestSummary aggregates the records.
type BacktestSummary struct {
	Matches     int     `json:"matches"`
	WinAccuracy float64 `json:"win_accuracy"` // share of matches where Team1Win matched the label
	Brier       float64 `json:"brier"`        // mean squared error of Team1WinProb
	GoalsMAE    float64 `json:"goals_mae"`    // mean absolute error over both teams' goals
	DrawRate    float64 `json:"draw_rate"`
	PredDraws   int     `json:"predicted_draws"`
}

// Backtest is the full walk-forward output.
type Backtest struct {
	Summary BacktestSummary  `json:"summary"`
	Records []BacktestRecord `json:"records"`
}

// RunBacktest orders the corpus by match ID and repeatedly fits a fresh
// predictor on every match before a block, then predicts the block. Stats for a
// held-out match never include that match or any later one.
func RunBacktest(ctx context.Context, log logrus.FieldLogger, corpus []model.Match,
	newPredictor func() features.Predictor, opts BacktestOptions) (*Backtest, error) {
	if opts.MinTrain <= 0 {
		return nil, fmt.Errorf("min train must be positive, got %d", opts.MinTrain)
	}
	if opts.Step <= 0 {
		opts.Step = 1
	}
	if len(corpus) <= opts.MinTrain {
		return nil, fmt.Errorf("need more than %d matches to backtest, have %d", opts.MinTrain, len(corpus))
	}

	ordered := append([]model.Match(nil), corpus...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	// Per-fold stage logs would drown the summary.
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	bt := &Backtest{}
	for start := opts.MinTrain; start < len(ordered); start += opts.Step {
		end := min(start+opts.Step, len(ordered))
		held := ordered[start:end]
		res, err := Run(ctx, quiet, ordered[:start], held, newPredictor())
		if err != nil {
			return nil, fmt.Errorf("fold at match %d: %w", held[0].ID, err)
		}
		for i, p := range res.Predictions {
			m := &held[i]
			bt.Records = append(bt.Records, BacktestRecord{
				MatchID:      m.ID,
				TrainSize:    start,
				Team1Goals:   m.Team1Goals,
				Team2Goals:   m.Team2Goals,
				Team1Won:     m.Won(model.Team1),
				PredGoals1:   p.Team1Goals,
				PredGoals2:   p.Team2Goals,
				Team1WinProb: p.Team1WinProb,
				DrawProb:     p.DrawProb,
				PredDraw:     p.Draw,
			})
		}
		log.WithFields(logrus.Fields{"train": start, "held_out": len(held)}).Debug("backtest fold")
	}
	bt.Summary = summarize(bt.Records)
	log.WithFields(logrus.Fields{
		"matches":      bt.Summary.Matches,
		"win_accuracy": bt.Summary.WinAccuracy,
		"brier":        bt.Summary.Brier,
	}).Info("backtest complete")
	return bt, nil
}

func summarize(recs []BacktestRecord) BacktestSummary {
	s := BacktestSummary{Matches: len(recs)}
	if len(recs) == 0 {
		return s
	}
	var correct, draws int
	var brier, mae float64
	for _, r := range recs {
		y := 0.0
		if r.Team1Won {
			y = 1
		}
		if (r.Team1WinProb >= 0.5) == r.Team1Won {
			correct++
		}
		brier += (r.Team1WinProb - y) * (r.Team1WinProb - y)
		mae += math.Abs(r.PredGoals1-float64(r.Team1Goals)) + math.Abs(r.PredGoals2-float64(r.Team2Goals))
		if r.Team1Goals == r.Team2Goals {
			draws++
		}
		if r.PredDraw {
			s.PredDraws++
		}
	}
	n := float64(len(recs))
	s.WinAccuracy = float64(correct) / n
	s.Brier = brier / n
	s.GoalsMAE = mae / (2 * n)
	s.DrawRate = float64(draws) / n
	return s
}
