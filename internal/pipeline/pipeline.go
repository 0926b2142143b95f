// Package pipeline wires the aggregators, the feature applicator and a
// Predictor into one batch run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-fives-metrics/internal/aggregator"
	"github.com/pable/go-fives-metrics/internal/features"
	"github.com/pable/go-fives-metrics/internal/model"
)

// Result holds every intermediate product of a run.
type Result struct {
	Players     *aggregator.PlayerTable
	Duos        *aggregator.DuoTable
	Train       features.Dataset
	Inference   features.Dataset
	Predictions []model.Prediction
}

// Featurize validates the corpus, builds the player and duo tables once and
// applies them to both the corpus and the inference rows.
func Featurize(ctx context.Context, log logrus.FieldLogger, corpus, inference []model.Match) (*Result, error) {
	start := time.Now()
	if err := validateRows("corpus", corpus); err != nil {
		return nil, err
	}
	if err := validateRows("inference", inference); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Players: aggregator.BuildPlayerStats(corpus),
		Duos:    aggregator.BuildDuoStats(corpus),
	}
	log.WithFields(logrus.Fields{
		"rows":    len(corpus),
		"players": res.Players.Len(),
		"duos":    res.Duos.Len() / 2,
		"elapsed": time.Since(start).String(),
	}).Info("built stat tables")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Train = features.Apply(res.Players, res.Duos, corpus)
	res.Inference = features.Apply(res.Players, res.Duos, inference)
	if err := features.CheckParity(res.Train, res.Inference); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"train":     res.Train.Len(),
		"inference": res.Inference.Len(),
		"columns":   len(res.Train.Columns),
		"elapsed":   time.Since(start).String(),
	}).Debug("applied features")
	return res, nil
}

// Run featurizes, fits p on the corpus and predicts the inference rows.
func Run(ctx context.Context, log logrus.FieldLogger, corpus, inference []model.Match, p features.Predictor) (*Result, error) {
	res, err := Featurize(ctx, log, corpus, inference)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := p.Fit(res.Train); err != nil {
		return nil, fmt.Errorf("fit predictor: %w", err)
	}
	log.WithFields(logrus.Fields{
		"rows":    res.Train.Len(),
		"elapsed": time.Since(start).String(),
	}).Info("fitted predictor")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if res.Inference.Len() == 0 {
		return res, nil
	}
	if res.Predictions, err = p.Predict(res.Inference); err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(res.Predictions) != res.Inference.Len() {
		return nil, fmt.Errorf("predict: got %d predictions for %d rows", len(res.Predictions), res.Inference.Len())
	}
	log.WithField("rows", len(res.Predictions)).Debug("predicted")
	return res, nil
}

func validateRows(what string, rows []model.Match) error {
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return fmt.Errorf("%s match %d: %w", what, rows[i].ID, err)
		}
	}
	return nil
}
