package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fives-metrics/internal/features"
	"github.com/pable/go-fives-metrics/internal/pipeline"
	"github.com/pable/go-fives-metrics/internal/predict"
)

var (
	btOut      string
	btMinTrain int
	btStep     int
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Walk-forward evaluation of the predictor over the stored matches",
	Long: `Orders stored matches by ID and, for each block of --step matches, fits a
fresh model on every earlier match only and predicts the block. This avoids
lookahead: a held-out match never contributes to its own player or duo stats.

Writes the per-match records and a summary (win accuracy, Brier score, goal
MAE) as JSON.

Example:
  fives backtest --min-train 40 --step 5 --out backtest.json`,
	Args: cobra.NoArgs,
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&btOut, "out", "", "output file path (stdout if omitted)")
	backtestCmd.Flags().IntVar(&btMinTrain, "min-train", 20, "matches in the first training window")
	backtestCmd.Flags().IntVar(&btStep, "step", 1, "matches predicted per refit")
}

func runBacktest(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	l, err := loadLeague(db)
	if err != nil {
		return err
	}
	opts := cfg.Model.Options()
	bt, err := pipeline.RunBacktest(cmd.Context(), logger, l.matches,
		func() features.Predictor { return predict.New(opts) },
		pipeline.BacktestOptions{MinTrain: btMinTrain, Step: btStep})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(bt, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if btOut == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(btOut, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	s := bt.Summary
	fmt.Fprintf(os.Stderr, "Wrote %d records to %s  |  win acc %.1f%%  |  Brier %.3f  |  goals MAE %.2f\n",
		s.Matches, btOut, 100*s.WinAccuracy, s.Brier, s.GoalsMAE)
	return nil
}
