package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-fives-metrics/internal/model"
	"github.com/pable/go-fives-metrics/internal/pipeline"
	"github.com/pable/go-fives-metrics/internal/predict"
	"github.com/pable/go-fives-metrics/internal/report"
	"github.com/pable/go-fives-metrics/internal/roster"
	"github.com/pable/go-fives-metrics/internal/storage"
)

var (
	predictTeam1  string
	predictTeam2  string
	predictStrict bool
	predictNoSave bool
)

var predictCmd = &cobra.Command{
	Use:   "predict --team1 a,b,c --team2 d,e,f",
	Short: "Predict the outcome of a proposed line-up",
	Long: `Fit the model on every stored match and predict goals, win and draw
probabilities for the given teams. Names are matched against the player key;
unknown names count as empty slots unless --strict is set.`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictTeam1, "team1", "", "comma-separated team 1 player names (max 8)")
	predictCmd.Flags().StringVar(&predictTeam2, "team2", "", "comma-separated team 2 player names (max 8)")
	predictCmd.Flags().BoolVar(&predictStrict, "strict", false, "fail on names missing from the player key")
	predictCmd.Flags().BoolVar(&predictNoSave, "no-save", false, "do not record the prediction in history")
	predictCmd.MarkFlagRequired("team1")
	predictCmd.MarkFlagRequired("team2")
}

func runPredict(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return predictLineup(cmd.Context(), db,
		roster.SplitNames(predictTeam1), roster.SplitNames(predictTeam2),
		predictStrict, !predictNoSave)
}

func predictLineup(ctx context.Context, db *storage.DB, team1, team2 []string, strict, save bool) error {
	l, err := loadLeague(db)
	if err != nil {
		return err
	}

	if missing := roster.Unresolved(team1, team2, l.names); len(missing) > 0 {
		if strict {
			return fmt.Errorf("unknown players: %s", strings.Join(missing, ", "))
		}
		logger.WithField("names", strings.Join(missing, ",")).Warn("unknown players treated as empty slots")
	}
	row, err := roster.BuildMatchRow(team1, team2, l.names)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, logger, l.matches, []model.Match{row}, predict.New(cfg.Model.Options()))
	if err != nil {
		return err
	}
	p := res.Predictions[0]

	fmt.Fprintln(os.Stdout)
	cGreeting.Fprintf(os.Stdout, "Prediction from %d matches\n\n", len(l.matches))
	report.PrintTeamFeatures(os.Stdout, res.Inference.Rows[0])
	fmt.Fprintln(os.Stdout)
	report.PrintPrediction(os.Stdout, p, team1, team2)

	winner := cTeam1
	if p.Winner() == model.Team2 {
		winner = cTeam2
	}
	if p.Draw {
		cWarn.Fprintln(os.Stdout, "Too close to call: a draw is likely.")
	} else {
		winner.Fprintf(os.Stdout, "%s favoured (%.0f%%)\n", strings.ToUpper(p.Winner().String()),
			100*max(p.Team1WinProb, p.Team2WinProb))
	}

	if !save {
		return nil
	}
	id, err := db.InsertPrediction(model.PredictionRecord{Team1: team1, Team2: team2, Prediction: p})
	if err != nil {
		return fmt.Errorf("save prediction: %w", err)
	}
	cMuted.Fprintf(os.Stdout, "saved as #%d\n", id)
	return nil
}
