package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fives-metrics/internal/corpus"
	"github.com/pable/go-fives-metrics/internal/pipeline"
)

var featuresOut string

// featuresCmd writes the featured training dataset as CSV.
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Export the stored matches with their engineered feature columns",
	Long: `Build the player and duo tables from every stored match, apply them back to
the same matches and write the result as CSV: the original corpus columns
followed by six engineered columns per team.`,
	Args: cobra.NoArgs,
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().StringVarP(&featuresOut, "out", "o", "", "output CSV path (default stdout)")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	l, err := loadLeague(db)
	if err != nil {
		return err
	}
	res, err := pipeline.Featurize(cmd.Context(), logger, l.matches, nil)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if featuresOut != "" {
		f, err := os.Create(featuresOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := corpus.WriteFeatured(w, res.Train); err != nil {
		return fmt.Errorf("write features: %w", err)
	}
	if featuresOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", res.Train.Len(), featuresOut)
	}
	return nil
}
