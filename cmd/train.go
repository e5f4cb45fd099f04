package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/asmundg/shopr/pkg/pipeline"
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Learn item ordering from train-labeled cards",
	Long: `Fetches the checklists of every card carrying the train label, folds
their manual ordering into the score store with pairwise Elo updates, saves
the scores, and removes the train labels.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipelineConfig()
		if err != nil {
			return err
		}

		db, cleanup, err := openScoreDB()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		scores, err := db.LoadScores(ctx)
		if err != nil {
			return err
		}

		scores, err = pipeline.TrainAll(ctx, cfg, scores)
		if err != nil {
			return err
		}

		return db.SaveScores(ctx, scores)
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
