package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/asmundg/shopr/pkg/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full workflow: train, order, populate",
	Long: `Runs every phase in sequence: trains on checklists of cards with the
train label, re-sorts checklists of cards with the order label using the
updated scores, and builds the consolidated shopping list on cards with the
populate label.`,
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

		scores, err = pipeline.Run(ctx, cfg, scores)
		if err != nil {
			return err
		}

		return db.SaveScores(ctx, scores)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
