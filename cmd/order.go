package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/asmundg/shopr/pkg/pipeline"
)

// orderCmd represents the order command
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Re-sort checklists of order-labeled cards",
	Long: `Re-sorts the checklist items of every card carrying the order label
according to the learned scores. Items without a learned score are tagged
[unsorted]. Scores are read-only in this phase.`,
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

		return pipeline.OrderLists(ctx, cfg, scores)
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
}
