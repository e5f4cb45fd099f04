package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/asmundg/shopr/pkg/pipeline"
)

// populateCmd represents the populate command
var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Build the consolidated shopping list from selected recipes",
	Long: `For every card carrying the populate label, merges the checklist items
of all recipe cards in the selected list into one deduplicated shopping list
with summed quantities, resets the recipes' checkmarks, and moves them back
to the available list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipelineConfig()
		if err != nil {
			return err
		}
		return pipeline.Populate(context.Background(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(populateCmd)
}
