package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/asmundg/shopr/pkg/trello"
)

// listsCmd represents the lists command
var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Print the lists on the configured board with their ids",
	Long: `Prints every list on the configured board as JSON. Use the ids to fill
in lists.available and lists.selected in the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := pipelineConfig(); err != nil {
			return err
		}

		client := trello.NewClient(viper.GetString("trello.key"), viper.GetString("trello.token"))
		lists, err := client.GetBoardLists(context.Background(), viper.GetString("trello.board"))
		if err != nil {
			return fmt.Errorf("fetching board lists: %w", err)
		}

		type listOut struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		out := make([]listOut, 0, len(lists))
		for _, l := range lists {
			out = append(out, listOut{ID: l.ID, Name: l.Name})
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println("Available lists on your board:")
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listsCmd)
}
