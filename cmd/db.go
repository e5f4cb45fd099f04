package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/asmundg/shopr/internal/utils"
	"github.com/asmundg/shopr/pkg/ranker"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the score database",
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints statistics about the learned scores.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := openScoreDB()
		if err != nil {
			return err
		}
		defer cleanup()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return err
		}

		if stats.Keys == 0 {
			fmt.Println("No scores in the database yet. Run `shopr train` first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "KEYS\tMIN\tMAX\tAVG\tLAST UPDATE\t")
		fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%.1f\t%s\t\n",
			stats.Keys, stats.MinRating, stats.MaxRating, stats.AvgRating,
			stats.UpdatedAt.Format("2006-01-02 15:04:05"))
		w.Flush()

		return nil
	},
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the scores as a flat JSON document on stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := openScoreDB()
		if err != nil {
			return err
		}
		defer cleanup()

		scores, err := db.LoadScores(context.Background())
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(scores, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <scores.json>",
	Short: "Import scores from a flat JSON document",
	Long:  "Merges a key-to-rating JSON document (the old scores.json format) into the score database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		scores := ranker.NewScores()
		if err := json.Unmarshal(data, &scores); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		db, cleanup, err := openScoreDB()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := db.SaveScores(context.Background(), scores); err != nil {
			return err
		}
		utils.Log.Infof("Imported %d score keys from %s", len(scores), args[0])
		return nil
	},
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the score database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", path)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		fmt.Println("--> Starting interactive shell... (Ctrl+D to exit)")
		c := exec.Command(sqlitePath, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(statsCmd)
	dbCmd.AddCommand(exportCmd)
	dbCmd.AddCommand(importCmd)
	dbCmd.AddCommand(shellCmd)
}
