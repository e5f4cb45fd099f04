package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/asmundg/shopr/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	dbPath  string
)

const (
	LOGO = `	     _
	 ___| |__   ___  _ __  _ __
	/ __| '_ \ / _ \| '_ \| '__|
	\__ \ | | | (_) | |_) | |
	|___/_| |_|\___/| .__/|_|
	                |_|
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shopr",
	Short: "A self-learning grocery list sorter for Trello boards.",
	Long: LOGO + `shopr learns your in-store walking order from checklists you sort by hand,
re-sorts new grocery lists to match, and merges selected recipe checklists
into one consolidated shopping list with summed quantities.

Cards opt into each phase with board labels; shopr removes the label when
the phase is done.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shopr.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "path to the score database (default is $HOME/.config/shopr/shopr.sqlite)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".shopr")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.shopr.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("trello.key", "")
	viper.SetDefault("trello.token", "")
	viper.SetDefault("trello.board", "")
	viper.SetDefault("labels.train", "Train")
	viper.SetDefault("labels.order", "Order")
	viper.SetDefault("labels.populate", "Populate")
	viper.SetDefault("lists.available", "")
	viper.SetDefault("lists.selected", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
