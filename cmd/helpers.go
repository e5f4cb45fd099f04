package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/asmundg/shopr/internal/utils"
	"github.com/asmundg/shopr/pkg/pipeline"
	"github.com/asmundg/shopr/pkg/storage"
	"github.com/asmundg/shopr/pkg/trello"
)

// pipelineConfig assembles a pipeline configuration from the viper config.
func pipelineConfig() (pipeline.Config, error) {
	key := viper.GetString("trello.key")
	token := viper.GetString("trello.token")
	board := viper.GetString("trello.board")

	if key == "" || token == "" {
		return pipeline.Config{}, fmt.Errorf("trello.key and trello.token must be set in %s", viper.ConfigFileUsed())
	}
	if board == "" {
		return pipeline.Config{}, fmt.Errorf("trello.board must be set in %s", viper.ConfigFileUsed())
	}

	return pipeline.Config{
		Client:        trello.NewClient(key, token),
		Board:         board,
		TrainLabel:    viper.GetString("labels.train"),
		OrderLabel:    viper.GetString("labels.order"),
		PopulateLabel: viper.GetString("labels.populate"),
		AvailableList: viper.GetString("lists.available"),
		SelectedList:  viper.GetString("lists.selected"),
		Log:           utils.Log,
	}, nil
}

// openScoreDB opens the score database behind its file lock. The returned
// cleanup closes the database and releases the lock.
func openScoreDB() (*storage.DB, func(), error) {
	path, err := utils.GetAbsDBPath(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}

	lock, err := utils.NewDBLock(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := lock.Lock(); err != nil {
		return nil, nil, err
	}

	db, err := storage.Open(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
		_ = lock.Unlock()
	}
	return db, cleanup, nil
}
