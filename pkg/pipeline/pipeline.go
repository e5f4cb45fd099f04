// Package pipeline drives the shopr workflow against a Trello board:
// training on manually sorted checklists, re-ordering lists from the learned
// scores, and populating a consolidated shopping list from selected recipes.
// Cards opt into each phase by carrying a configured label, which is removed
// again once the phase finishes.
package pipeline

import (
	"context"
	"fmt"

	"github.com/asmundg/shopr/pkg/ranker"
	"github.com/asmundg/shopr/pkg/trello"
)

// Client captures the Trello operations the pipeline needs, so callers can
// substitute a fake in tests. *trello.Client satisfies it.
type Client interface {
	GetBoardCards(ctx context.Context, boardID string) ([]trello.Card, error)
	GetListCards(ctx context.Context, listID string) ([]trello.Card, error)
	GetCard(ctx context.Context, cardID string) (trello.Card, error)
	GetChecklist(ctx context.Context, checklistID string) (trello.Checklist, error)
	CreateChecklist(ctx context.Context, cardID, name string) (trello.Checklist, error)
	AddChecklistItem(ctx context.Context, checklistID, name string) (trello.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, cardID string, item trello.ChecklistItem) error
	MoveCardToList(ctx context.Context, cardID, listID string) error
	RemoveLabel(ctx context.Context, cardID, labelID string) error
}

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Config holds everything one pipeline run needs.
type Config struct {
	Client Client
	Board  string

	TrainLabel    string
	OrderLabel    string
	PopulateLabel string

	AvailableList string // list the processed recipe cards return to
	SelectedList  string // list holding the recipes picked for this week

	Log Logger // optional; nil = no logging
}

func (cfg Config) logger() Logger {
	if cfg.Log == nil {
		return nopLogger{}
	}
	return cfg.Log
}

// TrainSet fetches the checklists of every card carrying the train label.
func TrainSet(ctx context.Context, cfg Config) ([]trello.Checklist, error) {
	cards, err := cfg.Client.GetBoardCards(ctx, cfg.Board)
	if err != nil {
		return nil, err
	}

	var checklists []trello.Checklist
	for _, card := range cards {
		if !card.HasLabel(cfg.TrainLabel) {
			continue
		}
		for _, id := range card.IDChecklists {
			cl, err := cfg.Client.GetChecklist(ctx, id)
			if err != nil {
				return nil, err
			}
			checklists = append(checklists, cl)
		}
	}
	return checklists, nil
}

// ResetLabel removes the named label from each card.
func ResetLabel(ctx context.Context, cfg Config, labelName string, cardIDs []string) error {
	for _, id := range cardIDs {
		card, err := cfg.Client.GetCard(ctx, id)
		if err != nil {
			return err
		}
		for _, label := range card.Labels {
			if label.Name != labelName {
				continue
			}
			if err := cfg.Client.RemoveLabel(ctx, card.ID, label.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// TrainAll folds every train-labeled checklist into the scores and removes
// the train labels afterwards. The input store is not modified.
func TrainAll(ctx context.Context, cfg Config, scores ranker.Scores) (ranker.Scores, error) {
	log := cfg.logger()

	checklists, err := TrainSet(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching train set: %w", err)
	}

	for _, cl := range checklists {
		log.Infof("Training on %d items", len(cl.CheckItems))
		scores = ranker.Train(cl, scores)
	}

	var cardIDs []string
	for _, cl := range checklists {
		cardIDs = append(cardIDs, cl.IDCard)
	}
	if err := ResetLabel(ctx, cfg, cfg.TrainLabel, cardIDs); err != nil {
		return nil, fmt.Errorf("resetting train labels: %w", err)
	}

	return scores, nil
}

// OrderLists re-sorts the checklists of every order-labeled card according
// to the learned scores, tagging unscored items, then removes the label.
func OrderLists(ctx context.Context, cfg Config, scores ranker.Scores) error {
	log := cfg.logger()

	cards, err := cfg.Client.GetBoardCards(ctx, cfg.Board)
	if err != nil {
		return err
	}

	for _, card := range cards {
		if !card.HasLabel(cfg.OrderLabel) {
			continue
		}
		log.Infof("Ordering %s", card.Name)

		for _, id := range card.IDChecklists {
			checklist, err := cfg.Client.GetChecklist(ctx, id)
			if err != nil {
				return err
			}

			for _, item := range checklist.CheckItems {
				log.Debugf("Processing item: %s", item.Name)

				pos, name := ranker.ComputeTarget(scores, item)
				if pos == item.Pos {
					continue
				}

				item.Name = name
				item.Pos = pos
				if err := cfg.Client.UpdateChecklistItem(ctx, card.ID, item); err != nil {
					return err
				}
			}
		}

		log.Infof("Ordering %s done", card.Name)
		if err := ResetLabel(ctx, cfg, cfg.OrderLabel, []string{card.ID}); err != nil {
			return err
		}
	}
	return nil
}

// Populate builds the consolidated shopping list on every populate-labeled
// card from the checklists of the recipes in the selected list. Recipe cards
// get their checkmarks reset and move back to the available list.
func Populate(ctx context.Context, cfg Config) error {
	log := cfg.logger()

	cards, err := cfg.Client.GetBoardCards(ctx, cfg.Board)
	if err != nil {
		return err
	}

	for _, card := range cards {
		if !card.HasLabel(cfg.PopulateLabel) {
			continue
		}
		log.Infof("Populating shopping list from %s", card.Name)

		recipes, err := cfg.Client.GetListCards(ctx, cfg.SelectedList)
		if err != nil {
			return err
		}
		log.Infof("Found %d selected recipes", len(recipes))

		var target string
		if len(card.IDChecklists) == 0 {
			log.Infof("Creating new checklist on card %s", card.Name)
			created, err := cfg.Client.CreateChecklist(ctx, card.ID, "Shopping List")
			if err != nil {
				return err
			}
			target = created.ID
		} else {
			target = card.IDChecklists[0]
		}

		var sourceItems []trello.ChecklistItem
		for _, recipe := range recipes {
			log.Infof("Processing recipe: %s", recipe.Name)
			for _, id := range recipe.IDChecklists {
				checklist, err := cfg.Client.GetChecklist(ctx, id)
				if err != nil {
					return err
				}
				sourceItems = append(sourceItems, checklist.CheckItems...)
			}
		}

		for _, merged := range ranker.Consolidate(sourceItems) {
			if _, err := cfg.Client.AddChecklistItem(ctx, target, merged.Name); err != nil {
				return err
			}
			log.Debugf("Added merged item: %s", merged.Name)
		}

		for _, recipe := range recipes {
			if err := resetCheckmarks(ctx, cfg, recipe); err != nil {
				return err
			}
			if err := cfg.Client.MoveCardToList(ctx, recipe.ID, cfg.AvailableList); err != nil {
				return err
			}
			log.Infof("Moved recipe %s back to available list", recipe.Name)
		}

		if err := ResetLabel(ctx, cfg, cfg.PopulateLabel, []string{card.ID}); err != nil {
			return err
		}
		log.Infof("Populating %s done", card.Name)
	}
	return nil
}

// resetCheckmarks flips completed recipe items back to incomplete before the
// recipe returns to the available pool.
func resetCheckmarks(ctx context.Context, cfg Config, recipe trello.Card) error {
	log := cfg.logger()

	for _, id := range recipe.IDChecklists {
		checklist, err := cfg.Client.GetChecklist(ctx, id)
		if err != nil {
			return err
		}
		for _, item := range checklist.CheckItems {
			if item.State != "complete" {
				continue
			}
			item.State = "incomplete"
			if err := cfg.Client.UpdateChecklistItem(ctx, recipe.ID, item); err != nil {
				return err
			}
			log.Debugf("Reset checkmark for item: %s", item.Name)
		}
	}
	return nil
}

// Run executes the whole workflow: train, order, populate. It returns the
// updated scores for the caller to persist.
func Run(ctx context.Context, cfg Config, scores ranker.Scores) (ranker.Scores, error) {
	scores, err := TrainAll(ctx, cfg, scores)
	if err != nil {
		return nil, err
	}
	if err := OrderLists(ctx, cfg, scores); err != nil {
		return nil, fmt.Errorf("ordering lists: %w", err)
	}
	if err := Populate(ctx, cfg); err != nil {
		return nil, fmt.Errorf("populating shopping list: %w", err)
	}
	return scores, nil
}
