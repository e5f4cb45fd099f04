package pipeline

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/asmundg/shopr/pkg/ranker"
	"github.com/asmundg/shopr/pkg/trello"
)

// fakeClient serves canned board state and records every mutation.
type fakeClient struct {
	boardCards []trello.Card
	listCards  map[string][]trello.Card
	checklists map[string]trello.Checklist

	updatedItems  []trello.ChecklistItem
	addedItems    map[string][]string // checklist id -> item names
	createdLists  []string            // card ids that got a new checklist
	movedCards    map[string]string   // card id -> destination list
	removedLabels map[string][]string // card id -> label ids
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		listCards:     make(map[string][]trello.Card),
		checklists:    make(map[string]trello.Checklist),
		addedItems:    make(map[string][]string),
		movedCards:    make(map[string]string),
		removedLabels: make(map[string][]string),
	}
}

func (f *fakeClient) GetBoardCards(ctx context.Context, boardID string) ([]trello.Card, error) {
	return f.boardCards, nil
}

func (f *fakeClient) GetListCards(ctx context.Context, listID string) ([]trello.Card, error) {
	return f.listCards[listID], nil
}

func (f *fakeClient) GetCard(ctx context.Context, cardID string) (trello.Card, error) {
	for _, c := range f.boardCards {
		if c.ID == cardID {
			return c, nil
		}
	}
	for _, cards := range f.listCards {
		for _, c := range cards {
			if c.ID == cardID {
				return c, nil
			}
		}
	}
	return trello.Card{}, fmt.Errorf("no such card: %s", cardID)
}

func (f *fakeClient) GetChecklist(ctx context.Context, checklistID string) (trello.Checklist, error) {
	cl, ok := f.checklists[checklistID]
	if !ok {
		return trello.Checklist{}, fmt.Errorf("no such checklist: %s", checklistID)
	}
	return cl, nil
}

func (f *fakeClient) CreateChecklist(ctx context.Context, cardID, name string) (trello.Checklist, error) {
	id := "created-" + cardID
	cl := trello.Checklist{ID: id, Name: name, IDCard: cardID}
	f.checklists[id] = cl
	f.createdLists = append(f.createdLists, cardID)
	return cl, nil
}

func (f *fakeClient) AddChecklistItem(ctx context.Context, checklistID, name string) (trello.ChecklistItem, error) {
	f.addedItems[checklistID] = append(f.addedItems[checklistID], name)
	return trello.ChecklistItem{ID: name, IDChecklist: checklistID, Name: name}, nil
}

func (f *fakeClient) UpdateChecklistItem(ctx context.Context, cardID string, item trello.ChecklistItem) error {
	f.updatedItems = append(f.updatedItems, item)
	return nil
}

func (f *fakeClient) MoveCardToList(ctx context.Context, cardID, listID string) error {
	f.movedCards[cardID] = listID
	return nil
}

func (f *fakeClient) RemoveLabel(ctx context.Context, cardID, labelID string) error {
	f.removedLabels[cardID] = append(f.removedLabels[cardID], labelID)
	return nil
}

func testConfig(f *fakeClient) Config {
	return Config{
		Client:        f,
		Board:         "board1",
		TrainLabel:    "train",
		OrderLabel:    "order",
		PopulateLabel: "populate",
		AvailableList: "available",
		SelectedList:  "selected",
	}
}

func TestTrainAll(t *testing.T) {
	f := newFakeClient()
	f.boardCards = []trello.Card{
		{
			ID:           "card1",
			Name:         "Last week's shop",
			IDChecklists: []string{"cl1"},
			Labels:       []trello.Label{{ID: "lab1", Name: "train"}},
		},
		{
			ID:           "card2",
			Name:         "Untagged",
			IDChecklists: []string{"cl2"},
		},
	}
	f.checklists["cl1"] = trello.Checklist{
		ID:     "cl1",
		IDCard: "card1",
		CheckItems: []trello.ChecklistItem{
			{ID: "i1", Name: "Milk", Pos: 100},
			{ID: "i2", Name: "Bread", Pos: 200},
		},
	}

	prior := ranker.NewScores()
	scores, err := TrainAll(context.Background(), testConfig(f), prior)
	if err != nil {
		t.Fatal(err)
	}

	if scores.Lookup("Milk") >= scores.Lookup("Bread") {
		t.Fatalf("training did not order items: milk=%v bread=%v",
			scores.Lookup("Milk"), scores.Lookup("Bread"))
	}
	if len(prior) != 0 {
		t.Fatalf("prior store was mutated: %#v", prior)
	}
	if !reflect.DeepEqual(f.removedLabels["card1"], []string{"lab1"}) {
		t.Fatalf("train label was not reset: %#v", f.removedLabels)
	}
	if _, ok := f.removedLabels["card2"]; ok {
		t.Fatal("untagged card must not be touched")
	}
}

func TestOrderLists(t *testing.T) {
	f := newFakeClient()
	f.boardCards = []trello.Card{
		{
			ID:           "card1",
			Name:         "Groceries",
			IDChecklists: []string{"cl1"},
			Labels:       []trello.Label{{ID: "lab1", Name: "order"}},
		},
	}
	f.checklists["cl1"] = trello.Checklist{
		ID:     "cl1",
		IDCard: "card1",
		CheckItems: []trello.ChecklistItem{
			{ID: "i1", IDChecklist: "cl1", Name: "Milk", Pos: 1, State: "incomplete"},
			{ID: "i2", IDChecklist: "cl1", Name: "Dragonfruit", Pos: 2, State: "incomplete"},
			{ID: "i3", IDChecklist: "cl1", Name: "Bread", Pos: 100700, State: "complete"},
		},
	}

	scores := ranker.NewScores()
	scores.Update("Milk", 500)
	scores.Update("Bread", 700)

	if err := OrderLists(context.Background(), testConfig(f), scores); err != nil {
		t.Fatal(err)
	}

	if len(f.updatedItems) != 2 {
		t.Fatalf("expected 2 writes (bread is already in place), got %#v", f.updatedItems)
	}

	milk := f.updatedItems[0]
	if milk.Pos != 100500 || milk.Name != "Milk" {
		t.Fatalf("bad milk update: %#v", milk)
	}
	if milk.State != "incomplete" {
		t.Fatalf("completion state must be preserved: %#v", milk)
	}

	fruit := f.updatedItems[1]
	if fruit.Name != "Dragonfruit [unsorted]" || fruit.Pos != 101000 {
		t.Fatalf("bad dragonfruit update: %#v", fruit)
	}

	if !reflect.DeepEqual(f.removedLabels["card1"], []string{"lab1"}) {
		t.Fatalf("order label was not reset: %#v", f.removedLabels)
	}
}

func TestPopulate(t *testing.T) {
	f := newFakeClient()
	f.boardCards = []trello.Card{
		{
			ID:           "shop",
			Name:         "Shopping",
			IDChecklists: []string{"shopcl"},
			Labels:       []trello.Label{{ID: "lab1", Name: "populate"}},
		},
	}
	f.checklists["shopcl"] = trello.Checklist{ID: "shopcl", IDCard: "shop"}
	f.listCards["selected"] = []trello.Card{
		{ID: "r1", Name: "Pancakes", IDChecklists: []string{"r1cl"}},
		{ID: "r2", Name: "Omelette", IDChecklists: []string{"r2cl"}},
	}
	f.checklists["r1cl"] = trello.Checklist{
		ID: "r1cl", IDCard: "r1",
		CheckItems: []trello.ChecklistItem{
			{ID: "a", IDChecklist: "r1cl", Name: "Milk", State: "incomplete"},
			{ID: "b", IDChecklist: "r1cl", Name: "eggs 2", State: "incomplete"},
		},
	}
	f.checklists["r2cl"] = trello.Checklist{
		ID: "r2cl", IDCard: "r2",
		CheckItems: []trello.ChecklistItem{
			{ID: "c", IDChecklist: "r2cl", Name: "eggs", State: "incomplete"},
			{ID: "d", IDChecklist: "r2cl", Name: "butter", State: "complete"},
		},
	}

	if err := Populate(context.Background(), testConfig(f)); err != nil {
		t.Fatal(err)
	}

	expected := []string{"Milk", "eggs 3"}
	if !reflect.DeepEqual(f.addedItems["shopcl"], expected) {
		t.Fatalf("merged items = %#v, expected %#v", f.addedItems["shopcl"], expected)
	}

	// Completed recipe items get unchecked before the card moves back.
	var reset bool
	for _, item := range f.updatedItems {
		if item.ID == "d" && item.State == "incomplete" {
			reset = true
		}
	}
	if !reset {
		t.Fatalf("butter checkmark was not reset: %#v", f.updatedItems)
	}

	if f.movedCards["r1"] != "available" || f.movedCards["r2"] != "available" {
		t.Fatalf("recipes not moved back: %#v", f.movedCards)
	}
	if !reflect.DeepEqual(f.removedLabels["shop"], []string{"lab1"}) {
		t.Fatalf("populate label was not reset: %#v", f.removedLabels)
	}
}

func TestPopulateCreatesChecklistWhenMissing(t *testing.T) {
	f := newFakeClient()
	f.boardCards = []trello.Card{
		{ID: "shop", Name: "Shopping", Labels: []trello.Label{{ID: "lab1", Name: "populate"}}},
	}
	f.listCards["selected"] = []trello.Card{
		{ID: "r1", Name: "Pancakes", IDChecklists: []string{"r1cl"}},
	}
	f.checklists["r1cl"] = trello.Checklist{
		ID: "r1cl", IDCard: "r1",
		CheckItems: []trello.ChecklistItem{
			{ID: "a", IDChecklist: "r1cl", Name: "Milk", State: "incomplete"},
		},
	}

	if err := Populate(context.Background(), testConfig(f)); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(f.createdLists, []string{"shop"}) {
		t.Fatalf("expected a checklist created on the shop card, got %#v", f.createdLists)
	}
	if !reflect.DeepEqual(f.addedItems["created-shop"], []string{"Milk"}) {
		t.Fatalf("items not added to the new checklist: %#v", f.addedItems)
	}
}

func TestRunOrdersPhases(t *testing.T) {
	f := newFakeClient()
	f.boardCards = []trello.Card{
		{
			ID:           "card1",
			Name:         "Groceries",
			IDChecklists: []string{"cl1"},
			Labels: []trello.Label{
				{ID: "lab1", Name: "train"},
				{ID: "lab2", Name: "order"},
			},
		},
	}
	f.checklists["cl1"] = trello.Checklist{
		ID:     "cl1",
		IDCard: "card1",
		CheckItems: []trello.ChecklistItem{
			{ID: "i1", IDChecklist: "cl1", Name: "Milk", Pos: 100, State: "incomplete"},
			{ID: "i2", IDChecklist: "cl1", Name: "Bread", Pos: 200, State: "incomplete"},
		},
	}

	scores, err := Run(context.Background(), testConfig(f), ranker.NewScores())
	if err != nil {
		t.Fatal(err)
	}

	// Scores learned in the train phase drive the order phase of the same run.
	if len(scores) == 0 {
		t.Fatal("expected learned scores")
	}
	if len(f.updatedItems) == 0 {
		t.Fatal("expected ordering writes")
	}
	for _, item := range f.updatedItems {
		if item.Pos < 100000 {
			t.Fatalf("position missing offset: %#v", item)
		}
	}
}
