package trello

// Label is a named label attached to a card.
type Label struct {
	ID   string
	Name string
}

// Card is a Trello card, reduced to the fields shopr reads.
type Card struct {
	ID           string
	Name         string
	IDList       string
	IDChecklists []string
	Labels       []Label
}

// HasLabel reports whether the card carries a label with the given name.
func (c Card) HasLabel(name string) bool {
	for _, l := range c.Labels {
		if l.Name == name {
			return true
		}
	}
	return false
}

// ChecklistItem is a single entry of a checklist. State is either
// "complete" or "incomplete". Pos orders items within the checklist,
// lower values first.
type ChecklistItem struct {
	ID          string
	IDChecklist string
	Name        string
	Pos         int
	State       string
}

// Checklist is an ordered collection of items owned by a card.
type Checklist struct {
	ID         string
	Name       string
	IDCard     string
	CheckItems []ChecklistItem
}

// BoardList is a list (column) on a board.
type BoardList struct {
	ID   string
	Name string
}
