package ranker

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/asmundg/shopr/pkg/trello"
)

// ConsolidatedItem is one merged shopping-list entry.
type ConsolidatedItem struct {
	Name     string
	Quantity int
}

// ParseQuantity splits a trailing numeric count off an item name:
// "eggs" -> ("eggs", 1), "eggs 2" -> ("eggs", 2). A trailing token that is
// not purely digits is part of the name ("eggs large" -> ("eggs large", 1)).
func ParseQuantity(name string) (string, int) {
	trimmed := strings.TrimSpace(name)

	i := strings.LastIndexFunc(trimmed, unicode.IsSpace)
	if i < 0 {
		return trimmed, 1
	}

	last := trimmed[i+1:]
	if !isDigits(last) {
		return trimmed, 1
	}
	qty, err := strconv.Atoi(last)
	if err != nil {
		return trimmed, 1
	}
	return strings.TrimRightFunc(trimmed[:i], unicode.IsSpace), qty
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatQuantity renders a base name with its count, omitting counts of one.
func FormatQuantity(base string, quantity int) string {
	if quantity > 1 {
		return base + " " + strconv.Itoa(quantity)
	}
	return base
}

// Consolidate merges checklist items from multiple source lists into one
// deduplicated list. Items marked complete are skipped. Duplicates are keyed
// by the lowercased base name; quantities sum, the casing of the first
// occurrence wins, and output order is first-insertion order.
func Consolidate(items []trello.ChecklistItem) []ConsolidatedItem {
	type entry struct {
		base string
		qty  int
	}

	merged := make(map[string]entry)
	var order []string

	for _, item := range items {
		if item.State == "complete" {
			continue
		}

		base, qty := ParseQuantity(item.Name)
		key := strings.ToLower(base)

		if e, ok := merged[key]; ok {
			e.qty += qty
			merged[key] = e
			continue
		}
		merged[key] = entry{base: base, qty: qty}
		order = append(order, key)
	}

	out := make([]ConsolidatedItem, 0, len(order))
	for _, key := range order {
		e := merged[key]
		out = append(out, ConsolidatedItem{Name: FormatQuantity(e.base, e.qty), Quantity: e.qty})
	}
	return out
}
