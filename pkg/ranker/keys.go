// Package ranker learns an implicit ordering for grocery item names from
// manually sorted checklists and applies it to new ones. Everything in this
// package is pure computation over in-memory values; fetching and writing
// back Trello state is the caller's job.
package ranker

import (
	"regexp"
	"sort"
	"strings"
)

// UnsortedTag is appended to item names that have no learned score yet, so
// they stand out in the re-sorted list.
const UnsortedTag = " [unsorted]"

var (
	unsortedRe = regexp.MustCompile(`\[unsorted\]`)
	stripRe    = regexp.MustCompile(`[\d()]`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// Derive normalizes an item name into its candidate lookup tokens:
// lowercased, unsorted tag and digits/parentheses removed, whitespace
// collapsed, split on spaces, sorted. Word order in the name does not
// matter: "Whole Milk" and "Milk Whole" derive the same tokens.
//
// A name that strips down to nothing yields a single empty token.
func Derive(name string) []string {
	stripped := strings.ReplaceAll(strings.ToLower(name), "[unsorted]", "")
	stripped = stripRe.ReplaceAllString(stripped, "")
	stripped = strings.TrimSpace(spaceRe.ReplaceAllString(stripped, " "))

	candidates := strings.Split(stripped, " ")
	sort.Strings(candidates)
	return candidates
}

// FullKey joins derived tokens into the composite store key.
func FullKey(tokens []string) string {
	return strings.Join(tokens, ",")
}
