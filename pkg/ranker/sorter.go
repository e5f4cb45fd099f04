package ranker

import (
	"math"

	"github.com/asmundg/shopr/pkg/trello"
)

// posOffset keeps computed positions positive in Trello's ordering scheme.
const posOffset = 100000

// ComputeTarget returns the position an item should move to and the name it
// should carry there. When the returned position equals the item's current
// one the caller should skip the write entirely.
//
// An item whose exact full key is absent from the store gets UnsortedTag
// appended, unless its name already contains the marker. The presence check
// is deliberately stricter than Lookup: a name that resolves through a token
// fallback still counts as unscored here.
func ComputeTarget(scores Scores, item trello.ChecklistItem) (int, string) {
	pos := int(math.Floor(scores.Lookup(item.Name))) + posOffset
	if pos == item.Pos {
		return pos, item.Name
	}

	_, hasScore := scores[FullKey(Derive(item.Name))]
	hasTag := unsortedRe.MatchString(item.Name)

	name := item.Name
	if !hasScore && !hasTag {
		name += UnsortedTag
	}
	return pos, name
}
