package ranker

import (
	"math"

	"github.com/asmundg/shopr/pkg/trello"
)

const kFactor = 32

// expectedScore is the classic Elo expectation of a beating b.
func expectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

func updateRating(expected, actual, current float64) float64 {
	return current + kFactor*(actual-expected)
}

// Train folds one manually ordered checklist into the score store and
// returns the result as a new store; prior is never modified.
//
// Every pair of items with distinct positions plays a match: the item placed
// earlier "loses" (earlier position means lower rating). The current item's
// rating is re-read after each update, so later comparisons in the same pass
// see the updated value. That running propagation is intentional; batching
// all deltas against a snapshot produces different ratings.
func Train(checklist trello.Checklist, prior Scores) Scores {
	scores := prior.Clone()

	for _, current := range checklist.CheckItems {
		currentScore := scores.Lookup(current.Name)

		for _, compare := range checklist.CheckItems {
			// Positional equality, not identity: items sharing a
			// position skip each other.
			if current.Pos == compare.Pos {
				continue
			}

			compareScore := scores.Lookup(compare.Name)

			currentActual := 1.0
			if current.Pos < compare.Pos {
				currentActual = 0
			}
			currentScore = updateRating(expectedScore(currentScore, compareScore), currentActual, currentScore)
			scores.Update(current.Name, currentScore)

			compareActual := 1.0
			if compare.Pos < current.Pos {
				compareActual = 0
			}
			scores.Update(compare.Name, updateRating(expectedScore(compareScore, currentScore), compareActual, compareScore))
		}
	}

	return scores
}
