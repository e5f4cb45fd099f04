package ranker

// DefaultScore is the rating assumed for any name that was never trained.
const DefaultScore = 1000.0

// Scores maps candidate keys to learned ratings. Higher ratings sort later.
// Missing keys always read as DefaultScore; reads never insert.
type Scores map[string]float64

// NewScores returns an empty score store.
func NewScores() Scores {
	return make(Scores)
}

// Clone returns an independent copy of the store.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Get returns the stored rating for key, or DefaultScore if absent.
func (s Scores) Get(key string) float64 {
	if v, ok := s[key]; ok {
		return v
	}
	return DefaultScore
}

// Lookup resolves the rating for an item name. Candidates are the full key
// followed by the individual tokens; among candidates that have a stored
// rating the longest one wins, so the full key is preferred whenever both it
// and a token are known. Names with no scored candidate read as DefaultScore.
func (s Scores) Lookup(name string) float64 {
	tokens := Derive(name)
	all := append([]string{FullKey(tokens)}, tokens...)

	best := ""
	found := false
	for _, c := range all {
		if _, ok := s[c]; !ok {
			continue
		}
		if !found || len(c) > len(best) {
			best = c
			found = true
		}
	}
	if !found {
		return DefaultScore
	}
	return s[best]
}

// Update stores score under the item's full key and under every individual
// token, overwriting prior values. This is the only mutating entry point.
func (s Scores) Update(name string, score float64) {
	tokens := Derive(name)
	s[FullKey(tokens)] = score
	for _, t := range tokens {
		s[t] = score
	}
}
