// Package match holds the scored retrieval hit value type.
package match

// Match is a single scored retrieval hit. Produced transiently per query,
// never persisted.
type Match struct {
	entryID int
	score   float64
}

// New creates a scored match.
func New(entryID int, score float64) Match {
	return Match{entryID: entryID, score: score}
}

// EntryID returns the corpus id of the matched entry.
func (m Match) EntryID() int { return m.entryID }

// Score returns the similarity score in [0,1].
func (m Match) Score() float64 { return m.score }
