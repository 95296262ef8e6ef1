// Package corpusindex holds the corpus embedding vectors in memory and ranks
// them against a query vector.
package corpusindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/faqdex/internal/domain"
	"github.com/kailas-cloud/faqdex/internal/domain/corpus"
	"github.com/kailas-cloud/faqdex/internal/domain/match"
)

// Index is an exhaustive cosine-similarity index over the loaded corpus.
// Built once per corpus load and read-only afterwards, so concurrent searches
// need no locking.
type Index struct {
	entries []corpus.Entry
	vectors [][]float32 // unit-normalized at build
	dim     int
}

// New builds an index from entries and their question embeddings, one vector
// per entry in the same order. Vectors are normalized once here; Search then
// only needs dot products.
func New(entries []corpus.Entry, vectors [][]float32) (*Index, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", domain.ErrMalformedCorpus)
	}
	if len(entries) != len(vectors) {
		return nil, fmt.Errorf("%w: %d entries, %d vectors",
			domain.ErrVectorDimMismatch, len(entries), len(vectors))
	}

	dim := len(vectors[0])
	normalized := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dim %d, want %d",
				domain.ErrVectorDimMismatch, i, len(v), dim)
		}
		normalized[i] = unitVector(v)
	}

	return &Index{entries: entries, vectors: normalized, dim: dim}, nil
}

// Len returns the corpus size.
func (ix *Index) Len() int { return len(ix.entries) }

// Entry returns the corpus entry with the given id.
func (ix *Index) Entry(id int) (corpus.Entry, bool) {
	if id < 0 || id >= len(ix.entries) {
		return corpus.Entry{}, false
	}
	return ix.entries[id], true
}

// Search scores every corpus entry against the query vector and returns up to
// k matches, descending by score, equal scores broken by ascending entry id.
// Scores are clamped to [0,1]; the threshold policy upstream assumes the
// nonnegative similarity regime of sentence-similarity models.
func (ix *Index) Search(vector []float32, k int) ([]match.Match, error) {
	if len(vector) != ix.dim {
		return nil, fmt.Errorf("%w: query dim %d, index dim %d",
			domain.ErrVectorDimMismatch, len(vector), ix.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	query := unitVector(vector)
	matches := make([]match.Match, len(ix.vectors))
	for i, v := range ix.vectors {
		matches[i] = match.New(ix.entries[i].ID(), clampScore(dot(query, v)))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score() != matches[j].Score() {
			return matches[i].Score() > matches[j].Score()
		}
		return matches[i].EntryID() < matches[j].EntryID()
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func unitVector(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}
	inv := 1.0 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
