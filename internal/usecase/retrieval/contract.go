package retrieval

import (
	"context"

	"github.com/kailas-cloud/faqdex/internal/domain"
	"github.com/kailas-cloud/faqdex/internal/domain/match"
)

// Index ranks the whole corpus against a query vector.
type Index interface {
	Search(vector []float32, k int) ([]match.Match, error)
	Len() int
}

// Embedder vectorizes the normalized query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Normalizer strips boilerplate before the query is embedded.
type Normalizer interface {
	Normalize(text string) string
}
