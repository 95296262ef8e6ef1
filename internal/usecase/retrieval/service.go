// Package retrieval runs the query pipeline: normalize, embed, rank the whole
// corpus, filter by score threshold.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/faqdex/internal/domain/match"
)

// DefaultThreshold is the minimum similarity score for a corpus entry to count
// as a match. Inherited policy from the source system; kept as a named value
// rather than tuned.
const DefaultThreshold = 0.5

// defaultNarrowAfter mirrors the disclosure page size: more matches than one
// page prompts the caller to narrow the query.
const defaultNarrowAfter = 10

// Outcome is the user-guidance classification of a retrieval run.
type Outcome string

const (
	// OutcomeNoQuery means the query was blank after normalization and
	// retrieval was skipped entirely.
	OutcomeNoQuery Outcome = "no_query"
	// OutcomeNoMatch means no entry reached the score threshold.
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeNarrow means more than one page matched; the full set is still
	// returned for paged disclosure.
	OutcomeNarrow Outcome = "narrow"
	// OutcomeOK means a page or less matched.
	OutcomeOK Outcome = "ok"
)

// Result is the ordered match set of one query plus its guidance outcome.
type Result struct {
	Matches []match.Match
	Outcome Outcome
}

// Engine orchestrates one retrieval pass. Stateless per query: a failed query
// is simply resubmitted by the caller.
type Engine struct {
	index       Index
	embed       Embedder
	norm        Normalizer
	threshold   float64
	narrowAfter int
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold overrides the score threshold.
func WithThreshold(t float64) Option {
	return func(e *Engine) { e.threshold = t }
}

// WithNarrowAfter overrides the match count above which the outcome suggests
// narrowing the query. Normally the disclosure page size.
func WithNarrowAfter(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.narrowAfter = n
		}
	}
}

// New creates a retrieval engine.
func New(index Index, embed Embedder, norm Normalizer, opts ...Option) *Engine {
	e := &Engine{
		index:       index,
		embed:       embed,
		norm:        norm,
		threshold:   DefaultThreshold,
		narrowAfter: defaultNarrowAfter,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Retrieve runs the full pipeline for one query. A blank query after
// normalization skips retrieval without calling the embedder. An embedding
// failure is returned as an error, never as an empty match set.
func (e *Engine) Retrieve(ctx context.Context, query string) (Result, error) {
	normalized := e.norm.Normalize(query)
	if strings.TrimSpace(normalized) == "" {
		return Result{Outcome: OutcomeNoQuery}, nil
	}

	emb, err := e.embed.Embed(ctx, normalized)
	if err != nil {
		return Result{}, fmt.Errorf("vectorize query: %w", err)
	}

	// Exhaustive ranking: the threshold may admit results at any rank, so
	// there is no partial-corpus shortcut.
	ranked, err := e.index.Search(emb.Embedding, e.index.Len())
	if err != nil {
		return Result{}, fmt.Errorf("rank corpus: %w", err)
	}

	matches := ranked[:0:0]
	for _, m := range ranked {
		if m.Score() >= e.threshold {
			matches = append(matches, m)
		}
	}

	outcome := OutcomeOK
	switch {
	case len(matches) == 0:
		outcome = OutcomeNoMatch
	case len(matches) > e.narrowAfter:
		outcome = OutcomeNarrow
	}

	return Result{Matches: matches, Outcome: outcome}, nil
}

// Threshold returns the active score threshold.
func (e *Engine) Threshold() float64 { return e.threshold }
