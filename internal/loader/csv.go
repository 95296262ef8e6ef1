// Package loader ingests the corpus CSV and the masking reference lists,
// collapsing source-specific shapes into the canonical domain types before
// anything reaches the retrieval core.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kailas-cloud/faqdex/internal/domain"
	"github.com/kailas-cloud/faqdex/internal/domain/corpus"
)

// Column-name variants across the datasets this loader has seen. Matching is
// case-insensitive on the trimmed header cell.
var (
	questionAliases = []string{"question", "質問", "q", "query"}
	answerAliases   = []string{"answer", "回答", "a", "reply"}
	genreAliases    = []string{"genre", "ジャンル", "category", "カテゴリ"}
)

// corpusColumns holds resolved header indexes; -1 means absent.
type corpusColumns struct {
	question int
	answer   int
	genre    int
}

// LoadCorpus reads a UTF-8 CSV with a header row and returns the corpus in
// file order, ids assigned 0-based. Any malformed row fails the whole load:
// the pipeline must never serve queries against a partially loaded corpus.
func LoadCorpus(path string) ([]corpus.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	entries, err := readCorpus(f)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	return entries, nil
}

func readCorpus(r io.Reader) ([]corpus.Entry, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", domain.ErrMalformedCorpus)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []corpus.Entry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrMalformedCorpus, len(entries)+1, err)
		}

		question := strings.TrimSpace(record[cols.question])
		answer := strings.TrimSpace(record[cols.answer])
		if question == "" || answer == "" {
			return nil, fmt.Errorf("%w: row %d: empty question or answer",
				domain.ErrMalformedCorpus, len(entries)+1)
		}

		var genre string
		if cols.genre >= 0 {
			genre = strings.TrimSpace(record[cols.genre])
		}

		entries = append(entries, corpus.New(len(entries), question, answer, genre))
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no data rows", domain.ErrMalformedCorpus)
	}
	return entries, nil
}

// resolveColumns maps header cells to canonical fields. question and answer
// are required; genre is optional.
func resolveColumns(header []string) (corpusColumns, error) {
	cols := corpusColumns{question: -1, answer: -1, genre: -1}

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF") // UTF-8 BOM
		}
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case cols.question < 0 && matchesAlias(name, questionAliases):
			cols.question = i
		case cols.answer < 0 && matchesAlias(name, answerAliases):
			cols.answer = i
		case cols.genre < 0 && matchesAlias(name, genreAliases):
			cols.genre = i
		}
	}

	if cols.question < 0 {
		return cols, fmt.Errorf("%w: no question column in header", domain.ErrMalformedCorpus)
	}
	if cols.answer < 0 {
		return cols, fmt.Errorf("%w: no answer column in header", domain.ErrMalformedCorpus)
	}
	return cols, nil
}

func matchesAlias(name string, aliases []string) bool {
	for _, a := range aliases {
		if name == a {
			return true
		}
	}
	return false
}
