package corpusindex

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/faqdex/internal/domain"
	"github.com/kailas-cloud/faqdex/internal/domain/corpus"
)

func testEntries(n int) []corpus.Entry {
	entries := make([]corpus.Entry, n)
	for i := range entries {
		entries[i] = corpus.New(i, "q", "a", "")
	}
	return entries
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []corpus.Entry
		vectors [][]float32
		wantErr error
	}{
		{
			name:    "empty corpus",
			wantErr: domain.ErrMalformedCorpus,
		},
		{
			name:    "count mismatch",
			entries: testEntries(2),
			vectors: [][]float32{{1, 0}},
			wantErr: domain.ErrVectorDimMismatch,
		},
		{
			name:    "ragged dimensions",
			entries: testEntries(2),
			vectors: [][]float32{{1, 0}, {1, 0, 0}},
			wantErr: domain.ErrVectorDimMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries, tt.vectors)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearch_Ordering(t *testing.T) {
	// Unit query along x: scores are 1.0, ~0.707, 0.
	ix, err := New(testEntries(3), [][]float32{
		{0, 1}, // orthogonal
		{1, 0}, // identical
		{1, 1}, // 45 degrees
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches, err := ix.Search([]float32{1, 0}, ix.Len())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	gotIDs := []int{matches[0].EntryID(), matches[1].EntryID(), matches[2].EntryID()}
	if !reflect.DeepEqual(gotIDs, []int{1, 2, 0}) {
		t.Errorf("order = %v, want [1 2 0]", gotIDs)
	}
	if matches[0].Score() < 0.999 {
		t.Errorf("top score = %f, want ~1.0", matches[0].Score())
	}
	if matches[2].Score() != 0 {
		t.Errorf("orthogonal score = %f, want 0", matches[2].Score())
	}
}

func TestSearch_TieBreakByEntryID(t *testing.T) {
	// Identical vectors produce identical scores; ties resolve by ascending id.
	ix, err := New(testEntries(3), [][]float32{
		{1, 1},
		{2, 2},
		{3, 3},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches, err := ix.Search([]float32{1, 1}, ix.Len())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i, m := range matches {
		if m.EntryID() != i {
			t.Errorf("position %d has entry %d, want %d", i, m.EntryID(), i)
		}
	}
}

func TestSearch_NegativeCosineClampsToZero(t *testing.T) {
	ix, err := New(testEntries(1), [][]float32{{-1, 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches, err := ix.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if matches[0].Score() != 0 {
		t.Errorf("score = %f, want 0", matches[0].Score())
	}
}

func TestSearch_TruncatesToK(t *testing.T) {
	ix, err := New(testEntries(5), [][]float32{
		{1, 0}, {1, 0}, {1, 0}, {1, 0}, {1, 0},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches, err := ix.Search([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("len = %d, want 2", len(matches))
	}
}

func TestSearch_DimMismatch(t *testing.T) {
	ix, err := New(testEntries(1), [][]float32{{1, 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := ix.Search([]float32{1, 0, 0}, 1); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("error = %v, want ErrVectorDimMismatch", err)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	ix, err := New(testEntries(4), [][]float32{
		{1, 0}, {0.5, 0.5}, {0.5, 0.5}, {0, 1},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, err := ix.Search([]float32{0.7, 0.3}, ix.Len())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	second, err := ix.Search([]float32{0.7, 0.3}, ix.Len())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated search differs: %+v vs %+v", first, second)
	}
}

func TestEntry_Lookup(t *testing.T) {
	entries := []corpus.Entry{corpus.New(0, "鍵の紛失", "再発行します", "設備")}
	ix, err := New(entries, [][]float32{{1}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	e, ok := ix.Entry(0)
	if !ok || e.Question() != "鍵の紛失" {
		t.Errorf("Entry(0) = %+v, ok=%v", e, ok)
	}
	if _, ok := ix.Entry(1); ok {
		t.Error("Entry(1) should not exist")
	}
	if _, ok := ix.Entry(-1); ok {
		t.Error("Entry(-1) should not exist")
	}
}
