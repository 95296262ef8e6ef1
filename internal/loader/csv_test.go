package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/faqdex/internal/domain"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qa_data.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestLoadCorpus_CanonicalHeader(t *testing.T) {
	path := writeTempCSV(t, "question,answer,genre\n鍵を失くした,管理会社へ連絡,設備\nゴミの分別,市のルールに従う,生活\n")

	entries, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].ID() != 0 || entries[1].ID() != 1 {
		t.Errorf("ids = %d, %d, want 0, 1", entries[0].ID(), entries[1].ID())
	}
	if entries[0].Question() != "鍵を失くした" || entries[0].Answer() != "管理会社へ連絡" {
		t.Errorf("entry 0 = %q / %q", entries[0].Question(), entries[0].Answer())
	}
	if entries[1].Genre() != "生活" {
		t.Errorf("genre = %q, want 生活", entries[1].Genre())
	}
}

func TestLoadCorpus_LocaleAliases(t *testing.T) {
	path := writeTempCSV(t, "ジャンル,質問,回答\n契約,更新料はいくら,契約書記載の通り\n")

	entries, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if entries[0].Question() != "更新料はいくら" {
		t.Errorf("question = %q", entries[0].Question())
	}
	if entries[0].Genre() != "契約" {
		t.Errorf("genre = %q", entries[0].Genre())
	}
}

func TestLoadCorpus_BOMAndCaseInsensitiveHeader(t *testing.T) {
	path := writeTempCSV(t, "\uFEFFQuestion,Answer\nq1,a1\n")

	entries, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
}

func TestLoadCorpus_GenreOptional(t *testing.T) {
	path := writeTempCSV(t, "question,answer\nq1,a1\n")

	entries, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if entries[0].Genre() != "" {
		t.Errorf("genre = %q, want empty", entries[0].Genre())
	}
}

func TestLoadCorpus_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "missing question column", content: "answer,genre\na1,g1\n"},
		{name: "missing answer column", content: "question\nq1\n"},
		{name: "empty question cell", content: "question,answer\n,a1\n"},
		{name: "empty answer cell", content: "question,answer\nq1,\n"},
		{name: "header only", content: "question,answer\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, tt.content)
			if _, err := LoadCorpus(path); !errors.Is(err, domain.ErrMalformedCorpus) {
				t.Errorf("error = %v, want ErrMalformedCorpus", err)
			}
		})
	}
}

func TestLoadCorpus_MissingFile(t *testing.T) {
	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
