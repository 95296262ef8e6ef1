package redact

import "testing"

func TestApply_LongestFirst(t *testing.T) {
	// "Smith" is a substring of "John Smith"; the longer rule must win so no
	// dangling fragment like "[STAFF] Smith" is produced.
	rs := NewRuleSet([]string{"Smith", "John Smith"}, nil)

	got := rs.Apply("John Smith called about the leak")
	want := "[STAFF] called about the leak"
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestApply_Classes(t *testing.T) {
	rs := NewRuleSet([]string{"佐藤", "田中太郎"}, []string{"グランドハイツ青葉", "青葉"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "staff name",
			in:   "担当の佐藤が伺います",
			want: "担当の[STAFF]が伺います",
		},
		{
			name: "property contains shorter property",
			in:   "グランドハイツ青葉の駐車場",
			want: "[PROPERTY]の駐車場",
		},
		{
			name: "both classes in one text",
			in:   "田中太郎より青葉の入居者様へ",
			want: "[STAFF]より[PROPERTY]の入居者様へ",
		},
		{
			name: "repeated occurrences",
			in:   "佐藤です。佐藤宛にご連絡ください。",
			want: "[STAFF]です。[STAFF]宛にご連絡ください。",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rs.Apply(tt.in); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestApply_CaseSensitive(t *testing.T) {
	rs := NewRuleSet([]string{"Sato"}, nil)

	if got := rs.Apply("sato wrote back"); got != "sato wrote back" {
		t.Errorf("lowercase variant was masked: %q", got)
	}
	if got := rs.Apply("Sato wrote back"); got != "[STAFF] wrote back" {
		t.Errorf("exact variant not masked: %q", got)
	}
}

func TestApply_EmptyRuleSetIsIdentity(t *testing.T) {
	rs := NewRuleSet(nil, nil)

	in := "田中さんがグランドハイツに到着"
	if got := rs.Apply(in); got != in {
		t.Errorf("empty rule set changed text: %q", got)
	}
	if rs.Len() != 0 {
		t.Errorf("Len = %d, want 0", rs.Len())
	}
}

func TestNewRuleSet_DropsBlankNames(t *testing.T) {
	rs := NewRuleSet([]string{"", "  ", "佐藤"}, []string{""})
	if rs.Len() != 1 {
		t.Errorf("Len = %d, want 1", rs.Len())
	}
}
